package views

import (
	"bytes"
	"testing"

	"github.com/lapis-malang/storefront/internal/domain/cart"
	"github.com/lapis-malang/storefront/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_EveryPageHasATemplate(t *testing.T) {
	tmpl, err := Parse()
	require.NoError(t, err)

	for page := range pageTemplates {
		assert.NotNil(t, tmpl.Lookup(page.Template()), "page %s", page)
		assert.NotEmpty(t, page.Title(), "page %s", page)
	}
}

func TestPage_UnknownFallsBackToNotFound(t *testing.T) {
	assert.Equal(t, "not_found.tmpl", Page("missing").Template())
}

func TestCartTemplate(t *testing.T) {
	tmpl, err := Parse()
	require.NoError(t, err)

	item := catalog.Item{ID: "1", Name: "Original Classic Lapis", Price: 85000}
	data := map[string]any{
		"Title":     "Shopping Cart",
		"Page":      string(PageCart),
		"CartCount": 3,
		"Empty":     false,
		"Lines":     []cart.Line{{Item: item, Quantity: 3}},
		"Subtotal":  int64(255000),
	}

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, PageCart.Template(), data))

	html := buf.String()
	assert.Contains(t, html, "Original Classic Lapis")
	assert.Contains(t, html, "Rp 255,000")
	assert.Contains(t, html, `<span class="badge" id="cart-badge">3</span>`)
	assert.Contains(t, html, `action="/cart/items/1/quantity"`)
	assert.NotContains(t, html, "Your cart is empty")
}
