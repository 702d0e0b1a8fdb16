package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lapis-malang/storefront/internal/config"
	"github.com/lapis-malang/storefront/internal/domain/cart"
	"github.com/lapis-malang/storefront/internal/domain/catalog"
	"github.com/lapis-malang/storefront/internal/domain/checkout"
	"github.com/lapis-malang/storefront/internal/domain/session"
	"github.com/lapis-malang/storefront/internal/interfaces/http/middleware"
	"github.com/lapis-malang/storefront/internal/interfaces/http/routes"
	"github.com/lapis-malang/storefront/internal/interfaces/http/views"
	"github.com/lapis-malang/storefront/internal/pkg/metrics"
	"github.com/lapis-malang/storefront/internal/pkg/token"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	cfg      *config.Config
	router   *gin.Engine
	sessions *session.Registry
	checkout *checkout.Service
	tokens   *token.SessionManager
	cookie   *http.Cookie
}

type cartEnvelope struct {
	Message string   `json:"message"`
	Error   string   `json:"error"`
	Data    cartBody `json:"data"`
}

type cartBody struct {
	Items  []cart.Line `json:"items"`
	Totals cart.Totals `json:"totals"`
}

func testConfig() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Name: "Lapis Malang Storefront", Environment: "test"},
		Server: config.ServerConfig{RequestTimeout: 5 * time.Second},
		Session: config.SessionConfig{
			CookieName:  "lapis_session",
			TokenSecret: "test-session-secret-with-32-characters!",
			TokenExpiry: time.Hour,
			IdleTTL:     time.Hour,
		},
	}
}

func newTestEnv(t *testing.T, checkoutDelay time.Duration) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	logger, _ := test.NewNullLogger()
	m := metrics.NewNop()

	catalogService, err := catalog.NewService(context.Background(), catalog.StaticLoader{}, logger)
	require.NoError(t, err)

	registry := session.NewRegistry(cfg.Session.IdleTTL, logger, m)
	checkoutService := checkout.NewService(checkoutDelay, logger, m)
	tokens := token.NewSessionManager(cfg)
	t.Cleanup(checkoutService.Stop)
	t.Cleanup(registry.Close)

	tmpl, err := views.Parse()
	require.NoError(t, err)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	sessionMiddleware := middleware.Session(cfg, registry, tokens, logger)
	pages := router.Group("")
	pages.Use(sessionMiddleware)
	api := router.Group("/api/v1")
	api.Use(sessionMiddleware)

	routes.SetupRoutes(pages, api, &routes.Dependencies{
		Config:   cfg,
		Catalog:  catalogService,
		Checkout: checkoutService,
		Metrics:  m,
		Logger:   logger,
	})

	return &testEnv{
		cfg:      cfg,
		router:   router,
		sessions: registry,
		checkout: checkoutService,
		tokens:   tokens,
	}
}

func (e *testEnv) do(t *testing.T, method, path, contentType string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if e.cookie != nil {
		req.AddCookie(e.cookie)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name == e.cfg.Session.CookieName {
			e.cookie = c
		}
	}
	return w
}

func (e *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	return e.do(t, http.MethodGet, path, "", nil)
}

func (e *testEnv) postForm(t *testing.T, path string, values url.Values) *httptest.ResponseRecorder {
	return e.do(t, http.MethodPost, path, "application/x-www-form-urlencoded", strings.NewReader(values.Encode()))
}

func (e *testEnv) sendJSON(t *testing.T, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return e.do(t, method, path, "application/json", bytes.NewReader(body))
}

func (e *testEnv) session(t *testing.T) *session.Session {
	t.Helper()
	require.NotNil(t, e.cookie, "no session cookie issued yet")
	id, err := e.tokens.Validate(e.cookie.Value)
	require.NoError(t, err)
	sess, created := e.sessions.GetOrCreate(id)
	require.False(t, created)
	return sess
}

func decodeCart(t *testing.T, w *httptest.ResponseRecorder) cartEnvelope {
	t.Helper()
	var env cartEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestHome_FeaturesFirstThreeItems(t *testing.T) {
	env := newTestEnv(t, time.Second)

	w := env.get(t, "/")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Every Layer Tells a Story.")
	assert.Contains(t, body, "Original Classic Lapis")
	assert.Contains(t, body, "Premium Cheese Lapis")
	assert.NotContains(t, body, "Pandan Suji Delight")
	assert.NotContains(t, body, `id="cart-badge"`)
}

func TestProducts_ListsCatalog(t *testing.T) {
	env := newTestEnv(t, time.Second)

	w := env.get(t, "/products")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "6 delicious options available")
	assert.Contains(t, body, "Mocha Almond Roast")
	assert.Contains(t, body, "Rp 105,000")
}

func TestProduct_UnknownIDRendersNotFound(t *testing.T) {
	env := newTestEnv(t, time.Second)

	w := env.get(t, "/product/does-not-exist")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Product not found")
	assert.Contains(t, w.Body.String(), `href="/products"`)
}

func TestProduct_QuantitySelector(t *testing.T) {
	env := newTestEnv(t, time.Second)

	tests := []struct {
		query    string
		quantity string
		dec      string
		inc      string
	}{
		{query: "", quantity: "1", dec: "?qty=1", inc: "?qty=2"},
		{query: "?qty=3", quantity: "3", dec: "?qty=2", inc: "?qty=4"},
		{query: "?qty=0", quantity: "1", dec: "?qty=1", inc: "?qty=2"},
		{query: "?qty=abc", quantity: "1", dec: "?qty=1", inc: "?qty=2"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := env.get(t, "/product/2"+tt.query)

			require.Equal(t, http.StatusOK, w.Code)
			body := w.Body.String()
			assert.Contains(t, body, "Choco-Malt Layer")
			assert.Contains(t, body, `<span id="quantity">`+tt.quantity+`</span>`)
			assert.Contains(t, body, `href="`+tt.dec+`"`)
			assert.Contains(t, body, `href="`+tt.inc+`"`)
		})
	}

	// selecting a quantity never touches the cart
	assert.Equal(t, 0, env.session(t).Cart.TotalItems())
}

func TestAddItemForm_FromDetailGoesToCart(t *testing.T) {
	env := newTestEnv(t, time.Second)

	w := env.postForm(t, "/cart/items", url.Values{
		"product_id": {"1"},
		"quantity":   {"2"},
		"return_to":  {"/cart"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/cart", w.Header().Get("Location"))

	w = env.get(t, "/cart")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Shopping Cart")
	assert.Contains(t, body, `<span class="quantity">2</span>`)
	assert.Contains(t, body, "Rp 170,000")
	assert.Contains(t, body, `<span class="badge" id="cart-badge">2</span>`)
}

func TestAddItemForm_FromListStaysOnList(t *testing.T) {
	env := newTestEnv(t, time.Second)

	w := env.postForm(t, "/cart/items", url.Values{
		"product_id": {"3"},
		"return_to":  {"/products"},
	})

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/products", w.Header().Get("Location"))
	assert.Equal(t, 1, env.session(t).Cart.TotalItems())
}

func TestAddItemForm_RejectsOffsiteReturn(t *testing.T) {
	env := newTestEnv(t, time.Second)

	w := env.postForm(t, "/cart/items", url.Values{
		"product_id": {"3"},
		"return_to":  {"//evil.example"},
	})

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/products", w.Header().Get("Location"))
}

func TestAddItemForm_UnknownProduct(t *testing.T) {
	env := newTestEnv(t, time.Second)

	w := env.postForm(t, "/cart/items", url.Values{"product_id": {"99"}})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, env.session(t).Cart.TotalItems())
}

func TestCartPage_EmptyState(t *testing.T) {
	env := newTestEnv(t, time.Second)

	w := env.get(t, "/cart")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Your cart is empty")
	assert.Contains(t, w.Body.String(), "Start Shopping")
}

func TestCartPage_QuantityAndRemoveForms(t *testing.T) {
	env := newTestEnv(t, time.Second)
	env.postForm(t, "/cart/items", url.Values{"product_id": {"2"}})

	w := env.postForm(t, "/cart/items/2/quantity", url.Values{"delta": {"-5"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/cart", w.Header().Get("Location"))

	line, ok := env.session(t).Cart.Line("2")
	require.True(t, ok)
	assert.Equal(t, 1, line.Quantity)

	env.postForm(t, "/cart/items/2/quantity", url.Values{"delta": {"1"}})
	assert.Equal(t, 2, env.session(t).Cart.TotalItems())

	w = env.get(t, "/cart")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Your cart is empty")

	w = env.postForm(t, "/cart/items/2/remove", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.True(t, env.session(t).Cart.IsEmpty())

	w = env.get(t, "/cart")
	assert.Contains(t, w.Body.String(), "Your cart is empty")
}

func TestCartAPI_AddAccumulates(t *testing.T) {
	env := newTestEnv(t, time.Second)

	w := env.sendJSON(t, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "1"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeCart(t, w)
	assert.Equal(t, cart.Totals{LineCount: 1, TotalItems: 1, Subtotal: 85000}, resp.Data.Totals)

	w = env.sendJSON(t, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "1", "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeCart(t, w)
	require.Len(t, resp.Data.Items, 1)
	assert.Equal(t, 3, resp.Data.Items[0].Quantity)
	assert.Equal(t, "Original Classic Lapis", resp.Data.Items[0].Name)
	assert.Equal(t, int64(255000), resp.Data.Totals.Subtotal)
}

func TestCartAPI_UpdateQuantityFloorsAtOne(t *testing.T) {
	env := newTestEnv(t, time.Second)
	env.sendJSON(t, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "2"})

	w := env.sendJSON(t, http.MethodPatch, "/api/v1/cart/items/2", gin.H{"delta": -5})

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeCart(t, w)
	require.Len(t, resp.Data.Items, 1)
	assert.Equal(t, 1, resp.Data.Items[0].Quantity)
	assert.Equal(t, int64(95000), resp.Data.Totals.Subtotal)
}

func TestCartAPI_UpdateQuantityErrors(t *testing.T) {
	env := newTestEnv(t, time.Second)

	w := env.sendJSON(t, http.MethodPatch, "/api/v1/cart/items/1", gin.H{"delta": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	env.sendJSON(t, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "1"})
	w = env.sendJSON(t, http.MethodPatch, "/api/v1/cart/items/1", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for _, delta := range []int{1000, -1000, 1 << 50} {
		w = env.sendJSON(t, http.MethodPatch, "/api/v1/cart/items/1", gin.H{"delta": delta})
		assert.Equal(t, http.StatusBadRequest, w.Code, "delta %d", delta)
	}

	// the line is untouched by rejected updates
	line, ok := env.session(t).Cart.Line("1")
	require.True(t, ok)
	assert.Equal(t, 1, line.Quantity)

	w = env.sendJSON(t, http.MethodPatch, "/api/v1/cart/items/1", gin.H{"delta": 999})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, cart.MaxQuantity, decodeCart(t, w).Data.Items[0].Quantity)
}

func TestCartAPI_Remove(t *testing.T) {
	env := newTestEnv(t, time.Second)
	env.sendJSON(t, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "1"})
	env.sendJSON(t, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "2"})

	w := env.do(t, http.MethodDelete, "/api/v1/cart/items/1", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeCart(t, w)
	require.Len(t, resp.Data.Items, 1)
	assert.Equal(t, "2", resp.Data.Items[0].ID)
	assert.Equal(t, cart.Totals{LineCount: 1, TotalItems: 1, Subtotal: 95000}, resp.Data.Totals)

	// absent id leaves the cart as it was
	w = env.do(t, http.MethodDelete, "/api/v1/cart/items/1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, resp.Data, decodeCart(t, w).Data)
}

func TestCartAPI_AddValidation(t *testing.T) {
	env := newTestEnv(t, time.Second)

	tests := []struct {
		name       string
		payload    any
		wantStatus int
	}{
		{name: "missing product", payload: gin.H{}, wantStatus: http.StatusBadRequest},
		{name: "negative quantity", payload: gin.H{"product_id": "1", "quantity": -1}, wantStatus: http.StatusBadRequest},
		{name: "unknown product", payload: gin.H{"product_id": "42"}, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.sendJSON(t, http.MethodPost, "/api/v1/cart/items", tt.payload)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.NotEmpty(t, decodeCart(t, w).Error)
		})
	}

	assert.Equal(t, 0, env.session(t).Cart.TotalItems())
}

func TestCartAPI_ClearAndCount(t *testing.T) {
	env := newTestEnv(t, time.Second)
	env.sendJSON(t, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "1", "quantity": 2})
	env.sendJSON(t, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "3", "quantity": 7})

	w := env.get(t, "/api/v1/cart/count")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"count":9}}`, w.Body.String())

	w = env.do(t, http.MethodDelete, "/api/v1/cart", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeCart(t, w)
	assert.Empty(t, resp.Data.Items)
	assert.Equal(t, cart.Totals{}, resp.Data.Totals)
}

func TestCatalogAPI(t *testing.T) {
	env := newTestEnv(t, time.Second)

	w := env.get(t, "/api/v1/catalog")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data struct {
			Items []catalog.Item `json:"items"`
			Total int            `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 6, list.Data.Total)
	assert.Len(t, list.Data.Items, 6)
	assert.Equal(t, "1", list.Data.Items[0].ID)

	w = env.get(t, "/api/v1/catalog/4")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Pandan Suji Delight")

	w = env.get(t, "/api/v1/catalog/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"product not found"}`, w.Body.String())
}

func TestSession_PersistsAcrossRequests(t *testing.T) {
	env := newTestEnv(t, time.Second)

	env.sendJSON(t, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "1"})
	first := env.cookie
	require.NotNil(t, first)

	w := env.get(t, "/api/v1/cart/count")
	assert.JSONEq(t, `{"data":{"count":1}}`, w.Body.String())
	assert.Equal(t, first.Value, env.cookie.Value)

	// a new browser gets its own cart
	env.cookie = nil
	w = env.get(t, "/api/v1/cart/count")
	assert.JSONEq(t, `{"data":{"count":0}}`, w.Body.String())
	assert.NotEqual(t, first.Value, env.cookie.Value)
}
