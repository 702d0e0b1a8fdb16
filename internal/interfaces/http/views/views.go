// Package views holds the storefront's HTML templates
package views

import (
	"embed"
	"html/template"
	"time"

	"github.com/lapis-malang/storefront/internal/pkg/money"
)

//go:embed templates/*.tmpl
var files embed.FS

// Page names a rendered view
type Page string

// Pages
const (
	PageHome         Page = "home"
	PageProducts     Page = "products"
	PageProduct      Page = "product"
	PageNotFound     Page = "not_found"
	PageCart         Page = "cart"
	PageCheckout     Page = "checkout"
	PageConfirmation Page = "confirmation"
	PageAbout        Page = "about"
)

var pageTemplates = map[Page]string{
	PageHome:         "home.tmpl",
	PageProducts:     "products.tmpl",
	PageProduct:      "product.tmpl",
	PageNotFound:     "not_found.tmpl",
	PageCart:         "cart.tmpl",
	PageCheckout:     "checkout.tmpl",
	PageConfirmation: "confirmation.tmpl",
	PageAbout:        "about.tmpl",
}

var pageTitles = map[Page]string{
	PageHome:         "Lapis Malang",
	PageProducts:     "Product List",
	PageProduct:      "Product",
	PageNotFound:     "Product not found",
	PageCart:         "Shopping Cart",
	PageCheckout:     "Checkout",
	PageConfirmation: "Order Successful!",
	PageAbout:        "About Us",
}

// Template returns the template file that renders p
func (p Page) Template() string {
	if name, ok := pageTemplates[p]; ok {
		return name
	}
	return pageTemplates[PageNotFound]
}

// Title returns the default document title of p
func (p Page) Title() string {
	return pageTitles[p]
}

// Funcs returns the helpers available to every template
func Funcs() template.FuncMap {
	return template.FuncMap{
		"rupiah": money.Format,
		"number": money.Number,
		"year":   func() int { return time.Now().Year() },
	}
}

// Parse parses every embedded template
func Parse() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(files, "templates/*.tmpl")
}
