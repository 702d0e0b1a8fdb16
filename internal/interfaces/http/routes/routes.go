// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lapis-malang/storefront/internal/config"
	"github.com/lapis-malang/storefront/internal/domain/catalog"
	"github.com/lapis-malang/storefront/internal/domain/checkout"
	"github.com/lapis-malang/storefront/internal/interfaces/http/handlers"
	"github.com/lapis-malang/storefront/internal/interfaces/http/middleware"
	"github.com/lapis-malang/storefront/internal/pkg/metrics"
	"github.com/sirupsen/logrus"
)

// Dependencies carries the services the handlers are built from
type Dependencies struct {
	Config   *config.Config
	Catalog  *catalog.Service
	Checkout *checkout.Service
	Metrics  *metrics.Metrics
	Logger   logrus.FieldLogger
}

// SetupPageRoutes sets up the server-rendered storefront pages
func SetupPageRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	pageHandler := handlers.NewPageHandler(deps.Catalog)
	cartHandler := handlers.NewCartHandler(deps.Catalog, deps.Metrics, deps.Logger)
	checkoutHandler := handlers.NewCheckoutHandler(deps.Checkout)

	pages := rg.Group("")
	pages.Use(middleware.Timeout(deps.Config.Server.RequestTimeout))
	{
		pages.GET("/", pageHandler.Home)
		pages.GET("/products", pageHandler.Products)
		pages.GET("/product/:id", pageHandler.Product)
		pages.GET("/about", pageHandler.About)

		pages.GET("/cart", cartHandler.Page)
		pages.POST("/cart/items", cartHandler.AddItemForm)
		pages.POST("/cart/items/:id/quantity", cartHandler.UpdateQuantityForm)
		pages.POST("/cart/items/:id/remove", cartHandler.RemoveItemForm)

		pages.GET("/checkout", checkoutHandler.Page)
		pages.POST("/checkout", checkoutHandler.Submit)
	}
}

// SetupCatalogRoutes sets up catalog related routes
func SetupCatalogRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog)

	items := rg.Group("/catalog")
	items.Use(middleware.Timeout(deps.Config.Server.RequestTimeout))
	{
		items.GET("", catalogHandler.ListItems)
		items.GET("/:id", catalogHandler.GetItem)
	}
}

// SetupCartRoutes sets up cart related routes
func SetupCartRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	cartHandler := handlers.NewCartHandler(deps.Catalog, deps.Metrics, deps.Logger)
	eventsHandler := handlers.NewEventsHandler(deps.Logger)

	cartGroup := rg.Group("/cart")
	{
		// Long-lived stream, no request timeout
		cartGroup.GET("/events", eventsHandler.CartEvents)

		bounded := cartGroup.Group("")
		bounded.Use(middleware.Timeout(deps.Config.Server.RequestTimeout))
		bounded.GET("", cartHandler.GetCart)
		bounded.DELETE("", cartHandler.ClearCart)
		bounded.GET("/count", cartHandler.GetCartCount)
		bounded.POST("/items", cartHandler.AddItem)
		bounded.PATCH("/items/:id", cartHandler.UpdateItem)
		bounded.DELETE("/items/:id", cartHandler.RemoveItem)
	}
}

// SetupCheckoutRoutes sets up checkout related routes
func SetupCheckoutRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	checkoutHandler := handlers.NewCheckoutHandler(deps.Checkout)

	checkoutGroup := rg.Group("/checkout")
	checkoutGroup.Use(middleware.Timeout(deps.Config.Server.RequestTimeout))
	{
		checkoutGroup.POST("", checkoutHandler.SubmitJSON)
	}
}

// SetupRoutes sets up every storefront route. Both groups must already carry
// the session middleware.
func SetupRoutes(pages *gin.RouterGroup, api *gin.RouterGroup, deps *Dependencies) {
	SetupPageRoutes(pages, deps)

	SetupCatalogRoutes(api, deps)
	SetupCartRoutes(api, deps)
	SetupCheckoutRoutes(api, deps)
}
