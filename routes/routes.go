package routes

import (
	"github.com/gofiber/fiber/v2"

	"storefront/controllers"
	"storefront/middleware"
	"storefront/utils"
)

// RegisterRoutes mounts the API. assets may be nil when no bucket is served
// from this process.
func RegisterRoutes(app *fiber.App, h *controllers.Handler, verifier utils.TokenVerifier, assets fiber.Handler) {
	app.Get("/healthz", h.Healthz)
	if assets != nil {
		app.Get("/assets/*", assets)
	}

	api := app.Group("/api")
	admin := middleware.JWTMiddleware(verifier)

	// products
	api.Get("/products", h.GetProducts)
	api.Get("/products/:id", h.GetProductByID)

	// checkout
	api.Post("/checkout", h.CreateCheckout)

	// support
	api.Post("/support", h.CreateSupportTicket)
	api.Get("/admin/support", admin, h.GetSupportTickets)
	api.Get("/admin/support/export", admin, h.ExportSupportTickets)

	// assets
	api.Post("/upload", admin, h.UploadAsset)

	// site settings
	api.Get("/site-settings", h.GetSiteSettings)
	api.Put("/site-settings", admin, h.UpdateSiteSettings)
}
