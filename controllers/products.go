package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storefront/utils"
)

// GET /api/products
func (h *Handler) GetProducts(c *fiber.Ctx) error {
	// Anything unparsable falls through to the reader's maximum.
	limit, _ := utils.DecimalInt(c.Query("limit"))

	items, err := h.Products.ListPublished(c.UserContext(), limit)
	if err != nil {
		h.Log.Error("list products failed, serving fallback catalog", zap.Error(err))
		return c.JSON(fiber.Map{"items": items, "error": "Failed to load products"})
	}
	return c.JSON(fiber.Map{"items": items})
}

// GET /api/products/:id
func (h *Handler) GetProductByID(c *fiber.Ctx) error {
	p, ok := h.Products.GetBySlug(c.UserContext(), c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}
	return c.JSON(fiber.Map{"item": p})
}
