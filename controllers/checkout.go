package controllers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storefront/middleware"
	"storefront/models"
	"storefront/payment"
)

const (
	maxCartLines    = 50
	maxLineQuantity = 10
)

// POST /api/checkout
func (h *Handler) CreateCheckout(c *fiber.Ctx) error {
	var req models.CheckoutReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if len(req.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cart is empty"})
	}
	if len(req.Items) > maxCartLines {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Too many items in cart"})
	}

	ctx := c.UserContext()
	session := payment.SessionRequest{
		SuccessURL: h.CheckoutSuccessURL,
		CancelURL:  h.CheckoutCancelURL,
		Metadata:   map[string]string{},
	}
	slugs := make([]string, 0, len(req.Items))
	for _, it := range req.Items {
		p, ok := h.Products.GetPublishedBySlug(ctx, it.Slug)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("Unknown product %q", strings.TrimSpace(it.Slug))})
		}
		if p.SoldOut || !p.Available {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": p.Name + " is sold out"})
		}
		size := strings.TrimSpace(it.Size)
		if size != "" {
			canonical, ok := matchSize(p.Sizes, size)
			if !ok {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("Size %s is not available for %s", size, p.Name)})
			}
			size = canonical
		}

		item := payment.LineItem{
			Name:       p.Name,
			UnitAmount: payment.MinorUnits(p.Price),
			Quantity:   clampQuantity(it.Quantity),
			Size:       size,
		}
		if p.Image != "" {
			item.Images = []string{p.Image}
		}
		session.LineItems = append(session.LineItems, item)
		slugs = append(slugs, p.Slug)
	}
	session.Metadata["slugs"] = strings.Join(slugs, ",")

	if token, ok := middleware.BearerToken(c); ok && h.Verifier != nil {
		id, err := h.Verifier.VerifyToken(ctx, token)
		if err != nil {
			h.Log.Debug("checkout token rejected, continuing as guest", zap.Error(err))
		} else {
			session.CustomerEmail = id.Email
			session.Metadata["customer"] = id.Subject
		}
	}

	s, err := h.Gateway.CreateSession(ctx, session)
	if err != nil {
		h.Log.Error("create checkout session", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to start checkout"})
	}
	return c.JSON(models.CheckoutResp{URL: s.URL, SessionID: s.ID})
}

func clampQuantity(q int) int {
	switch {
	case q < 1:
		return 1
	case q > maxLineQuantity:
		return maxLineQuantity
	}
	return q
}

// matchSize finds s in sizes ignoring case and returns the product's spelling.
func matchSize(sizes []string, s string) (string, bool) {
	for _, v := range sizes {
		if strings.EqualFold(v, s) {
			return v, true
		}
	}
	return "", false
}
