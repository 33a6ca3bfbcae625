package controllers

import (
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"storefront/models"
	"storefront/utils"
)

const (
	defaultTicketLimit = 50
	maxTicketLimit     = 200
)

// POST /api/support
func (h *Handler) CreateSupportTicket(c *fiber.Ctx) error {
	var in models.SupportTicketInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	message := strings.TrimSpace(in.Message)
	if name == "" || email == "" || message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name, email and message are required"})
	}
	if err := h.validate.Var(email, "email"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid email address"})
	}

	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		topic = models.DefaultTicketTopic
	}

	t := models.SupportTicket{
		ID:          h.NewID(),
		Name:        name,
		Email:       email,
		Subject:     optional(in.Subject),
		Topic:       topic,
		OrderNumber: optional(cast.ToString(in.OrderNumber)),
		Message:     message,
		Status:      models.TicketOpen,
		CreatedAt:   h.Now().UTC(),
	}

	ctx := c.UserContext()
	if err := h.Tickets.CreateTicket(ctx, t); err != nil {
		h.Log.Error("create support ticket", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit ticket"})
	}
	if err := h.Notifier.TicketCreated(ctx, t); err != nil {
		h.Log.Warn("support ticket notification failed", zap.String("ticket_id", t.ID), zap.Error(err))
	}

	return c.JSON(fiber.Map{"success": true, "ticketId": t.ID})
}

// GET /api/admin/support
func (h *Handler) GetSupportTickets(c *fiber.Ctx) error {
	tickets, err := h.Tickets.ListTickets(c.UserContext(), ticketFilter(c, defaultTicketLimit))
	if err != nil {
		h.Log.Error("list support tickets", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load tickets"})
	}
	if tickets == nil {
		tickets = []models.SupportTicket{}
	}
	return c.JSON(fiber.Map{"tickets": tickets})
}

type ticketRow struct {
	ID          string `csv:"id"`
	CreatedAt   string `csv:"created_at"`
	Status      string `csv:"status"`
	Topic       string `csv:"topic"`
	Name        string `csv:"name"`
	Email       string `csv:"email"`
	Subject     string `csv:"subject"`
	OrderNumber string `csv:"order_number"`
	Message     string `csv:"message"`
}

// GET /api/admin/support/export
func (h *Handler) ExportSupportTickets(c *fiber.Ctx) error {
	tickets, err := h.Tickets.ListTickets(c.UserContext(), ticketFilter(c, maxTicketLimit))
	if err != nil {
		h.Log.Error("export support tickets", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load tickets"})
	}

	rows := make([]ticketRow, 0, len(tickets))
	for _, t := range tickets {
		rows = append(rows, ticketRow{
			ID:          t.ID,
			CreatedAt:   t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
			Status:      t.Status,
			Topic:       t.Topic,
			Name:        t.Name,
			Email:       t.Email,
			Subject:     deref(t.Subject),
			OrderNumber: deref(t.OrderNumber),
			Message:     t.Message,
		})
	}

	out, err := gocsv.MarshalBytes(rows)
	if err != nil {
		h.Log.Error("encode support tickets csv", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to export tickets"})
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="support-tickets-%s.csv"`, h.Now().UTC().Format("20060102")))
	return c.Send(out)
}

func ticketFilter(c *fiber.Ctx, def int) models.TicketFilter {
	return models.TicketFilter{
		Status: models.NormalizeTicketStatus(strings.TrimSpace(c.Query("status"))),
		Limit:  parseLimit(c.Query("limit"), def, maxTicketLimit),
	}
}

// parseLimit returns def for anything that isn't a base-10 integer,
// otherwise the value clamped to [1, max].
func parseLimit(raw string, def, max int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := utils.DecimalInt(raw)
	if err != nil {
		return def
	}
	switch {
	case n < 1:
		return 1
	case n > max:
		return max
	}
	return n
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
