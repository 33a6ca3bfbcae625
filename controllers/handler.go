// Package controllers holds the fiber handlers for the storefront API.
package controllers

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/models"
	"storefront/notify"
	"storefront/objectstore"
	"storefront/payment"
	"storefront/utils"
)

type ProductReader interface {
	GetBySlug(ctx context.Context, slug string) (models.Product, bool)
	GetPublishedBySlug(ctx context.Context, slug string) (models.Product, bool)
	ListPublished(ctx context.Context, limit int) ([]models.Product, error)
}

type TicketStore interface {
	CreateTicket(ctx context.Context, t models.SupportTicket) error
	ListTickets(ctx context.Context, f models.TicketFilter) ([]models.SupportTicket, error)
}

type SettingsStore interface {
	GetSetting(ctx context.Context, key string) (map[string]any, error)
	PutSetting(ctx context.Context, key string, value map[string]any) error
}

type Bucket interface {
	Upload(ctx context.Context, key string, data []byte, attrs objectstore.Attrs) error
	MakePublic(ctx context.Context, key string) error
	PublicURL(key string) string
}

type CheckoutGateway interface {
	CreateSession(ctx context.Context, req payment.SessionRequest) (payment.Session, error)
}

type HealthChecker interface {
	Driver() string
	Ping(ctx context.Context) error
}

// Deps is everything the handlers talk to. Zero-valued optional fields get
// defaults in New.
type Deps struct {
	Products ProductReader
	Tickets  TicketStore
	Settings SettingsStore
	Bucket   Bucket
	Gateway  CheckoutGateway
	Notifier notify.TicketNotifier
	Health   HealthChecker
	// Verifier is optional on checkout; a valid token attaches the customer.
	Verifier utils.TokenVerifier

	CheckoutSuccessURL string
	CheckoutCancelURL  string

	Log   *zap.Logger
	Now   func() time.Time
	NewID func() string
}

type Handler struct {
	Deps
	validate *validator.Validate
}

func New(d Deps) *Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	if d.Notifier == nil {
		d.Notifier = notify.Nop{Log: d.Log}
	}
	return &Handler{Deps: d, validate: validator.New()}
}
