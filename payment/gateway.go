// Package payment creates hosted checkout sessions with the payment provider.
package payment

import (
	"context"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrNotConfigured = errors.New("payment: provider not configured")

type LineItem struct {
	Name string `json:"name"`
	// UnitAmount is in minor currency units.
	UnitAmount int64    `json:"unitAmount"`
	Quantity   int      `json:"quantity"`
	Images     []string `json:"images,omitempty"`
	Size       string   `json:"size,omitempty"`
}

type SessionRequest struct {
	LineItems     []LineItem        `json:"lineItems"`
	SuccessURL    string            `json:"successUrl"`
	CancelURL     string            `json:"cancelUrl"`
	CustomerEmail string            `json:"customerEmail,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// MinorUnits converts a decimal price into minor units, rounding half away from zero.
func MinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}

// HostedGateway talks to the provider's REST API over fiber's HTTP client.
type HostedGateway struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
}

func NewHostedGateway(endpoint, apiKey string) *HostedGateway {
	return &HostedGateway{endpoint: endpoint, apiKey: apiKey, timeout: 10 * time.Second}
}

func (g *HostedGateway) CreateSession(ctx context.Context, req SessionRequest) (Session, error) {
	if g.endpoint == "" || g.apiKey == "" {
		return Session{}, ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}

	timeout := g.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	agent := fiber.Post(g.endpoint + "/v1/checkout/sessions")
	agent.Set(fiber.HeaderAuthorization, "Bearer "+g.apiKey)
	agent.Set("Idempotency-Key", uuid.NewString())
	agent.JSONEncoder(json.Marshal)
	agent.JSON(req)
	agent.Timeout(timeout)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return Session{}, errors.Wrap(errs[0], "create checkout session")
	}
	if code < 200 || code > 299 {
		return Session{}, errors.Errorf("create checkout session: provider returned %d: %s", code, truncate(body, 256))
	}

	var s Session
	if err := json.Unmarshal(body, &s); err != nil {
		return Session{}, errors.Wrap(err, "decode checkout session")
	}
	if s.URL == "" {
		return Session{}, errors.New("create checkout session: provider returned no url")
	}
	return s, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
