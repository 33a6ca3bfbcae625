// Package checkoutclient hands a cart to the storefront checkout endpoint and
// sends the shopper on to the payment page.
package checkoutclient

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"storefront/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ClearCartFlag is set just before navigating away so the cart can be
// emptied once the shopper comes back from the payment page.
const ClearCartFlag = "storefront:clear-cart"

var ErrEmptyCart = errors.New("checkout: cart is empty")

const (
	msgEmptyCart   = "Your cart is empty."
	msgUnreachable = "We couldn't reach checkout. Check your connection and try again."
	msgFailed      = "Checkout failed. Please try again."
)

// UserError carries a message that is safe to show to the shopper.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string { return e.Message }
func (e *UserError) Unwrap() error { return e.Err }

type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type FlagStore interface {
	SetFlag(key string) error
}

type Client struct {
	BaseURL string
	// Tokens is optional; guests check out without one.
	Tokens   TokenSource
	Flags    FlagStore
	Navigate func(url string)
	Timeout  time.Duration
	Log      *zap.Logger
}

// Checkout posts the cart and, on success, navigates to the payment URL and
// returns it. Failures come back as *UserError and nothing is navigated.
func (c *Client) Checkout(ctx context.Context, items []models.CartItem) (string, error) {
	if len(items) == 0 {
		return "", &UserError{Message: msgEmptyCart, Err: ErrEmptyCart}
	}
	if err := ctx.Err(); err != nil {
		return "", &UserError{Message: msgUnreachable, Err: err}
	}
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}

	agent := fiber.Post(strings.TrimRight(c.BaseURL, "/") + "/api/checkout")
	if c.Tokens != nil {
		token, err := c.Tokens.Token(ctx)
		switch {
		case err != nil:
			log.Debug("no auth token for checkout, continuing as guest", zap.Error(err))
		case token != "":
			agent.Set(fiber.HeaderAuthorization, "Bearer "+token)
		}
	}
	agent.JSONEncoder(json.Marshal)
	agent.JSON(models.CheckoutReq{Items: items})
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	agent.Timeout(timeout)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return "", &UserError{Message: msgUnreachable, Err: errs[0]}
	}
	if code != fiber.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		msg := msgFailed
		if json.Unmarshal(body, &e) == nil && strings.TrimSpace(e.Error) != "" {
			msg = e.Error
		}
		return "", &UserError{Message: msg, Err: errors.Errorf("checkout: status %d", code)}
	}

	var resp models.CheckoutResp
	if err := json.Unmarshal(body, &resp); err != nil || resp.URL == "" {
		if err == nil {
			err = errors.New("checkout: response has no url")
		}
		return "", &UserError{Message: msgFailed, Err: err}
	}

	if c.Flags != nil {
		if err := c.Flags.SetFlag(ClearCartFlag); err != nil {
			log.Warn("set clear-cart flag", zap.Error(err))
		}
	}
	if c.Navigate != nil {
		c.Navigate(resp.URL)
	}
	return resp.URL, nil
}
