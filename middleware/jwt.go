package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"storefront/utils"
)

const identityKey = "identity"

// JWTMiddleware rejects requests without a valid bearer token before the
// handler runs. The verified identity is stored in Locals.
func JWTMiddleware(verifier utils.TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := BearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing token"})
		}

		id, err := verifier.VerifyToken(c.UserContext(), token)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, utils.ErrTokenExpired) {
				msg = "token expired"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
		}

		c.Locals(identityKey, id)
		return c.Next()
	}
}

// BearerToken extracts the token from an "Authorization: Bearer ..." header.
func BearerToken(c *fiber.Ctx) (string, bool) {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(auth) < 7 || !strings.EqualFold(auth[:7], "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(auth[7:])
	return token, token != ""
}

// IdentityFrom returns the identity JWTMiddleware stored, if any.
func IdentityFrom(c *fiber.Ctx) (utils.Identity, bool) {
	id, ok := c.Locals(identityKey).(utils.Identity)
	return id, ok
}
