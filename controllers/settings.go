package controllers

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"storefront/models"
	"storefront/store"
)

// GET /api/site-settings
func (h *Handler) GetSiteSettings(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"countdown": h.countdown(c)})
}

func (h *Handler) countdown(c *fiber.Ctx) models.CountdownSettings {
	out := models.DefaultCountdownSettings()

	raw, err := h.Settings.GetSetting(c.UserContext(), models.CountdownSettingsKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.Log.Warn("read countdown settings, serving default", zap.Error(err))
		}
		return out
	}

	// Missing keys keep their default.
	decoded := models.DefaultCountdownSettings()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &decoded,
	})
	if err == nil {
		err = dec.Decode(raw)
	}
	if err != nil {
		h.Log.Warn("decode countdown settings, serving default", zap.Error(err))
		return out
	}
	return decoded
}

type siteSettingsReq struct {
	Countdown *models.CountdownSettings `json:"countdown"`
}

// PUT /api/site-settings
func (h *Handler) UpdateSiteSettings(c *fiber.Ctx) error {
	var req siteSettingsReq
	if err := c.BodyParser(&req); err != nil || req.Countdown == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "countdown is required"})
	}

	cd := *req.Countdown
	cd.Title = strings.TrimSpace(cd.Title)
	cd.EndsAt = strings.TrimSpace(cd.EndsAt)
	cd.CTALabel = strings.TrimSpace(cd.CTALabel)
	cd.CTAHref = strings.TrimSpace(cd.CTAHref)

	if err := h.validate.Struct(cd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	var value map[string]any
	if err := mapstructure.Decode(cd, &value); err != nil {
		h.Log.Error("encode countdown settings", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save settings"})
	}
	if err := h.Settings.PutSetting(c.UserContext(), models.CountdownSettingsKey, value); err != nil {
		h.Log.Error("save countdown settings", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save settings"})
	}
	return c.JSON(fiber.Map{"countdown": cd})
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid settings"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fe.Field() + " is too long"
	case "datetime":
		return fe.Field() + " must be an RFC 3339 timestamp"
	}
	return fe.Field() + " is invalid"
}
