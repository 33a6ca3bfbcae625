package controllers

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storefront/objectstore"
)

const maxUploadBytes = 20 << 20

// POST /api/upload
func (h *Handler) UploadAsset(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil || file == nil || file.Size == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File is required"})
	}
	if file.Size > maxUploadBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "File is too large"})
	}

	f, err := file.Open()
	if err != nil {
		h.Log.Error("open uploaded file", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Upload failed"})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.Log.Error("read uploaded file", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Upload failed"})
	}
	if len(data) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File is required"})
	}

	contentType := file.Header.Get(fiber.HeaderContentType)
	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}

	ctx := c.UserContext()
	key := assetKey(h.Now(), h.NewID(), file.Filename)
	attrs := objectstore.Attrs{ContentType: contentType, CacheControl: objectstore.OneYearCacheControl}
	if err := h.Bucket.Upload(ctx, key, data, attrs); err != nil {
		h.Log.Error("upload asset", zap.String("key", key), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Upload failed"})
	}
	if err := h.Bucket.MakePublic(ctx, key); err != nil {
		h.Log.Error("publish asset", zap.String("key", key), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Upload failed"})
	}

	return c.JSON(fiber.Map{"url": h.Bucket.PublicURL(key)})
}

// assetKey is products/{year}/{id}.{ext}; ext comes from the client file
// name, lowercased and reduced to [a-z0-9], or "bin".
func assetKey(now time.Time, id, filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	ext = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, ext)
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("products/%d/%s.%s", now.Year(), id, ext)
}
