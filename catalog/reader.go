package catalog

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"storefront/models"
	"storefront/store"
)

const DefaultListLimit = 48

// ProductSource is the slice of the live store the Reader needs.
type ProductSource interface {
	FindProductBySlug(ctx context.Context, slug string) (models.Document, error)
	ListPublishedProducts(ctx context.Context, limit int) ([]models.Document, error)
}

// Reader serves storefront product reads. Store failures never reach the
// caller as a missing product: the fallback catalog is always consulted first.
type Reader struct {
	src      ProductSource
	maxLimit int
	log      *zap.Logger
}

func NewReader(src ProductSource, maxLimit int, log *zap.Logger) *Reader {
	if maxLimit < 1 {
		maxLimit = DefaultListLimit
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Reader{src: src, maxLimit: maxLimit, log: log}
}

// MaxLimit is the largest page ListPublished will return.
func (r *Reader) MaxLimit() int { return r.maxLimit }

// GetBySlug returns the product with the given slug, or false when neither
// the live store nor the fallback catalog has it. Drafts are returned too.
func (r *Reader) GetBySlug(ctx context.Context, slug string) (models.Product, bool) {
	return r.lookup(ctx, slug, false)
}

// GetPublishedBySlug is GetBySlug restricted to published documents. A live
// draft is not found and does not fall through to the fallback catalog.
func (r *Reader) GetPublishedBySlug(ctx context.Context, slug string) (models.Product, bool) {
	return r.lookup(ctx, slug, true)
}

func (r *Reader) lookup(ctx context.Context, slug string, publishedOnly bool) (models.Product, bool) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return models.Product{}, false
	}

	doc, err := r.src.FindProductBySlug(ctx, slug)
	switch {
	case err == nil:
		if publishedOnly && !doc.Published() {
			return models.Product{}, false
		}
		return NormalizeProduct(doc.ID, doc.Data), true
	case errors.Is(err, store.ErrNotFound):
	default:
		r.log.Warn("product lookup failed, trying fallback catalog",
			zap.String("slug", slug), zap.Error(err))
	}
	return FallbackBySlug(slug)
}

// ListPublished returns up to limit published products in store order
// (document id ascending). When the store errors or has no rows, a prefix of
// the fallback catalog is returned instead; the store error, if any, is
// returned alongside it so callers can report it.
func (r *Reader) ListPublished(ctx context.Context, limit int) ([]models.Product, error) {
	limit = r.clampLimit(limit)

	docs, err := r.src.ListPublishedProducts(ctx, limit)
	if err != nil {
		r.log.Warn("product list failed, serving fallback catalog", zap.Int("limit", limit), zap.Error(err))
		return fallbackPrefix(limit), err
	}
	if len(docs) == 0 {
		return fallbackPrefix(limit), nil
	}
	if len(docs) > limit {
		docs = docs[:limit]
	}

	items := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		items = append(items, NormalizeProduct(d.ID, d.Data))
	}
	return items, nil
}

func (r *Reader) clampLimit(limit int) int {
	if limit < 1 || limit > r.maxLimit {
		return r.maxLimit
	}
	return limit
}
