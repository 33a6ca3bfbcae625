// Package objectstore is a small public-asset bucket backed by a directory.
// Objects are private until MakePublic is called, and are served with the
// content type and cache policy recorded at upload time.
package objectstore

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// OneYearCacheControl is the policy applied to uploaded product assets.
const OneYearCacheControl = "public, max-age=31536000, immutable"

const attrsSuffix = ".attrs.json"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrInvalidKey = errors.New("objectstore: invalid object key")

type Attrs struct {
	ContentType  string `json:"contentType"`
	CacheControl string `json:"cacheControl"`
}

type DiskBucket struct {
	root    string
	baseURL string
	prefix  string
}

// NewDiskBucket stores objects under root. Public URLs are
// baseURL + prefix + "/" + key, where prefix is the route Handler is mounted on.
func NewDiskBucket(root, baseURL, prefix string) (*DiskBucket, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create bucket dir %s", root)
	}
	return &DiskBucket{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		prefix:  "/" + strings.Trim(prefix, "/"),
	}, nil
}

func (b *DiskBucket) Upload(ctx context.Context, key string, data []byte, attrs Attrs) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := b.objectPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return errors.Wrap(err, "create object dir")
	}
	if err := os.WriteFile(p, data, 0o600); err != nil {
		return errors.Wrapf(err, "write object %s", key)
	}
	raw, err := json.Marshal(attrs)
	if err != nil {
		return errors.Wrap(err, "encode object attrs")
	}
	if err := os.WriteFile(p+attrsSuffix, raw, 0o600); err != nil {
		return errors.Wrapf(err, "write attrs for %s", key)
	}
	return nil
}

func (b *DiskBucket) MakePublic(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := b.objectPath(key)
	if err != nil {
		return err
	}
	return errors.Wrapf(os.Chmod(p, 0o644), "make %s public", key)
}

func (b *DiskBucket) PublicURL(key string) string {
	return b.baseURL + b.prefix + "/" + strings.TrimLeft(key, "/")
}

// Handler serves public objects. Mount it on prefix + "/*".
func (b *DiskBucket) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Params("*")
		if strings.HasSuffix(key, attrsSuffix) {
			return fiber.ErrNotFound
		}
		p, err := b.objectPath(key)
		if err != nil {
			return fiber.ErrNotFound
		}
		info, err := os.Stat(p)
		if err != nil || info.IsDir() || info.Mode().Perm()&0o004 == 0 {
			return fiber.ErrNotFound
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return fiber.ErrNotFound
		}

		var attrs Attrs
		if raw, err := os.ReadFile(p + attrsSuffix); err == nil {
			_ = json.Unmarshal(raw, &attrs)
		}
		if attrs.ContentType == "" {
			attrs.ContentType = fiber.MIMEOctetStream
		}
		c.Set(fiber.HeaderContentType, attrs.ContentType)
		if attrs.CacheControl != "" {
			c.Set(fiber.HeaderCacheControl, attrs.CacheControl)
		}
		return c.Send(data)
	}
}

func (b *DiskBucket) objectPath(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	clean := path.Clean(key)
	if clean != key || clean == "." || strings.HasPrefix(clean, "../") || clean == ".." {
		return "", ErrInvalidKey
	}
	return filepath.Join(b.root, filepath.FromSlash(clean)), nil
}
