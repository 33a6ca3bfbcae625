package store

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"storefront/config"
	"storefront/models"
)

var (
	productsBucket = []byte("products")
	ticketsBucket  = []byte("support_tickets")
	settingsBucket = []byte("site_settings")
)

// Bolt is the embedded single-file store used for local development and tests.
// Products are keyed by id, so cursor order is id order. Ticket keys are
// prefixed with a zero-padded creation time so reverse iteration is newest first.
// Product values that don't decode are logged and skipped.
type Bolt struct {
	db  *bbolt.DB
	log *zap.Logger
}

func NewBolt(db *bbolt.DB) (*Bolt, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{productsBucket, ticketsBucket, settingsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "create bolt buckets")
	}
	return &Bolt{db: db, log: zap.L()}, nil
}

func (s *Bolt) FindProductBySlug(ctx context.Context, slug string) (models.Document, error) {
	var doc models.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(productsBucket)
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			d, ok := s.decodeProduct(k, v)
			if !ok {
				continue
			}
			if got, _ := d.Data["slug"].(string); got == slug {
				doc = d
				return nil
			}
		}
		if v := b.Get([]byte(slug)); v != nil {
			if d, ok := s.decodeProduct([]byte(slug), v); ok {
				doc = d
				return nil
			}
		}
		return ErrNotFound
	})
	if err != nil {
		return models.Document{}, err
	}
	return doc, nil
}

func (s *Bolt) ListPublishedProducts(ctx context.Context, limit int) ([]models.Document, error) {
	docs := make([]models.Document, 0, limit)
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(productsBucket).Cursor()
		for k, v := c.First(); k != nil && len(docs) < limit; k, v = c.Next() {
			d, ok := s.decodeProduct(k, v)
			if ok && d.Published() {
				docs = append(docs, d)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// PutProduct stores a raw product document. The storefront never writes
// products; this exists for seeding a local database.
func (s *Bolt) PutProduct(doc models.Document) error {
	raw, err := json.Marshal(doc.Data)
	if err != nil {
		return errors.Wrapf(err, "encode product %s", doc.ID)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(productsBucket).Put([]byte(doc.ID), raw)
	})
}

func (s *Bolt) CreateTicket(ctx context.Context, t models.SupportTicket) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return errors.Wrap(err, "encode support ticket")
	}
	key := ticketKey(t)
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(ticketsBucket)
		if b.Get(key) != nil {
			return errors.Errorf("support ticket %s already exists", t.ID)
		}
		return b.Put(key, raw)
	})
}

func (s *Bolt) ListTickets(ctx context.Context, f models.TicketFilter) ([]models.SupportTicket, error) {
	tickets := make([]models.SupportTicket, 0, f.Limit)
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(ticketsBucket).Cursor()
		for k, v := c.Last(); k != nil && len(tickets) < f.Limit; k, v = c.Prev() {
			var t models.SupportTicket
			if err := json.Unmarshal(v, &t); err != nil {
				return errors.Wrapf(err, "decode support ticket %s", k)
			}
			if f.Status != "" && t.Status != f.Status {
				continue
			}
			t.CreatedAt = t.CreatedAt.UTC()
			tickets = append(tickets, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (s *Bolt) GetSetting(ctx context.Context, key string) (map[string]any, error) {
	var value map[string]any
	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(settingsBucket).Get([]byte(key))
		if raw == nil {
			return ErrNotFound
		}
		return errors.Wrapf(json.Unmarshal(raw, &value), "decode setting %s", key)
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *Bolt) PutSetting(ctx context.Context, key string, value map[string]any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encode setting %s", key)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(settingsBucket).Put([]byte(key), raw)
	})
}

func (s *Bolt) Driver() string { return config.DriverBolt }

func (s *Bolt) Ping(context.Context) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(productsBucket) == nil {
			return errors.New("products bucket missing")
		}
		return nil
	})
}

func (s *Bolt) Close(context.Context) error { return s.db.Close() }

func (s *Bolt) decodeProduct(k, v []byte) (models.Document, bool) {
	d, err := decodeDocument(string(k), v)
	if err != nil {
		s.log.Warn("skipping undecodable product", zap.ByteString("id", k), zap.Error(err))
		return models.Document{}, false
	}
	return d, true
}

func ticketKey(t models.SupportTicket) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%020d|%s", t.CreatedAt.UTC().UnixNano(), t.ID)
	return buf.Bytes()
}
