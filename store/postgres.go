package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"storefront/config"
	"storefront/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Postgres keeps product and settings documents in JSONB columns and
// support tickets in a plain table.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS storefront_products (
			id TEXT PRIMARY KEY,
			data JSONB NOT NULL DEFAULT '{}'::jsonb,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_storefront_products_slug ON storefront_products ((data->>'slug'))`,
		`CREATE INDEX IF NOT EXISTS idx_storefront_products_status ON storefront_products ((data->>'status'), id)`,
		`CREATE TABLE IF NOT EXISTS support_tickets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			subject TEXT,
			topic TEXT NOT NULL DEFAULT 'general',
			order_number TEXT,
			message TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'open'
				CHECK (status IN ('open','in_progress','resolved','closed')),
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_support_tickets_status_created ON support_tickets (status, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS site_settings (
			key TEXT PRIMARY KEY,
			value JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return errors.Wrap(err, "ensure schema")
		}
	}
	return nil
}

// A slug match sorts ahead of an id match.
const productBySlugSQL = `
SELECT id, data
FROM storefront_products
WHERE data->>'slug' = $1 OR id = $1
ORDER BY COALESCE(data->>'slug' = $1, false) DESC, id ASC
LIMIT 1`

func (s *Postgres) FindProductBySlug(ctx context.Context, slug string) (models.Document, error) {
	var (
		id  string
		raw []byte
	)
	err := s.pool.QueryRow(ctx, productBySlugSQL, slug).Scan(&id, &raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Document{}, ErrNotFound
		}
		return models.Document{}, errors.Wrap(err, "query product by slug")
	}
	return decodeDocument(id, raw)
}

func (s *Postgres) ListPublishedProducts(ctx context.Context, limit int) ([]models.Document, error) {
	rows, err := s.pool.Query(ctx, `
SELECT id, data
FROM storefront_products
WHERE data->>'status' = 'published'
ORDER BY id ASC
LIMIT $1`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query published products")
	}
	defer rows.Close()

	docs := make([]models.Document, 0, limit)
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, errors.Wrap(err, "scan product")
		}
		doc, err := decodeDocument(id, raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate products")
	}
	return docs, nil
}

func (s *Postgres) CreateTicket(ctx context.Context, t models.SupportTicket) error {
	_, err := s.pool.Exec(ctx, `
INSERT INTO support_tickets (id, name, email, subject, topic, order_number, message, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		t.ID, t.Name, t.Email, t.Subject, t.Topic, t.OrderNumber, t.Message, t.Status, t.CreatedAt,
	)
	return errors.Wrap(err, "insert support ticket")
}

func ticketsQuery(f models.TicketFilter) (string, []interface{}) {
	where := []string{"1=1"}
	args := []interface{}{}
	ai := 1
	if f.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", ai))
		args = append(args, f.Status)
		ai++
	}
	args = append(args, f.Limit)

	sql := `
SELECT id, name, email, subject, topic, order_number, message, status, created_at
FROM support_tickets
WHERE ` + strings.Join(where, " AND ") + `
ORDER BY created_at DESC, id DESC
LIMIT $` + fmt.Sprint(ai)
	return sql, args
}

func (s *Postgres) ListTickets(ctx context.Context, f models.TicketFilter) ([]models.SupportTicket, error) {
	sql, args := ticketsQuery(f)
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query support tickets")
	}
	defer rows.Close()

	tickets := make([]models.SupportTicket, 0, f.Limit)
	for rows.Next() {
		var t models.SupportTicket
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Email, &t.Subject, &t.Topic,
			&t.OrderNumber, &t.Message, &t.Status, &t.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan support ticket")
		}
		t.CreatedAt = t.CreatedAt.UTC()
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate support tickets")
	}
	return tickets, nil
}

func (s *Postgres) GetSetting(ctx context.Context, key string) (map[string]any, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT value FROM site_settings WHERE key = $1`, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "query setting")
	}
	var value map[string]any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, errors.Wrapf(err, "decode setting %s", key)
	}
	return value, nil
}

func (s *Postgres) PutSetting(ctx context.Context, key string, value map[string]any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encode setting %s", key)
	}
	_, err = s.pool.Exec(ctx, `
INSERT INTO site_settings (key, value, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, string(raw), time.Now().UTC(),
	)
	return errors.Wrapf(err, "upsert setting %s", key)
}

func (s *Postgres) Driver() string { return config.DriverPostgres }

func (s *Postgres) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Postgres) Close(context.Context) error {
	s.pool.Close()
	return nil
}

func decodeDocument(id string, raw []byte) (models.Document, error) {
	data := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil {
			return models.Document{}, errors.Wrapf(err, "decode product %s", id)
		}
	}
	if data == nil {
		data = map[string]any{}
	}
	return models.Document{ID: id, Data: data}, nil
}
