package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jgcamps/trip-planner/internal/leads"
)

// Querier abstracts the subset of pgxpool.Pool used by Repository.
// This allows injection of a mock in tests.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository provides database access for captured leads.
type Repository struct {
	q Querier
}

// NewRepository constructs a Repository backed by the given pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{q: pool}
}

// NewRepositoryWithQuerier constructs a Repository with a custom Querier (for tests).
func NewRepositoryWithQuerier(q Querier) *Repository {
	return &Repository{q: q}
}

// InsertLead stores a captured lead. Meta is stored as JSONB.
func (r *Repository) InsertLead(ctx context.Context, l leads.Lead) error {
	metaJSON, err := json.Marshal(l.Meta)
	if err != nil {
		return fmt.Errorf("marshaling lead meta for %s: %w", l.ID, err)
	}

	const q = `
		INSERT INTO leads (id, channel, name, phone, note, page, meta)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if _, err := r.q.Exec(ctx, q, l.ID, l.Channel, l.Name, l.Phone, l.Note, l.Page, metaJSON); err != nil {
		return fmt.Errorf("inserting lead %s: %w", l.ID, err)
	}

	return nil
}

// ListRecentLeads returns the most recently captured leads, newest first.
func (r *Repository) ListRecentLeads(ctx context.Context, limit int) ([]leads.Lead, error) {
	const q = `
		SELECT id, channel, name, phone, note, page, meta, created_at
		FROM leads
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent leads: %w", err)
	}
	defer rows.Close()

	var results []leads.Lead
	for rows.Next() {
		var l leads.Lead
		var metaJSON []byte
		var createdAt time.Time

		if err := rows.Scan(&l.ID, &l.Channel, &l.Name, &l.Phone, &l.Note, &l.Page, &metaJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning lead row: %w", err)
		}

		if len(metaJSON) > 0 {
			if err := json.Unmarshal(metaJSON, &l.Meta); err != nil {
				return nil, fmt.Errorf("unmarshaling lead meta: %w", err)
			}
		}

		l.CreatedAt = createdAt
		results = append(results, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lead rows: %w", err)
	}

	return results, nil
}

// CountLeadsByChannel returns lead counts per capture channel. Used by the
// admin listing to show where enquiries come from.
func (r *Repository) CountLeadsByChannel(ctx context.Context) (map[string]int, error) {
	const q = `
		SELECT channel, COUNT(*)
		FROM leads
		GROUP BY channel
	`

	rows, err := r.q.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying lead counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var channel string
		var n int
		if err := rows.Scan(&channel, &n); err != nil {
			return nil, fmt.Errorf("scanning lead count row: %w", err)
		}
		counts[channel] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lead count rows: %w", err)
	}

	return counts, nil
}
