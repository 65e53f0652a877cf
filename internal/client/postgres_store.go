package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Compile-time check that PostgresStore implements Store.
var _ Store = (*PostgresStore)(nil)

// PostgresStore implements Store backed by PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL-backed client store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the clients table if it doesn't exist.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS clients (
			id               VARCHAR(40) PRIMARY KEY,
			code             VARCHAR(64) NOT NULL UNIQUE,
			name             TEXT NOT NULL,
			email            TEXT NOT NULL,
			booking_link     TEXT NOT NULL DEFAULT '',
			status           VARCHAR(20) NOT NULL DEFAULT 'active',
			started_at       TIMESTAMPTZ NOT NULL,
			due_at           TIMESTAMPTZ,
			paused_at        TIMESTAMPTZ,
			pause_reason     VARCHAR(20) NOT NULL DEFAULT '',
			last_reminder_at TIMESTAMPTZ,
			created_at       TIMESTAMPTZ DEFAULT NOW(),
			updated_at       TIMESTAMPTZ DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_clients_status ON clients(status);
		CREATE INDEX IF NOT EXISTS idx_clients_due_at ON clients(due_at);
	`)
	return err
}

const clientColumns = `id, code, name, email, booking_link, status,
	started_at, due_at, paused_at, pause_reason, last_reminder_at,
	created_at, updated_at`

func (p *PostgresStore) Create(ctx context.Context, c *Client) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO clients (
			id, code, name, email, booking_link, status,
			started_at, due_at, paused_at, pause_reason, last_reminder_at,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		c.ID, c.Code, c.Name, c.Email, c.BookingLink, string(c.Status),
		c.StartedAt, nullTime(c.DueAt), nullTime(c.PausedAt), c.PauseReason, nullTime(c.LastReminderAt),
		c.CreatedAt, c.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrCodeTaken
	}
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context, id string) (*Client, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
	c, err := scanClient(row)
	if err == sql.ErrNoRows {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func (p *PostgresStore) GetByCode(ctx context.Context, code string) (*Client, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE code = $1`, code)
	c, err := scanClient(row)
	if err == sql.ErrNoRows {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get client by code: %w", err)
	}
	return c, nil
}

func (p *PostgresStore) Update(ctx context.Context, c *Client) error {
	c.UpdatedAt = time.Now()
	res, err := p.db.ExecContext(ctx, `
		UPDATE clients SET
			code = $2, name = $3, email = $4, booking_link = $5, status = $6,
			started_at = $7, due_at = $8, paused_at = $9, pause_reason = $10,
			last_reminder_at = $11, updated_at = $12
		WHERE id = $1
	`,
		c.ID, c.Code, c.Name, c.Email, c.BookingLink, string(c.Status),
		c.StartedAt, nullTime(c.DueAt), nullTime(c.PausedAt), c.PauseReason,
		nullTime(c.LastReminderAt), c.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrCodeTaken
	}
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if n == 0 {
		return ErrClientNotFound
	}
	return nil
}

func (p *PostgresStore) List(ctx context.Context, limit int) ([]*Client, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+clientColumns+` FROM clients ORDER BY created_at LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	return collectClients(rows)
}

// ListByStatus returns clients in the given status. A limit <= 0 means the
// full set: reconciliation passes depend on seeing every client, so this
// path must never cap silently.
func (p *PostgresStore) ListByStatus(ctx context.Context, status Status, limit int) ([]*Client, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = p.db.QueryContext(ctx,
			`SELECT `+clientColumns+` FROM clients WHERE status = $1 ORDER BY created_at LIMIT $2`,
			string(status), limit)
	} else {
		rows, err = p.db.QueryContext(ctx,
			`SELECT `+clientColumns+` FROM clients WHERE status = $1 ORDER BY created_at`,
			string(status))
	}
	if err != nil {
		return nil, fmt.Errorf("list clients by status: %w", err)
	}
	defer rows.Close()
	return collectClients(rows)
}

func (p *PostgresStore) CountByStatus(ctx context.Context) (map[Status]int, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM clients GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count clients: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[Status(status)] = n
	}
	return counts, rows.Err()
}

// --- scanning helpers ---

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClient(row rowScanner) (*Client, error) {
	var c Client
	var status string
	var dueAt, pausedAt, lastReminderAt sql.NullTime
	err := row.Scan(
		&c.ID, &c.Code, &c.Name, &c.Email, &c.BookingLink, &status,
		&c.StartedAt, &dueAt, &pausedAt, &c.PauseReason, &lastReminderAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Status = Status(status)
	c.DueAt = timePtr(dueAt)
	c.PausedAt = timePtr(pausedAt)
	c.LastReminderAt = timePtr(lastReminderAt)
	return &c, nil
}

func collectClients(rows *sql.Rows) ([]*Client, error) {
	var result []*Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (code 23505). Expected during code derivation retries.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
