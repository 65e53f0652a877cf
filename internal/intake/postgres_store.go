package intake

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Compile-time check that PostgresStore implements Store.
var _ Store = (*PostgresStore)(nil)

// PostgresStore implements Store backed by PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL-backed intake store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the intake_requests table if it doesn't exist.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS intake_requests (
			id            VARCHAR(40) PRIMARY KEY,
			business_name TEXT NOT NULL,
			contact_name  TEXT NOT NULL,
			email         TEXT NOT NULL,
			booking_link  TEXT NOT NULL DEFAULT '',
			status        VARCHAR(20) NOT NULL DEFAULT 'new',
			client_id     VARCHAR(40) NOT NULL DEFAULT '',
			created_at    TIMESTAMPTZ DEFAULT NOW(),
			updated_at    TIMESTAMPTZ DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_intake_requests_status ON intake_requests(status);
	`)
	return err
}

const intakeColumns = `id, business_name, contact_name, email, booking_link,
	status, client_id, created_at, updated_at`

func (p *PostgresStore) Create(ctx context.Context, r *Request) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO intake_requests (
			id, business_name, contact_name, email, booking_link,
			status, client_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		r.ID, r.BusinessName, r.ContactName, r.Email, r.BookingLink,
		string(r.Status), r.ClientID, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert intake request: %w", err)
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context, id string) (*Request, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+intakeColumns+` FROM intake_requests WHERE id = $1`, id)
	r, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, ErrIntakeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get intake request: %w", err)
	}
	return r, nil
}

func (p *PostgresStore) Update(ctx context.Context, r *Request) error {
	r.UpdatedAt = time.Now()
	res, err := p.db.ExecContext(ctx, `
		UPDATE intake_requests SET
			business_name = $2, contact_name = $3, email = $4, booking_link = $5,
			status = $6, client_id = $7, updated_at = $8
		WHERE id = $1
	`,
		r.ID, r.BusinessName, r.ContactName, r.Email, r.BookingLink,
		string(r.Status), r.ClientID, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update intake request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update intake request: %w", err)
	}
	if n == 0 {
		return ErrIntakeNotFound
	}
	return nil
}

func (p *PostgresStore) List(ctx context.Context, limit int) ([]*Request, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+intakeColumns+` FROM intake_requests ORDER BY created_at LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list intake requests: %w", err)
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (p *PostgresStore) ListByStatus(ctx context.Context, status Status, limit int) ([]*Request, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+intakeColumns+` FROM intake_requests WHERE status = $1 ORDER BY created_at LIMIT $2`,
		string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("list intake requests by status: %w", err)
	}
	defer rows.Close()
	return collectRequests(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (*Request, error) {
	var r Request
	var status string
	err := row.Scan(
		&r.ID, &r.BusinessName, &r.ContactName, &r.Email, &r.BookingLink,
		&status, &r.ClientID, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Status = Status(status)
	return &r, nil
}

func collectRequests(rows *sql.Rows) ([]*Request, error) {
	var result []*Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan intake request: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
