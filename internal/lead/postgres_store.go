package lead

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leadgate/leadgate/internal/pagination"
)

var _ Store = (*PostgresStore)(nil)

// PostgresStore implements Store backed by PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL-backed lead store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the leads table if it doesn't exist.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS leads (
			id         VARCHAR(40) PRIMARY KEY,
			client_id  VARCHAR(40) NOT NULL,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL,
			phone      TEXT NOT NULL DEFAULT '',
			message    TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_leads_client_id ON leads(client_id);
		CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at DESC);
	`)
	return err
}

const leadColumns = `id, client_id, name, email, phone, message, created_at`

func (p *PostgresStore) Create(ctx context.Context, l *Lead) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO leads (id, client_id, name, email, phone, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, l.ID, l.ClientID, l.Name, l.Email, l.Phone, l.Message, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context, id string) (*Lead, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	l, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

func (p *PostgresStore) List(ctx context.Context, cursor *pagination.Cursor, limit int) ([]*Lead, error) {
	if limit <= 0 {
		limit = 100
	}
	var (
		rows *sql.Rows
		err  error
	)
	if cursor != nil {
		rows, err = p.db.QueryContext(ctx,
			`SELECT `+leadColumns+` FROM leads
			 WHERE (created_at, id) < ($1, $2)
			 ORDER BY created_at DESC, id DESC LIMIT $3`,
			cursor.CreatedAt, cursor.ID, limit)
	} else {
		rows, err = p.db.QueryContext(ctx,
			`SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()
	return collectLeads(rows)
}

func (p *PostgresStore) ListByClient(ctx context.Context, clientID string, limit int) ([]*Lead, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE client_id = $1 ORDER BY created_at DESC LIMIT $2`,
		clientID, limit)
	if err != nil {
		return nil, fmt.Errorf("list leads by client: %w", err)
	}
	defer rows.Close()
	return collectLeads(rows)
}

func (p *PostgresStore) CountByClient(ctx context.Context, clientID string) (int, error) {
	var count int
	err := p.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM leads WHERE client_id = $1`, clientID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count leads by client: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row rowScanner) (*Lead, error) {
	var l Lead
	err := row.Scan(&l.ID, &l.ClientID, &l.Name, &l.Email, &l.Phone, &l.Message, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func collectLeads(rows *sql.Rows) ([]*Lead, error) {
	var result []*Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}
