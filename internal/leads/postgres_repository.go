package leads

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxQuerier is the subset of *pgxpool.Pool the repository needs.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	db pgxQuerier
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(db pgxQuerier) *PostgresRepository {
	if db == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

// Save inserts a new row. created_at comes from the database clock.
func (r *PostgresRepository) Save(ctx context.Context, in NewLead) (*Lead, error) {
	id := uuid.New()
	query := `
		INSERT INTO leads (id, name, email, message, ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.db.QueryRow(ctx, query,
		id,
		in.Name,
		in.Email,
		in.Message,
		in.IP,
		in.UserAgent,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("leads: insert failed: %w: %w", ErrStorage, err)
	}

	return &Lead{
		ID:        id.String(),
		Name:      in.Name,
		Email:     in.Email,
		Message:   in.Message,
		CreatedAt: createdAt.UTC(),
		IP:        in.IP,
		UserAgent: in.UserAgent,
	}, nil
}

// List returns every lead ordered by insertion.
func (r *PostgresRepository) List(ctx context.Context) ([]Lead, error) {
	query := `
		SELECT id::text, name, email, message, created_at, ip, user_agent
		FROM leads
		ORDER BY seq ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("leads: select failed: %w: %w", ErrStorage, err)
	}
	defer rows.Close()

	var out []Lead
	for rows.Next() {
		var lead Lead
		if err := rows.Scan(
			&lead.ID,
			&lead.Name,
			&lead.Email,
			&lead.Message,
			&lead.CreatedAt,
			&lead.IP,
			&lead.UserAgent,
		); err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w: %w", ErrStorage, err)
		}
		lead.CreatedAt = lead.CreatedAt.UTC()
		out = append(out, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: rows failed: %w: %w", ErrStorage, err)
	}
	return out, nil
}

// Ping verifies the database is reachable.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, "SELECT 1"); err != nil {
		return fmt.Errorf("leads: ping failed: %w: %w", ErrStorage, err)
	}
	return nil
}

var _ Repository = (*PostgresRepository)(nil)
