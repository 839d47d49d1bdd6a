package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agrogest/agrogest/internal/rbac"
	"github.com/agrogest/agrogest/internal/shared"
)

const accountColumns = `id::text, username, email, role, password_hash, salt, created_at, last_login, active`

// PostgresStore implements Store on the accounts table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Insert adds a; the unique username_key constraint reports duplicates.
func (s *PostgresStore) Insert(ctx context.Context, a Account) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO accounts (id, username, username_key, email, role, password_hash, salt, created_at, last_login, active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.Username, FoldUsername(a.Username), a.Email, string(a.Role), a.PasswordHash, a.Salt, a.CreatedAt, a.LastLogin, a.Active)
	if err != nil {
		if shared.IsUniqueViolation(err) {
			return ErrDuplicateIdentity
		}
		return fmt.Errorf("accounts: insert: %w", err)
	}
	return nil
}

// FindByUsername fetches the account for username.
func (s *PostgresStore) FindByUsername(ctx context.Context, username string) (Account, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE username_key = $1`, FoldUsername(username))
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, fmt.Errorf("accounts: find: %w", err)
	}
	return a, nil
}

// Update writes the mutable columns of a.
func (s *PostgresStore) Update(ctx context.Context, a Account) error {
	tag, err := s.pool.Exec(ctx, `UPDATE accounts
SET email = $2, role = $3, password_hash = $4, salt = $5, last_login = $6, active = $7
WHERE username_key = $1`,
		FoldUsername(a.Username), a.Email, string(a.Role), a.PasswordHash, a.Salt, a.LastLogin, a.Active)
	if err != nil {
		return fmt.Errorf("accounts: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all accounts ordered by username.
func (s *PostgresStore) List(ctx context.Context) ([]Account, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("accounts: list: %w", err)
	}
	defer rows.Close()
	var out []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("accounts: scan: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("accounts: list: %w", err)
	}
	return out, nil
}

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	var role string
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &role, &a.PasswordHash, &a.Salt, &a.CreatedAt, &a.LastLogin, &a.Active); err != nil {
		return Account{}, err
	}
	a.Role = rbac.Role(role)
	return a, nil
}

var _ Store = (*PostgresStore)(nil)
