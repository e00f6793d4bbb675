// Package accounts provides a PostgreSQL-backed repository for Account
// records. The unique index on the normalized email column is the source of
// truth for email uniqueness; a violation surfaces as
// common.ErrAccountExists.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avolkovs/talentdesk/internal/common"
	"github.com/avolkovs/talentdesk/internal/dbx"
	"github.com/avolkovs/talentdesk/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error code for unique_violation.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = `id, email, password_hash, given_name, family_name, phone,
	role, provider, email_verified, verify_token, coalesce(refresh_token, ''), created_at, updated_at`

func (r *PostgresRepository) scanAccount(row *sql.Row) (*models.Account, error) {
	a := &models.Account{}
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.GivenName, &a.FamilyName, &a.Phone,
		&a.Role, &a.Provider, &a.EmailVerified, &a.VerifyToken, &a.RefreshToken, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (email, password_hash, given_name, family_name, phone,
			role, provider, email_verified, verify_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		account.Email, account.PasswordHash, account.GivenName, account.FamilyName, account.Phone,
		account.Role, account.Provider, account.EmailVerified, account.VerifyToken,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrAccountExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, id))
}

// GetByIDForUpdate reads the account under a row lock. Call it inside a
// transaction; concurrent refresh-token rotations then serialize on the row
// instead of both reading the same stored token.
func (r *PostgresRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, id))
}

// UpdateRefreshToken replaces the account's stored refresh token, which
// invalidates any previously issued one.
func (r *PostgresRepository) UpdateRefreshToken(ctx context.Context, id string, token string) error {
	query := `
		UPDATE accounts SET refresh_token = $2, updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Delete removes the account; profile rows cascade at the schema level.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM accounts WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
