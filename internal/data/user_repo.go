// Package data provides Postgres-backed repositories plus in-memory
// equivalents for development.
package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/smartsec/portal-bff/internal/data/pgxutil"
	domainauth "github.com/smartsec/portal-bff/internal/domain/auth"
)

// UserRepo provides database operations for portal users.
type UserRepo struct {
	DB *sql.DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// userRow mirrors the users table for pgx row collection.
type userRow struct {
	ID           string `db:"id"`
	Email        string `db:"email"`
	Name         string `db:"name"`
	Role         string `db:"role"`
	Department   string `db:"department"`
	PasswordHash string `db:"password_hash"`
}

func (r userRow) toUser() domainauth.User {
	return domainauth.User{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		Role:         domainauth.Role(r.Role),
		Department:   r.Department,
		PasswordHash: r.PasswordHash,
	}
}

// FindByEmail returns the user with exactly this email, or ErrUserNotFound.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (domainauth.User, error) {
	var out userRow
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, email, name, role, department, password_hash
			FROM users
			WHERE email = $1
		`, strings.TrimSpace(email))
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[userRow])
		return err
	}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainauth.User{}, ErrUserNotFound
		}
		return domainauth.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return out.toUser(), nil
}

// Create inserts a new user. Returns ErrUserEmailExists on duplicate email.
func (r *UserRepo) Create(ctx context.Context, u domainauth.User) error {
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO users (id, email, name, role, department, password_hash)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, u.ID, strings.TrimSpace(u.Email), u.Name, string(u.Role), u.Department, u.PasswordHash)
		return err
	}); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrUserEmailExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// EnsureSchema creates the users table when it does not exist yet.
// Kept minimal: the portal owns no other tables.
func (r *UserRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			name          TEXT NOT NULL DEFAULT '',
			role          TEXT NOT NULL,
			department    TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure users schema: %w", err)
	}
	return nil
}
