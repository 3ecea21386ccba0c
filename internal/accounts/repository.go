package accounts

import (
	"context"
	"database/sql"
	"errors"
)

// Repository is the persistence contract for profiles.
type Repository interface {
	Insert(ctx context.Context, p Profile) error
	FindByEmail(ctx context.Context, email string) (Profile, bool, error)
	FindByID(ctx context.Context, id string) (Profile, bool, error)
	// ListActive returns active profiles ordered by created_at ascending.
	// The ordering is part of the contract: round-robin distribution must be
	// deterministic for a fixed squad selection.
	ListActive(ctx context.Context) ([]Profile, error)
}

// SQLRepo assumes a `profiles` table with a UNIQUE constraint on email.
type SQLRepo struct {
	db *sql.DB
}

func NewSQLRepo(db *sql.DB) *SQLRepo { return &SQLRepo{db: db} }

func (r *SQLRepo) Insert(ctx context.Context, p Profile) error {
	const q = `
INSERT INTO profiles (id, email, password_hash, role, active, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`
	_, err := r.db.ExecContext(ctx, q, p.ID, p.Email, p.PasswordHash, p.Role, p.Active, p.CreatedAt)
	return err
}

func (r *SQLRepo) FindByEmail(ctx context.Context, email string) (Profile, bool, error) {
	const q = `
SELECT id, email, password_hash, role, active, created_at
FROM profiles
WHERE email = $1
`
	return r.scanOne(r.db.QueryRowContext(ctx, q, email))
}

func (r *SQLRepo) FindByID(ctx context.Context, id string) (Profile, bool, error) {
	const q = `
SELECT id, email, password_hash, role, active, created_at
FROM profiles
WHERE id = $1
`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

func (r *SQLRepo) ListActive(ctx context.Context) ([]Profile, error) {
	const q = `
SELECT id, email, password_hash, role, active, created_at
FROM profiles
WHERE active
ORDER BY created_at ASC, id ASC
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.Role, &p.Active, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLRepo) scanOne(row *sql.Row) (Profile, bool, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.Role, &p.Active, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, false, nil
		}
		return Profile{}, false, err
	}
	return p, true, nil
}
