package users

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, password_hash, first_name, last_name, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		nullableString(user.FirstName),
		nullableString(user.LastName),
		user.IsActive,
	)
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return ErrEmailTaken
	}
	return err
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	return r.getBy(ctx, "id", userID)
}

func (r *PGRepo) getBy(ctx context.Context, column, value string) (User, error) {
	query := `
SELECT id, email, password_hash, first_name, last_name, is_active, created_at, updated_at
FROM users
WHERE ` + column + ` = $1
LIMIT 1`
	var user User
	var firstName sql.NullString
	var lastName sql.NullString
	err := r.DB.QueryRowContext(ctx, query, value).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&firstName,
		&lastName,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	if firstName.Valid {
		user.FirstName = firstName.String
	}
	if lastName.Valid {
		user.LastName = lastName.String
	}
	return user, nil
}

func (r *PGRepo) Delete(ctx context.Context, userID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
