package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) GetActive(ctx context.Context, userID string) (Profile, error) {
	const query = `
SELECT id, user_id, profile_data, version, is_active, created_at
FROM user_profiles
WHERE user_id = $1 AND is_active
ORDER BY version DESC
LIMIT 1`
	return r.scanOne(ctx, query, ErrNoActiveProfile, userID)
}

func (r *PGRepo) GetVersion(ctx context.Context, userID string, version int) (Profile, error) {
	const query = `
SELECT id, user_id, profile_data, version, is_active, created_at
FROM user_profiles
WHERE user_id = $1 AND version = $2
LIMIT 1`
	return r.scanOne(ctx, query, ErrVersionNotFound, userID, version)
}

func (r *PGRepo) scanOne(ctx context.Context, query string, notFound error, args ...any) (Profile, error) {
	var p Profile
	var data []byte
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.UserID,
		&data,
		&p.Version,
		&p.IsActive,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, notFound
		}
		return Profile{}, err
	}
	p.ProfileData = json.RawMessage(data)
	return p, nil
}

func (r *PGRepo) History(ctx context.Context, userID string, limit int) ([]Profile, error) {
	const query = `
SELECT id, user_id, profile_data, version, is_active, created_at
FROM user_profiles
WHERE user_id = $1
ORDER BY version DESC
LIMIT $2`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		var p Profile
		var data []byte
		if err := rows.Scan(&p.ID, &p.UserID, &data, &p.Version, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.ProfileData = json.RawMessage(data)
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreateVersion runs the deactivate-and-insert transition in one transaction.
// The row lock on the active version serializes concurrent updates per user.
func (r *PGRepo) CreateVersion(ctx context.Context, userID string, data json.RawMessage) (Profile, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Profile{}, fmt.Errorf("begin profile transition: %w", err)
	}
	defer tx.Rollback()

	// Lock the user's rows first so concurrent transitions serialize.
	if _, err := tx.ExecContext(ctx, `
SELECT id FROM user_profiles WHERE user_id = $1 FOR UPDATE`, userID); err != nil {
		return Profile{}, fmt.Errorf("lock profile rows: %w", err)
	}

	var next int
	if err := tx.QueryRowContext(ctx, `
SELECT COALESCE(MAX(version), 0) + 1
FROM user_profiles
WHERE user_id = $1`, userID).Scan(&next); err != nil {
		return Profile{}, fmt.Errorf("next profile version: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE user_profiles
SET is_active = FALSE
WHERE user_id = $1 AND is_active`, userID); err != nil {
		return Profile{}, fmt.Errorf("deactivate profile: %w", err)
	}

	p := Profile{
		ID:          uuid.NewString(),
		UserID:      userID,
		ProfileData: data,
		Version:     next,
		IsActive:    true,
	}
	err = tx.QueryRowContext(ctx, `
INSERT INTO user_profiles (id, user_id, profile_data, version, is_active, created_at)
VALUES ($1, $2, $3, $4, TRUE, now())
RETURNING created_at`, p.ID, p.UserID, []byte(p.ProfileData), p.Version).Scan(&p.CreatedAt)
	if err != nil {
		return Profile{}, fmt.Errorf("insert profile version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Profile{}, fmt.Errorf("commit profile transition: %w", err)
	}
	return p, nil
}

func (r *PGRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM user_profiles WHERE user_id = $1`, userID)
	return err
}
