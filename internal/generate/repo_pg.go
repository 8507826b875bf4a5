package generate

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, content Content) error {
	const query = `
INSERT INTO generated_content (id, user_id, job_analysis_id, content_type, content, format, metadata, storage_key, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())`
	_, err := r.DB.ExecContext(ctx, query,
		content.ID,
		content.UserID,
		nullableString(content.JobAnalysisID),
		content.ContentType,
		content.Content,
		content.Format,
		nullableJSON(content.Metadata),
		nullableString(content.StorageKey),
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, contentID string) (Content, error) {
	const query = `
SELECT id, user_id, job_analysis_id, content_type, content, format, metadata, storage_key, created_at
FROM generated_content
WHERE user_id = $1 AND id = $2`
	row := r.DB.QueryRowContext(ctx, query, userID, contentID)
	content, err := scanContent(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Content{}, ErrNotFound
	}
	return content, err
}

func (r *PGRepo) List(ctx context.Context, userID string, filter ListFilter) ([]Content, error) {
	query := `
SELECT id, user_id, job_analysis_id, content_type, content, format, metadata, storage_key, created_at
FROM generated_content
WHERE user_id = $1`
	args := []any{userID}
	if filter.ContentType != "" {
		query += ` AND content_type = $2
ORDER BY created_at DESC
LIMIT $3 OFFSET $4`
		args = append(args, filter.ContentType, filter.Limit, filter.Offset)
	} else {
		query += `
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Content
	for rows.Next() {
		content, err := scanContent(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, content)
	}
	return out, rows.Err()
}

func (r *PGRepo) Delete(ctx context.Context, userID, contentID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM generated_content WHERE user_id = $1 AND id = $2`, userID, contentID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM generated_content WHERE user_id = $1`, userID)
	return err
}

func scanContent(scan func(dest ...any) error) (Content, error) {
	var c Content
	var jobAnalysisID, storageKey sql.NullString
	var metadata []byte
	err := scan(
		&c.ID,
		&c.UserID,
		&jobAnalysisID,
		&c.ContentType,
		&c.Content,
		&c.Format,
		&metadata,
		&storageKey,
		&c.CreatedAt,
	)
	if err != nil {
		return Content{}, err
	}
	c.JobAnalysisID = jobAnalysisID.String
	c.StorageKey = storageKey.String
	if len(metadata) > 0 {
		c.Metadata = json.RawMessage(metadata)
	}
	return c, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableJSON(value json.RawMessage) any {
	if len(value) == 0 {
		return nil
	}
	return []byte(value)
}
