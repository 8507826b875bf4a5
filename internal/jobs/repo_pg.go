package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO job_analyses (id, user_id, job_url, job_title, company_name, analysis_data, created_at)
VALUES ($1, $2, $3, $4, $5, $6, now())`
	_, err := r.DB.ExecContext(ctx, query,
		analysis.ID,
		analysis.UserID,
		nullableString(analysis.JobURL),
		nullableString(analysis.JobTitle),
		nullableString(analysis.CompanyName),
		[]byte(analysis.AnalysisData),
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, analysisID string) (Analysis, error) {
	const query = `
SELECT id, user_id, job_url, job_title, company_name, analysis_data, created_at
FROM job_analyses
WHERE id = $1 AND user_id = $2
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, analysisID, userID)
	analysis, err := scanAnalysis(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	return analysis, nil
}

func (r *PGRepo) List(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	const query = `
SELECT id, user_id, job_url, job_title, company_name, analysis_data, created_at
FROM job_analyses
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		analysis, err := scanAnalysis(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, analysis)
	}
	return out, rows.Err()
}

func (r *PGRepo) Delete(ctx context.Context, userID, analysisID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM job_analyses WHERE id = $1 AND user_id = $2`, analysisID, userID)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM job_analyses WHERE user_id = $1`, userID)
	return err
}

func scanAnalysis(scan func(dest ...any) error) (Analysis, error) {
	var a Analysis
	var jobURL, jobTitle, companyName sql.NullString
	var data []byte
	if err := scan(&a.ID, &a.UserID, &jobURL, &jobTitle, &companyName, &data, &a.CreatedAt); err != nil {
		return Analysis{}, err
	}
	a.JobURL = jobURL.String
	a.JobTitle = jobTitle.String
	a.CompanyName = companyName.String
	a.AnalysisData = json.RawMessage(data)
	return a, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
