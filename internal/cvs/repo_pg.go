package cvs

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Insert stores a new CV record. The file URL starts out NULL; rows get a
// signed URL lazily when the admin listing is rendered.
func (r *PGRepo) Insert(ctx context.Context, rec Record) error {
	const query = `
INSERT INTO cvs (
    id,
    first_name,
    last_name,
    email,
    phone,
    domain,
    description,
    file_path,
    file_url,
    page_count,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	var fileURL sql.NullString
	if rec.FileURL != "" {
		fileURL = sql.NullString{String: rec.FileURL, Valid: true}
	}
	var pageCount sql.NullInt32
	if rec.PageCount > 0 {
		pageCount = sql.NullInt32{Int32: int32(rec.PageCount), Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		rec.ID,
		rec.FirstName,
		rec.LastName,
		rec.Email,
		rec.Phone,
		rec.Domain,
		rec.Description,
		rec.FilePath,
		fileURL,
		pageCount,
		rec.CreatedAt,
	)
	return err
}

// ListAll returns every CV record, newest first.
func (r *PGRepo) ListAll(ctx context.Context) ([]Record, error) {
	const query = `
SELECT id, first_name, last_name, email, phone, domain, description, file_path, file_url, page_count, created_at
FROM cvs
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var fileURL sql.NullString
		var pageCount sql.NullInt32
		if err := rows.Scan(
			&rec.ID,
			&rec.FirstName,
			&rec.LastName,
			&rec.Email,
			&rec.Phone,
			&rec.Domain,
			&rec.Description,
			&rec.FilePath,
			&fileURL,
			&pageCount,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		if fileURL.Valid {
			rec.FileURL = fileURL.String
		}
		if pageCount.Valid {
			rec.PageCount = int(pageCount.Int32)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
