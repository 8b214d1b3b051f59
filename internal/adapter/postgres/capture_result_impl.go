package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/capture-service/internal/entity"
)

const schema = `
	CREATE TABLE IF NOT EXISTS capture_results (
		id            BIGSERIAL PRIMARY KEY,
		document_path TEXT        NOT NULL,
		element_id    TEXT        NOT NULL,
		output_path   TEXT        NOT NULL,
		status        TEXT        NOT NULL,
		error_message TEXT        NOT NULL DEFAULT '',
		pixel_width   INTEGER     NOT NULL DEFAULT 0,
		pixel_height  INTEGER     NOT NULL DEFAULT 0,
		captured_at   TIMESTAMPTZ NOT NULL,
		UNIQUE (document_path, element_id)
	);
`

// CaptureResultRepoImpl provides a concrete implementation for the CaptureResultRepository interface using PostgreSQL.
type CaptureResultRepoImpl struct {
	db *pgxpool.Pool
}

// NewCaptureResultRepo creates a new instance of CaptureResultRepoImpl.
func NewCaptureResultRepo(db *pgxpool.Pool) *CaptureResultRepoImpl {
	return &CaptureResultRepoImpl{db: db}
}

// EnsureSchema creates the capture_results table if it is missing.
func (r *CaptureResultRepoImpl) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, schema)
	return err
}

// Save stores or updates the result for one element of a document.
func (r *CaptureResultRepoImpl) Save(ctx context.Context, result *entity.CaptureResult) error {
	query := `
		INSERT INTO capture_results (document_path, element_id, output_path, status, error_message, pixel_width, pixel_height, captured_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (document_path, element_id) DO UPDATE SET
			output_path = EXCLUDED.output_path,
			status = EXCLUDED.status,
			error_message = EXCLUDED.error_message,
			pixel_width = EXCLUDED.pixel_width,
			pixel_height = EXCLUDED.pixel_height,
			captured_at = EXCLUDED.captured_at;
	`
	_, err := r.db.Exec(ctx, query,
		result.DocumentPath,
		result.ElementID,
		result.OutputPath,
		string(result.Status),
		result.ErrorMessage,
		result.PixelWidth,
		result.PixelHeight,
		result.CapturedAt,
	)
	return err
}

// FindByDocument retrieves every result recorded for a document.
func (r *CaptureResultRepoImpl) FindByDocument(ctx context.Context, documentPath string) ([]*entity.CaptureResult, error) {
	query := `
		SELECT id, document_path, element_id, output_path, status, error_message, pixel_width, pixel_height, captured_at
		FROM capture_results
		WHERE document_path = $1
		ORDER BY element_id ASC;
	`
	rows, err := r.db.Query(ctx, query, documentPath)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []*entity.CaptureResult{}
	for rows.Next() {
		var res entity.CaptureResult
		var status string
		if err := rows.Scan(
			&res.ID,
			&res.DocumentPath,
			&res.ElementID,
			&res.OutputPath,
			&status,
			&res.ErrorMessage,
			&res.PixelWidth,
			&res.PixelHeight,
			&res.CapturedAt,
		); err != nil {
			return nil, err
		}
		res.Status = entity.ResultStatus(status)
		results = append(results, &res)
	}

	return results, rows.Err()
}
