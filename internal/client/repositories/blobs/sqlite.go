package blobs

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mkorolis/imagepoints/internal/common"
	"github.com/mkorolis/imagepoints/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Put(ctx context.Context, b *Blob) error {
	query := `INSERT INTO blobs (filename, mime_type, data)
			VALUES (?, ?, ?)
			ON CONFLICT(filename) DO UPDATE SET mime_type = excluded.mime_type,
				data = excluded.data
	`
	_, err := r.db.ExecContext(ctx, query, b.Filename, b.MimeType, b.Data)
	if err != nil {
		return fmt.Errorf("failed to upsert blob: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, filename string) (*Blob, error) {
	query := `SELECT filename, mime_type, data, created_at FROM blobs WHERE filename = ?`
	row := r.db.QueryRowContext(ctx, query, filename)

	b := &Blob{}
	err := row.Scan(&b.Filename, &b.MimeType, &b.Data, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blob %s: %w", filename, err)
	}
	return b, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, filenames ...string) (int64, error) {
	if len(filenames) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(filenames)), ",")
	args := make([]any, len(filenames))
	for i, fn := range filenames {
		args[i] = fn
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM blobs WHERE filename IN (`+placeholders+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete blobs: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT filename FROM blobs ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list blobs: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var fn string
		if err := rows.Scan(&fn); err != nil {
			return nil, fmt.Errorf("failed to scan blob row: %w", err)
		}
		result = append(result, fn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate blob rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM blobs`)
	if err != nil {
		return fmt.Errorf("failed to clear blobs: %w", err)
	}
	return nil
}
