package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Veraticus/payfilter/internal/common"
	"github.com/Veraticus/payfilter/internal/model"
	"github.com/mattn/go-sqlite3"
)

// AppendFilter stores a saved filter after every existing one.
func (s *SQLiteStorage) AppendFilter(ctx context.Context, f model.SavedFilter) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSavedFilter(&f); err != nil {
		return err
	}

	snapshot, err := json.Marshal(f.Filters)
	if err != nil {
		return fmt.Errorf("failed to encode filter snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO saved_filters (id, name, filters, created_at)
		VALUES (?, ?, ?, ?)
	`, f.ID, f.Name, string(snapshot), formatStoredTime(f.CreatedAt))
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return fmt.Errorf("saved filter %s: %w", f.ID, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to insert saved filter: %w", err)
	}
	return nil
}

// ListFilters returns saved filters in insertion order.
func (s *SQLiteStorage) ListFilters(ctx context.Context) ([]model.SavedFilter, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, filters, created_at
		FROM saved_filters
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved filters: %w", err)
	}
	defer func() { _ = rows.Close() }()

	filters := []model.SavedFilter{}
	for rows.Next() {
		f, err := scanSavedFilter(rows)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate saved filters: %w", err)
	}
	return filters, nil
}

// GetFilter returns the saved filter with the given id or common.ErrNotFound.
func (s *SQLiteStorage) GetFilter(ctx context.Context, id string) (*model.SavedFilter, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, filters, created_at
		FROM saved_filters
		WHERE id = ?
	`, id)

	f, err := scanSavedFilter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// DeleteFilter removes the saved filter with the given id. Unknown ids are ignored.
func (s *SQLiteStorage) DeleteFilter(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM saved_filters WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete saved filter: %w", err)
	}
	return nil
}

func scanSavedFilter(row scanner) (model.SavedFilter, error) {
	var (
		f         model.SavedFilter
		snapshot  string
		createdAt string
	)
	if err := row.Scan(&f.ID, &f.Name, &snapshot, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return f, err
		}
		return f, fmt.Errorf("failed to scan saved filter: %w", err)
	}

	if err := json.Unmarshal([]byte(snapshot), &f.Filters); err != nil {
		return f, fmt.Errorf("saved filter %s: %w: %w", f.ID, common.ErrDatabaseCorrupted, err)
	}

	var err error
	f.CreatedAt, err = parseStoredTime(createdAt)
	if err != nil {
		return f, fmt.Errorf("saved filter %s: %w", f.ID, err)
	}
	return f, nil
}
