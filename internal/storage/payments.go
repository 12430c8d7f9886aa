package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/payfilter/internal/common"
	"github.com/Veraticus/payfilter/internal/model"
	"github.com/Veraticus/payfilter/internal/service"
)

// Instants are stored as fixed-width UTC text so that string comparison in
// SQL orders the same way as time comparison.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z"

func formatStoredTime(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

func parseStoredTime(s string) (time.Time, error) {
	t, err := time.Parse(storedTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad timestamp %q", common.ErrDatabaseCorrupted, s)
	}
	return t, nil
}

// SavePayments inserts payments, skipping IDs that are already stored.
// It returns the number of rows actually inserted.
func (s *SQLiteStorage) SavePayments(ctx context.Context, payments []model.Payment) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validatePayments(payments); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO payments (
			id, date, amount, currency, status, description, email, payment_method
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for _, p := range payments {
		res, err := stmt.ExecContext(ctx,
			p.ID,
			formatStoredTime(p.Date),
			p.Amount.String(),
			p.Currency,
			p.Status,
			p.Description,
			p.Email,
			p.PaymentMethod,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert payment %s: %w", p.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit payments: %w", err)
	}

	slog.Debug("Saved payments", "received", len(payments), "inserted", inserted)
	return inserted, nil
}

// GetPayments lists payments newest first, optionally bounded by date.
func (s *SQLiteStorage) GetPayments(ctx context.Context, query service.PaymentQuery) ([]model.Payment, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if query.StartDate != nil && query.EndDate != nil && query.EndDate.Before(*query.StartDate) {
		return nil, fmt.Errorf("%w: end date %v is before start date %v", ErrInvalidDateRange, *query.EndDate, *query.StartDate)
	}

	var (
		where []string
		args  []any
	)
	if query.StartDate != nil {
		where = append(where, "date >= ?")
		args = append(args, formatStoredTime(*query.StartDate))
	}
	if query.EndDate != nil {
		where = append(where, "date <= ?")
		args = append(args, formatStoredTime(*query.EndDate))
	}

	var b strings.Builder
	b.WriteString(`SELECT id, date, amount, currency, status, description, email, payment_method FROM payments`)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY date DESC, rowid ASC")
	if query.Limit > 0 {
		b.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, query.Limit, query.Offset)
	}

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	payments := []model.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

// GetPaymentByID returns a single payment or common.ErrNotFound.
func (s *SQLiteStorage) GetPaymentByID(ctx context.Context, id string) (*model.Payment, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, date, amount, currency, status, description, email, payment_method
		FROM payments
		WHERE id = ?
	`, id)

	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CountPayments returns the number of stored payments.
func (s *SQLiteStorage) CountPayments(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM payments`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count payments: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPayment(row scanner) (model.Payment, error) {
	var (
		p    model.Payment
		date string
	)
	err := row.Scan(
		&p.ID,
		&date,
		&p.Amount,
		&p.Currency,
		&p.Status,
		&p.Description,
		&p.Email,
		&p.PaymentMethod,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("failed to scan payment: %w", err)
	}

	p.Date, err = parseStoredTime(date)
	if err != nil {
		return p, fmt.Errorf("payment %s: %w", p.ID, err)
	}
	return p, nil
}
