package store

import (
	"context"
	"fmt"

	"github.com/nhle/order-tracker/internal/model"
)

type codeRow struct {
	Code        string `db:"code"`
	EmailDate   string `db:"email_date"`
	OrderNumber string `db:"order_number"`
}

// SaveXboxCodes inserts codes that are not stored yet. Duplicates, in
// the batch or already in the database, are skipped.
func (s *SQLiteStore) SaveXboxCodes(ctx context.Context, codes []model.XboxCode) (int, error) {
	if len(codes) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT OR IGNORE INTO xbox_codes (code, email_date, order_number)
		VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, c := range codes {
		res, err := stmt.ExecContext(ctx, c.Code, c.Date, c.OrderNumber)
		if err != nil {
			return 0, fmt.Errorf("inserting code %s: %w", c.Code, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing codes: %w", err)
	}
	return inserted, nil
}

// GetXboxCodes returns every stored code in the order first seen.
func (s *SQLiteStore) GetXboxCodes(ctx context.Context) ([]model.XboxCode, error) {
	var rows []codeRow
	if err := s.db.SelectContext(ctx, &rows, `
		SELECT code, email_date, order_number
		FROM xbox_codes ORDER BY rowid`,
	); err != nil {
		return nil, fmt.Errorf("querying xbox codes: %w", err)
	}

	codes := make([]model.XboxCode, 0, len(rows))
	for _, r := range rows {
		codes = append(codes, model.XboxCode{
			Code:        r.Code,
			Date:        r.EmailDate,
			OrderNumber: r.OrderNumber,
		})
	}
	return codes, nil
}
