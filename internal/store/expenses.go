package store

import (
	"context"
	"database/sql"
	"fmt"

	"gymdesk/internal/model"
)

const expenseColumns = `id, name, amount, category, description, date`

func scanExpense(row rowScanner) (model.Expense, error) {
	var (
		e           model.Expense
		description sql.NullString
		date        string
	)
	err := row.Scan(&e.ID, &e.Name, &e.Amount, &e.Category, &description, &date)
	if err != nil {
		return model.Expense{}, fmt.Errorf("scan expense: %w", err)
	}
	e.Description = description.String
	if e.Date, err = parseDate(date); err != nil {
		return model.Expense{}, err
	}
	return e, nil
}

// ListExpenses returns all expenses, newest first.
func (s *Store) ListExpenses(ctx context.Context) ([]model.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		ORDER BY date DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	return collect(rows, scanExpense)
}

// InsertExpense inserts one expense row.
func (s *Store) InsertExpense(ctx context.Context, e model.Expense) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		e.ID,
		e.Name,
		e.Amount,
		string(e.Category),
		nullString(e.Description),
		e.Date.Format(model.DateOnly),
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// UpdateExpense overwrites an existing expense row.
func (s *Store) UpdateExpense(ctx context.Context, e model.Expense) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE expenses SET name = ?, amount = ?, category = ?, description = ?, date = ?
		WHERE id = ?
	`,
		e.Name,
		e.Amount,
		string(e.Category),
		nullString(e.Description),
		e.Date.Format(model.DateOnly),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return requireRow(res, model.ErrExpenseNotFound)
}

// DeleteExpense hard-deletes an expense row.
func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireRow(res, model.ErrExpenseNotFound)
}
