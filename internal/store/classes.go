package store

import (
	"context"
	"database/sql"
	"fmt"

	"gymdesk/internal/model"
)

const classColumns = `id, name, age, date, price`

func scanClass(row rowScanner) (model.IndividualClass, error) {
	var (
		c    model.IndividualClass
		age  sql.NullInt64
		date string
	)
	err := row.Scan(&c.ID, &c.Name, &age, &date, &c.Price)
	if err != nil {
		return model.IndividualClass{}, fmt.Errorf("scan class: %w", err)
	}
	c.Age = int(age.Int64)
	if c.Date, err = parseDate(date); err != nil {
		return model.IndividualClass{}, err
	}
	return c, nil
}

// ListClasses returns all individual classes, newest first.
func (s *Store) ListClasses(ctx context.Context) ([]model.IndividualClass, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+classColumns+`
		FROM individual_classes
		ORDER BY date DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query classes: %w", err)
	}
	return collect(rows, scanClass)
}

// InsertClass inserts one individual-class row.
func (s *Store) InsertClass(ctx context.Context, c model.IndividualClass) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO individual_classes (`+classColumns+`)
		VALUES (?, ?, ?, ?, ?)
	`,
		c.ID,
		c.Name,
		nullInt(c.Age),
		c.Date.Format(model.DateOnly),
		c.Price,
	)
	if err != nil {
		return fmt.Errorf("insert class: %w", err)
	}
	return nil
}

// UpdateClass overwrites an existing individual-class row.
func (s *Store) UpdateClass(ctx context.Context, c model.IndividualClass) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE individual_classes SET name = ?, age = ?, date = ?, price = ?
		WHERE id = ?
	`,
		c.Name,
		nullInt(c.Age),
		c.Date.Format(model.DateOnly),
		c.Price,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return requireRow(res, model.ErrClassNotFound)
}

// DeleteClass hard-deletes an individual-class row.
func (s *Store) DeleteClass(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM individual_classes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return requireRow(res, model.ErrClassNotFound)
}
