package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gymdesk/internal/model"
)

const productColumns = `id, name, quantity, purchase_price, selling_price, description, created_at`

func scanProduct(row rowScanner) (model.Product, error) {
	var (
		p           model.Product
		description sql.NullString
		createdAt   string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Quantity, &p.PurchasePrice, &p.SellingPrice, &description, &createdAt)
	if err != nil {
		return model.Product{}, fmt.Errorf("scan product: %w", err)
	}
	p.Description = description.String
	if p.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// ListProducts returns all products, newest first.
func (s *Store) ListProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	return collect(rows, scanProduct)
}

// InsertProduct inserts one product row.
func (s *Store) InsertProduct(ctx context.Context, p model.Product) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID,
		p.Name,
		p.Quantity,
		p.PurchasePrice,
		p.SellingPrice,
		nullString(p.Description),
		p.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// UpdateProduct overwrites the editable fields of an existing product row.
func (s *Store) UpdateProduct(ctx context.Context, p model.Product) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products SET
			name = ?, quantity = ?, purchase_price = ?, selling_price = ?, description = ?
		WHERE id = ?
	`,
		p.Name,
		p.Quantity,
		p.PurchasePrice,
		p.SellingPrice,
		nullString(p.Description),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return requireRow(res, model.ErrProductNotFound)
}

// DeleteProduct hard-deletes a product row. Existing sales keep their
// denormalized snapshot and simply carry a dangling product_id.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return requireRow(res, model.ErrProductNotFound)
}

// SellProduct atomically decrements stock and inserts the sale row in one
// transaction: a conditional UPDATE claims the units (quantity can never go
// negative), then the sale is written with the product's price snapshot
// read inside the same transaction.
//
// Returns model.ErrProductNotFound if the product row is missing and
// model.ErrInsufficientStock if fewer than quantity units are on hand; in
// both cases nothing is written.
func (s *Store) SellProduct(ctx context.Context, productID string, quantity int, saleID string, saleDate time.Time) (model.Sale, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Sale{}, fmt.Errorf("sell product: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var (
		name                        string
		purchasePrice, sellingPrice float64
	)
	err = tx.QueryRowContext(ctx, `
		SELECT name, purchase_price, selling_price FROM products WHERE id = ?
	`, productID).Scan(&name, &purchasePrice, &sellingPrice)
	if err == sql.ErrNoRows {
		return model.Sale{}, model.ErrProductNotFound
	}
	if err != nil {
		return model.Sale{}, fmt.Errorf("sell product: read product: %w", err)
	}

	// The quantity guard in the WHERE clause is the stock check; zero rows
	// affected means not enough units on hand.
	res, err := tx.ExecContext(ctx, `
		UPDATE products SET quantity = quantity - ?
		WHERE id = ? AND quantity >= ?
	`, quantity, productID, quantity)
	if err != nil {
		return model.Sale{}, fmt.Errorf("sell product: decrement stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Sale{}, fmt.Errorf("sell product: rows affected: %w", err)
	}
	if n == 0 {
		return model.Sale{}, model.ErrInsufficientStock
	}

	sale := model.Sale{
		ID:            saleID,
		ProductID:     productID,
		ProductName:   name,
		QuantitySold:  quantity,
		PurchasePrice: purchasePrice,
		SellingPrice:  sellingPrice,
		Profit:        (sellingPrice - purchasePrice) * float64(quantity),
		SaleDate:      saleDate,
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (`+saleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		sale.ID,
		sale.ProductID,
		sale.ProductName,
		sale.QuantitySold,
		sale.PurchasePrice,
		sale.SellingPrice,
		sale.Profit,
		sale.SaleDate.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return model.Sale{}, fmt.Errorf("sell product: insert sale: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.Sale{}, fmt.Errorf("sell product: commit: %w", err)
	}
	return sale, nil
}
