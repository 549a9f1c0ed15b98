package store

import (
	"context"
	"fmt"

	"gymdesk/internal/model"
)

const saleColumns = `id, product_id, product_name, quantity_sold, purchase_price, selling_price, profit, sale_date`

func scanSale(row rowScanner) (model.Sale, error) {
	var (
		sale     model.Sale
		saleDate string
	)
	err := row.Scan(
		&sale.ID, &sale.ProductID, &sale.ProductName, &sale.QuantitySold,
		&sale.PurchasePrice, &sale.SellingPrice, &sale.Profit, &saleDate,
	)
	if err != nil {
		return model.Sale{}, fmt.Errorf("scan sale: %w", err)
	}
	if sale.SaleDate, err = parseTimestamp(saleDate); err != nil {
		return model.Sale{}, err
	}
	return sale, nil
}

// ListSales returns all sales, newest first. Sales have no update or delete
// path: rows are written only by SellProduct and are immutable after that.
func (s *Store) ListSales(ctx context.Context) ([]model.Sale, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+saleColumns+`
		FROM sales
		ORDER BY sale_date DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	return collect(rows, scanSale)
}
