package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"gymdesk/internal/model"
)

// AddProduct registers an inventory item.
func (c *Cache) AddProduct(ctx context.Context, in model.ProductInput) (model.Product, error) {
	if err := model.Validate(in); err != nil {
		return model.Product{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	id, err := uuid.NewV7()
	if err != nil {
		return model.Product{}, fmt.Errorf("generate id: %w", err)
	}
	p := model.Product{
		ID:            id.String(),
		Name:          in.Name,
		Quantity:      in.Quantity,
		PurchasePrice: in.PurchasePrice,
		SellingPrice:  in.SellingPrice,
		Description:   in.Description,
		CreatedAt:     c.now(),
	}
	if err := c.store.InsertProduct(ctx, p); err != nil {
		return model.Product{}, err
	}
	c.products = append([]model.Product{p}, c.products...)
	c.requestSave()
	return p, nil
}

// UpdateProduct replaces a product's fields, including a restocked
// quantity. Existing sale rows keep their own price snapshots.
func (c *Cache) UpdateProduct(ctx context.Context, id string, in model.ProductInput) (model.Product, error) {
	if err := model.Validate(in); err != nil {
		return model.Product{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	i, err := c.findProduct(id)
	if err != nil {
		return model.Product{}, err
	}
	p := c.products[i]
	p.Name = in.Name
	p.Quantity = in.Quantity
	p.PurchasePrice = in.PurchasePrice
	p.SellingPrice = in.SellingPrice
	p.Description = in.Description
	if err := c.store.UpdateProduct(ctx, p); err != nil {
		return model.Product{}, err
	}
	c.products[i] = p
	c.requestSave()
	return p, nil
}

// DeleteProduct removes a product. Its past sales survive with their
// denormalized name and prices.
func (c *Cache) DeleteProduct(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, err := c.findProduct(id)
	if err != nil {
		return err
	}
	if err := c.store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	c.products = append(c.products[:i], c.products[i+1:]...)
	c.requestSave()
	return nil
}

// Sell decrements stock and appends an immutable sale row, atomically:
// either both happen or neither. Selling more than is on the shelf fails
// with ErrInsufficientStock and changes nothing.
func (c *Cache) Sell(ctx context.Context, productID string, quantity int) (model.Sale, error) {
	if quantity <= 0 {
		return model.Sale{}, &model.ValidationError{Fields: []string{"Quantity"},
			Err: fmt.Errorf("quantity must be positive, got %d", quantity)}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	i, err := c.findProduct(productID)
	if err != nil {
		return model.Sale{}, err
	}

	saleID, err := uuid.NewV7()
	if err != nil {
		return model.Sale{}, fmt.Errorf("generate id: %w", err)
	}
	sale, err := c.store.SellProduct(ctx, productID, quantity, saleID.String(), c.now())
	if err != nil {
		return model.Sale{}, err
	}

	c.products[i].Quantity -= quantity
	c.sales = append([]model.Sale{sale}, c.sales...)
	c.requestSave()
	slog.Debug("product sold", "product", sale.ProductName, "quantity", quantity, "profit", sale.Profit)
	return sale, nil
}

// AddExpense logs an operating cost.
func (c *Cache) AddExpense(ctx context.Context, in model.ExpenseInput) (model.Expense, error) {
	if err := model.Validate(in); err != nil {
		return model.Expense{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	id, err := uuid.NewV7()
	if err != nil {
		return model.Expense{}, fmt.Errorf("generate id: %w", err)
	}
	e := model.Expense{
		ID:          id.String(),
		Name:        in.Name,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		Date:        in.Date,
	}
	if err := c.store.InsertExpense(ctx, e); err != nil {
		return model.Expense{}, err
	}
	c.expenses = append([]model.Expense{e}, c.expenses...)
	c.requestSave()
	return e, nil
}

// UpdateExpense replaces an expense's fields.
func (c *Cache) UpdateExpense(ctx context.Context, id string, in model.ExpenseInput) (model.Expense, error) {
	if err := model.Validate(in); err != nil {
		return model.Expense{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	i, err := c.findExpense(id)
	if err != nil {
		return model.Expense{}, err
	}
	e := c.expenses[i]
	e.Name = in.Name
	e.Amount = in.Amount
	e.Category = in.Category
	e.Description = in.Description
	e.Date = in.Date
	if err := c.store.UpdateExpense(ctx, e); err != nil {
		return model.Expense{}, err
	}
	c.expenses[i] = e
	c.requestSave()
	return e, nil
}

// DeleteExpense removes an expense.
func (c *Cache) DeleteExpense(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, err := c.findExpense(id)
	if err != nil {
		return err
	}
	if err := c.store.DeleteExpense(ctx, id); err != nil {
		return err
	}
	c.expenses = append(c.expenses[:i], c.expenses[i+1:]...)
	c.requestSave()
	return nil
}

// AddClass records a one-off paid session for a non-member.
func (c *Cache) AddClass(ctx context.Context, in model.ClassInput) (model.IndividualClass, error) {
	if err := model.Validate(in); err != nil {
		return model.IndividualClass{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	id, err := uuid.NewV7()
	if err != nil {
		return model.IndividualClass{}, fmt.Errorf("generate id: %w", err)
	}
	cl := model.IndividualClass{
		ID:    id.String(),
		Name:  in.Name,
		Age:   in.Age,
		Date:  in.Date,
		Price: in.Price,
	}
	if err := c.store.InsertClass(ctx, cl); err != nil {
		return model.IndividualClass{}, err
	}
	c.classes = append([]model.IndividualClass{cl}, c.classes...)
	c.requestSave()
	return cl, nil
}

// UpdateClass replaces a class's fields.
func (c *Cache) UpdateClass(ctx context.Context, id string, in model.ClassInput) (model.IndividualClass, error) {
	if err := model.Validate(in); err != nil {
		return model.IndividualClass{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	i, err := c.findClass(id)
	if err != nil {
		return model.IndividualClass{}, err
	}
	cl := c.classes[i]
	cl.Name = in.Name
	cl.Age = in.Age
	cl.Date = in.Date
	cl.Price = in.Price
	if err := c.store.UpdateClass(ctx, cl); err != nil {
		return model.IndividualClass{}, err
	}
	c.classes[i] = cl
	c.requestSave()
	return cl, nil
}

// DeleteClass removes a class record.
func (c *Cache) DeleteClass(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, err := c.findClass(id)
	if err != nil {
		return err
	}
	if err := c.store.DeleteClass(ctx, id); err != nil {
		return err
	}
	c.classes = append(c.classes[:i], c.classes[i+1:]...)
	c.requestSave()
	return nil
}

func (c *Cache) findProduct(id string) (int, error) {
	for i := range c.products {
		if c.products[i].ID == id {
			return i, nil
		}
	}
	return 0, model.ErrProductNotFound
}

func (c *Cache) findExpense(id string) (int, error) {
	for i := range c.expenses {
		if c.expenses[i].ID == id {
			return i, nil
		}
	}
	return 0, model.ErrExpenseNotFound
}

func (c *Cache) findClass(id string) (int, error) {
	for i := range c.classes {
		if c.classes[i].ID == id {
			return i, nil
		}
	}
	return 0, model.ErrClassNotFound
}
