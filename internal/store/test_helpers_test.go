package store

import (
	"testing"
	"time"

	"gymdesk/internal/model"
)

// createTestStore opens a fresh in-memory store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func date(s string) time.Time {
	t, err := time.Parse(model.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

// createTestSubscriber builds a subscriber with required fields filled.
func createTestSubscriber(id, name string) model.Subscriber {
	start := date("2024-01-01")
	return model.Subscriber{
		ID:                   id,
		Name:                 name,
		Gender:               model.GenderMale,
		SubscriptionDate:     start,
		ExpiryDate:           model.ExpiryDate(start, 30),
		Residence:            "downtown",
		Price:                1500,
		SubscriptionDuration: 30,
		Attendance:           []model.AttendanceRecord{},
		CreatedAt:            time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
	}
}

// testExpense builds a minimal expense row.
func testExpense(id string) model.Expense {
	return model.Expense{
		ID:       id,
		Name:     "rent",
		Amount:   1000,
		Category: model.CategoryRent,
		Date:     date("2024-01-05"),
	}
}

// createTestProduct builds a product with the given stock level.
func createTestProduct(id, name string, quantity int) model.Product {
	return model.Product{
		ID:            id,
		Name:          name,
		Quantity:      quantity,
		PurchasePrice: 100,
		SellingPrice:  150,
		CreatedAt:     time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
	}
}
