package derive

import (
	"time"

	"gymdesk/internal/model"
)

// MonthKey returns the YYYY-MM bucket of a date. Every dated entity falls
// into exactly one bucket, so filtering by key partitions any entity set.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// FilterByMonth keeps the items whose date (via dateOf) falls in the month
// identified by key. Used identically for subscribers (subscription date),
// sales (sale date), expenses and classes.
func FilterByMonth[T any](items []T, key string, dateOf func(T) time.Time) []T {
	filtered := []T{}
	for _, item := range items {
		if MonthKey(dateOf(item)) == key {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// Month-scoped views for each entity type.

func SubscribersInMonth(subs []model.Subscriber, key string) []model.Subscriber {
	return FilterByMonth(subs, key, func(s model.Subscriber) time.Time { return s.SubscriptionDate })
}

func SalesInMonth(sales []model.Sale, key string) []model.Sale {
	return FilterByMonth(sales, key, func(s model.Sale) time.Time { return s.SaleDate })
}

func ExpensesInMonth(expenses []model.Expense, key string) []model.Expense {
	return FilterByMonth(expenses, key, func(e model.Expense) time.Time { return e.Date })
}

func ClassesInMonth(classes []model.IndividualClass, key string) []model.IndividualClass {
	return FilterByMonth(classes, key, func(c model.IndividualClass) time.Time { return c.Date })
}
