package derive

import "gymdesk/internal/model"

// Statistics is the dashboard aggregate, recomputed on demand from the
// current cache snapshot. Never cached or persisted.
//
// Revenue counts paid subscriptions only (active and frozen are both
// paid-up; expired are not), plus sale profits and individual-class fees.
type Statistics struct {
	ActiveSubscribers  int
	FrozenSubscribers  int
	ExpiredSubscribers int
	TotalSubscribers   int

	// Gender counts cover non-expired members only.
	MaleSubscribers   int
	FemaleSubscribers int

	SubscriptionRevenue float64
	SalesProfit         float64
	ClassRevenue        float64
	TotalRevenue        float64
	TotalExpenses       float64
	NetProfit           float64

	TotalAttendance   int
	AverageAttendance float64

	// InventoryValue is displayed alongside revenue but never added to it:
	// stock on the shelf is not income.
	InventoryValue float64

	ExpensesByCategory map[model.ExpenseCategory]float64
}

// Compute builds the aggregate over the given (typically month-filtered)
// sets. Subscriber Status fields are expected to be freshly derived.
func Compute(
	subs []model.Subscriber,
	products []model.Product,
	sales []model.Sale,
	expenses []model.Expense,
	classes []model.IndividualClass,
) Statistics {
	stats := Statistics{
		TotalSubscribers:   len(subs),
		ExpensesByCategory: map[model.ExpenseCategory]float64{},
	}

	attendanceMembers := 0
	for _, sub := range subs {
		switch sub.Status {
		case model.StatusActive:
			stats.ActiveSubscribers++
		case model.StatusFrozen:
			stats.FrozenSubscribers++
		case model.StatusExpired:
			stats.ExpiredSubscribers++
			continue
		}
		// Expired members are only tallied above; the gender breakdown,
		// revenue and attendance figures cover current members.
		switch sub.Gender {
		case model.GenderMale:
			stats.MaleSubscribers++
		case model.GenderFemale:
			stats.FemaleSubscribers++
		}
		stats.SubscriptionRevenue += sub.Price
		stats.TotalAttendance += len(sub.Attendance)
		attendanceMembers++
	}
	if attendanceMembers > 0 {
		stats.AverageAttendance = float64(stats.TotalAttendance) / float64(attendanceMembers)
	}

	for _, sale := range sales {
		stats.SalesProfit += sale.Profit
	}
	for _, class := range classes {
		stats.ClassRevenue += class.Price
	}
	for _, expense := range expenses {
		stats.TotalExpenses += expense.Amount
		stats.ExpensesByCategory[expense.Category] += expense.Amount
	}
	for _, product := range products {
		stats.InventoryValue += float64(product.Quantity) * product.PurchasePrice
	}

	stats.TotalRevenue = stats.SubscriptionRevenue + stats.SalesProfit + stats.ClassRevenue
	stats.NetProfit = stats.TotalRevenue - stats.TotalExpenses
	return stats
}
