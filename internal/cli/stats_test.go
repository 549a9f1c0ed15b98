package cli

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"gymdesk/internal/derive"
	"gymdesk/internal/model"
)

func TestRenderStats_Golden(t *testing.T) {
	stats := derive.Statistics{
		ActiveSubscribers:   12,
		FrozenSubscribers:   2,
		ExpiredSubscribers:  4,
		TotalSubscribers:    18,
		MaleSubscribers:     11,
		FemaleSubscribers:   7,
		SubscriptionRevenue: 21000,
		SalesProfit:         340.5,
		ClassRevenue:        120,
		TotalRevenue:        21460.5,
		TotalExpenses:       5200.25,
		NetProfit:           16260.25,
		TotalAttendance:     96,
		AverageAttendance:   6.857142857,
		InventoryValue:      750,
		ExpensesByCategory: map[model.ExpenseCategory]float64{
			model.CategoryRent:      4000,
			model.CategoryUtilities: 700.25,
			model.CategoryOther:     500,
		},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "stats_report", []byte(renderStats(stats, "2024-06")))
}

func TestRenderStats_AllTime(t *testing.T) {
	out := renderStats(derive.Statistics{}, "")
	assert.Contains(t, out, "Statistics (all time)")
	assert.Contains(t, out, "total: 0  active: 0  frozen: 0  expired: 0")
}

func TestRenderStats_Deterministic(t *testing.T) {
	stats := derive.Statistics{
		ExpensesByCategory: map[model.ExpenseCategory]float64{
			model.CategorySalary:    100,
			model.CategoryEquipment: 50,
			model.CategoryRent:      25,
		},
	}
	// Map iteration order must not leak into the report.
	first := renderStats(stats, "")
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, renderStats(stats, ""))
	}
}
