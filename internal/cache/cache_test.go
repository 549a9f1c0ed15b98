package cache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymdesk/internal/model"
	"gymdesk/internal/store"
	"gymdesk/internal/testutil"
)

// saveRecorder counts save signals in place of the persistence adapter.
type saveRecorder struct {
	n atomic.Int64
}

func (r *saveRecorder) RequestSave() { r.n.Add(1) }
func (r *saveRecorder) count() int64 { return r.n.Load() }

var testStart = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func newTestCache(t *testing.T) (*Cache, *testutil.Clock, *saveRecorder) {
	t.Helper()
	st, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	clock := testutil.NewClock(testStart)
	rec := &saveRecorder{}
	c := New(st, rec, clock.Now)
	require.NoError(t, c.Reload(context.Background()))
	return c, clock, rec
}

func subscriberInput(name string) model.SubscriberInput {
	return model.SubscriberInput{
		Name:                 name,
		Gender:               model.GenderMale,
		Age:                  28,
		Height:               180,
		Weight:               80,
		Phone:                "0771234567",
		SubscriptionDate:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Residence:            "Downtown",
		Price:                1500,
		SubscriptionDuration: 30,
	}
}

func productInput(name string, qty int) model.ProductInput {
	return model.ProductInput{
		Name:          name,
		Quantity:      qty,
		PurchasePrice: 2,
		SellingPrice:  3,
	}
}

func TestReload_EmptyStore(t *testing.T) {
	c, _, _ := newTestCache(t)

	assert.Empty(t, c.Subscribers())
	assert.Empty(t, c.Products())
	assert.Empty(t, c.Sales())
	assert.Empty(t, c.Expenses())
	assert.Empty(t, c.Classes())
}

func TestReload_PicksUpStoreState(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCache(t)

	_, err := c.AddSubscriber(ctx, subscriberInput("Ali"), false)
	require.NoError(t, err)

	// A second cache over the same store sees the same state after Reload.
	c2 := New(c.store, nil, c.now)
	require.NoError(t, c2.Reload(ctx))
	subs := c2.Subscribers()
	require.Len(t, subs, 1)
	assert.Equal(t, "Ali", subs[0].Name)
	assert.Equal(t, model.StatusActive, subs[0].Status)
}

func TestSubscribers_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCache(t)
	_, err := c.AddSubscriber(ctx, subscriberInput("Ali"), false)
	require.NoError(t, err)

	subs := c.Subscribers()
	subs[0].Name = "mutated"
	assert.Equal(t, "Ali", c.Subscribers()[0].Name)
}

func TestSubscribers_AttendanceIsolated(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCache(t)

	sub, err := c.AddSubscriber(ctx, subscriberInput("Ali"), false)
	require.NoError(t, err)
	types := []string{"chest"}
	require.NoError(t, c.RecordAttendance(ctx, sub.ID, types))

	// Neither the slice passed in nor the records handed out may reach
	// cache state when mutated in place.
	types[0] = "mutated"
	subs := c.Subscribers()
	subs[0].Attendance[0].Date = "1999-01-01"
	subs[0].Attendance[0].TrainingTypes[0] = "mutated"

	got, err := c.Subscriber(sub.ID)
	require.NoError(t, err)
	require.Len(t, got.Attendance, 1)
	assert.Equal(t, "2024-06-01", got.Attendance[0].Date)
	assert.Equal(t, []string{"chest"}, got.Attendance[0].TrainingTypes)
}

func TestSearchSubscribers(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCache(t)

	in := subscriberInput("Ali Hassan")
	_, err := c.AddSubscriber(ctx, in, false)
	require.NoError(t, err)

	in2 := subscriberInput("Sara")
	in2.Phone = "0759999999"
	in2.Residence = "Hilltop"
	_, err = c.AddSubscriber(ctx, in2, false)
	require.NoError(t, err)

	byName := c.SearchSubscribers("ali")
	require.Len(t, byName, 1)
	assert.Equal(t, "Ali Hassan", byName[0].Name)

	byPhone := c.SearchSubscribers("0759")
	require.Len(t, byPhone, 1)
	assert.Equal(t, "Sara", byPhone[0].Name)

	byResidence := c.SearchSubscribers("hilltop")
	require.Len(t, byResidence, 1)

	assert.Len(t, c.SearchSubscribers(""), 2)
	assert.Empty(t, c.SearchSubscribers("nobody"))
}

func TestRefreshStatuses_ExpiryCrossing(t *testing.T) {
	ctx := context.Background()
	c, clock, _ := newTestCache(t)

	sub, err := c.AddSubscriber(ctx, subscriberInput("Ali"), false)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, sub.Status)

	// Active right up to the expiry midnight.
	clock.Set(sub.ExpiryDate.Add(-time.Hour))
	c.RefreshStatuses()
	got, err := c.Subscriber(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status)

	// Lapsed within the expiry day itself, with no store write involved.
	clock.Set(sub.ExpiryDate.Add(10 * time.Hour))
	c.RefreshStatuses()
	got, err = c.Subscriber(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusExpired, got.Status)
}

func TestStatusNeverPersisted(t *testing.T) {
	ctx := context.Background()
	c, clock, _ := newTestCache(t)

	sub, err := c.AddSubscriber(ctx, subscriberInput("Ali"), false)
	require.NoError(t, err)

	clock.AdvanceDays(60)
	c.RefreshStatuses()

	// Reading straight from the store: the row carries no status, so a
	// fresh cache at an earlier clock derives active again.
	earlier := testutil.NewClock(testStart)
	c2 := New(c.store, nil, earlier.Now)
	require.NoError(t, c2.Reload(ctx))
	got, err := c2.Subscriber(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status)
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	c, _, rec := newTestCache(t)

	assert.Equal(t, "", c.Setting("view_mode"))
	require.NoError(t, c.SetSetting(ctx, "view_mode", "grid"))
	assert.Equal(t, "grid", c.Setting("view_mode"))

	require.NoError(t, c.SetSetting(ctx, "view_mode", "list"))
	assert.Equal(t, "list", c.Setting("view_mode"))
	assert.Equal(t, int64(2), rec.count())
}

func TestStats_AllTimeAndMonthly(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCache(t)

	_, err := c.AddSubscriber(ctx, subscriberInput("Ali"), false)
	require.NoError(t, err)

	_, err = c.AddExpense(ctx, model.ExpenseInput{
		Name:     "June rent",
		Amount:   400,
		Category: model.CategoryRent,
		Date:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = c.AddExpense(ctx, model.ExpenseInput{
		Name:     "May rent",
		Amount:   350,
		Category: model.CategoryRent,
		Date:     time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	all := c.Stats("")
	assert.Equal(t, 1, all.TotalSubscribers)
	assert.Equal(t, 750.0, all.TotalExpenses)
	assert.Equal(t, 1500.0, all.SubscriptionRevenue)
	assert.Equal(t, 750.0, all.NetProfit)

	june := c.Stats("2024-06")
	assert.Equal(t, 400.0, june.TotalExpenses)
	assert.Equal(t, 1, june.TotalSubscribers)

	may := c.Stats("2024-05")
	assert.Equal(t, 350.0, may.TotalExpenses)
	assert.Equal(t, 0, may.TotalSubscribers)
}

func TestSaveSignals(t *testing.T) {
	ctx := context.Background()
	c, _, rec := newTestCache(t)

	sub, err := c.AddSubscriber(ctx, subscriberInput("Ali"), false)
	require.NoError(t, err)
	require.NoError(t, c.Freeze(ctx, sub.ID))
	require.NoError(t, c.DeleteSubscriber(ctx, sub.ID))

	assert.Equal(t, int64(3), rec.count())

	// Reads and failed mutations never signal.
	c.Subscribers()
	_, err = c.AddSubscriber(ctx, model.SubscriberInput{}, false)
	require.Error(t, err)
	assert.Equal(t, int64(3), rec.count())
}
