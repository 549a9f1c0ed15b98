package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymdesk/internal/model"
	"gymdesk/internal/persist"
	"gymdesk/internal/store"
	"gymdesk/internal/testutil"
)

// Exporting an image and importing it into a fresh process must
// reproduce the exact same domain state.
func TestExportImport_IdenticalCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	clock := testutil.NewClock(testStart)

	st1, err := store.OpenMemory()
	require.NoError(t, err)
	defer st1.Close()
	a1 := persist.New(st1, filepath.Join(dir, "gym.sqlite"), time.Hour)
	require.NoError(t, a1.Initialize(ctx))
	c1 := New(st1, a1, clock.Now)
	require.NoError(t, c1.Reload(ctx))

	sub, err := c1.AddSubscriber(ctx, subscriberInput("Ali"), false)
	require.NoError(t, err)
	require.NoError(t, c1.RecordAttendance(ctx, sub.ID, []string{"chest"}))
	require.NoError(t, c1.Freeze(ctx, sub.ID))
	p, err := c1.AddProduct(ctx, productInput("Water", 10))
	require.NoError(t, err)
	_, err = c1.Sell(ctx, p.ID, 4)
	require.NoError(t, err)
	_, err = c1.AddExpense(ctx, model.ExpenseInput{
		Name: "Rent", Amount: 400, Category: model.CategoryRent,
		Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = c1.AddClass(ctx, model.ClassInput{
		Name: "Omar", Date: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), Price: 10,
	})
	require.NoError(t, err)
	require.NoError(t, c1.SetSetting(ctx, "view_mode", "grid"))

	exported, err := a1.Export(ctx, filepath.Join(dir, "backup.sqlite"))
	require.NoError(t, err)

	// A second process imports the backup.
	st2, err := store.OpenMemory()
	require.NoError(t, err)
	defer st2.Close()
	a2 := persist.New(st2, filepath.Join(dir, "gym2.sqlite"), time.Hour)
	require.NoError(t, a2.Initialize(ctx))
	require.NoError(t, a2.Import(ctx, exported))
	c2 := New(st2, a2, clock.Now)
	require.NoError(t, c2.Reload(ctx))

	assert.Equal(t, c1.Subscribers(), c2.Subscribers())
	assert.Equal(t, c1.Products(), c2.Products())
	assert.Equal(t, c1.Sales(), c2.Sales())
	assert.Equal(t, c1.Expenses(), c2.Expenses())
	assert.Equal(t, c1.Classes(), c2.Classes())
	assert.Equal(t, "grid", c2.Setting("view_mode"))
}
