package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymdesk/internal/model"
	"gymdesk/internal/store"
)

// Fixed IDs used by the seeded database.
const (
	seedSubscriberID = "01900000-0000-7000-8000-000000000001"
	seedProductID    = "01900000-0000-7000-8000-000000000002"
)

// seedDatabase writes a saved image with one subscriber and one product
// into dir, where the commands expect gym.db.
func seedDatabase(t *testing.T, dir string) {
	t.Helper()
	ctx := context.Background()

	st, err := store.OpenMemory()
	require.NoError(t, err)
	defer st.Close()

	start := time.Now().UTC().Truncate(24 * time.Hour)
	require.NoError(t, st.InsertSubscriber(ctx, model.Subscriber{
		ID:                   seedSubscriberID,
		Name:                 "Ali Hassan",
		Gender:               model.GenderMale,
		SubscriptionDate:     start,
		ExpiryDate:           model.ExpiryDate(start, 30),
		Price:                1500,
		SubscriptionDuration: 30,
		Attendance:           []model.AttendanceRecord{},
		CreatedAt:            start,
	}))
	require.NoError(t, st.InsertProduct(ctx, model.Product{
		ID:            seedProductID,
		Name:          "Water",
		Quantity:      10,
		PurchasePrice: 2,
		SellingPrice:  3,
		CreatedAt:     start,
	}))
	require.NoError(t, st.BackupTo(ctx, filepath.Join(dir, "gym.db")))
}

// runCommand executes the root command with the given args plus
// --data-dir and returns captured stdout.
func runCommand(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--data-dir", dir))
	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_InvalidFormat(t *testing.T) {
	_, err := runCommand(t, t.TempDir(), "stats", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestListProducts(t *testing.T) {
	dir := t.TempDir()
	seedDatabase(t, dir)

	out, err := runCommand(t, dir, "list", "products")
	require.NoError(t, err)
	assert.Contains(t, out, "Water")
	assert.Contains(t, out, "10")
}

func TestListSubscribers_Search(t *testing.T) {
	dir := t.TempDir()
	seedDatabase(t, dir)

	out, err := runCommand(t, dir, "list", "subscribers", "--search", "haSSan")
	require.NoError(t, err)
	assert.Contains(t, out, "Ali Hassan")
	assert.Contains(t, out, "active")

	out, err = runCommand(t, dir, "list", "subscribers", "--search", "nobody")
	require.NoError(t, err)
	assert.Contains(t, out, "no subscribers")
}

func TestList_UnknownEntity(t *testing.T) {
	_, err := runCommand(t, t.TempDir(), "list", "gadgets")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestList_BadMonth(t *testing.T) {
	_, err := runCommand(t, t.TempDir(), "list", "sales", "--month", "June")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSell_PersistsAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	seedDatabase(t, dir)

	out, err := runCommand(t, dir, "sell", seedProductID, "3")
	require.NoError(t, err)
	assert.Contains(t, out, "sold 3 x Water")

	// A fresh run sees the decremented stock and the sale row.
	out, err = runCommand(t, dir, "list", "products")
	require.NoError(t, err)
	assert.Contains(t, out, "7")

	out, err = runCommand(t, dir, "list", "sales")
	require.NoError(t, err)
	assert.Contains(t, out, "Water")
}

func TestSell_InsufficientStock(t *testing.T) {
	dir := t.TempDir()
	seedDatabase(t, dir)

	out, err := runCommand(t, dir, "sell", seedProductID, "999")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, ErrCodeInsufficientStock)
}

func TestSell_BadQuantity(t *testing.T) {
	_, err := runCommand(t, t.TempDir(), "sell", "some-id", "three")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestAttend_RecordAndRemove(t *testing.T) {
	dir := t.TempDir()
	seedDatabase(t, dir)

	out, err := runCommand(t, dir, "attend", seedSubscriberID, "--training", "chest,back")
	require.NoError(t, err)
	assert.Contains(t, out, "visit recorded for Ali Hassan")
	assert.Contains(t, out, "chest, back")

	// Second visit the same day is rejected.
	out, err = runCommand(t, dir, "attend", seedSubscriberID)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, ErrCodeConflict)

	// Removing the visit frees the day again.
	_, err = runCommand(t, dir, "attend", seedSubscriberID, "--remove")
	require.NoError(t, err)
	_, err = runCommand(t, dir, "attend", seedSubscriberID)
	require.NoError(t, err)
}

func TestAttend_UnknownSubscriber(t *testing.T) {
	dir := t.TempDir()
	seedDatabase(t, dir)

	out, err := runCommand(t, dir, "attend", "no-such-id")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, ErrCodeNotFound)
}

func TestExport_WritesFile(t *testing.T) {
	dir := t.TempDir()
	seedDatabase(t, dir)
	dest := filepath.Join(t.TempDir(), "backup.sqlite")

	out, err := runCommand(t, dir, "export", dest)
	require.NoError(t, err)
	assert.Contains(t, out, dest)
	_, statErr := os.Stat(dest)
	assert.NoError(t, statErr)
}

func TestImport_RequiresConfirmation(t *testing.T) {
	_, err := runCommand(t, t.TempDir(), "import", "whatever.sqlite")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestImport_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	seedDatabase(t, dir)
	dest := filepath.Join(t.TempDir(), "backup.sqlite")
	_, err := runCommand(t, dir, "export", dest)
	require.NoError(t, err)

	// Import into an empty data directory.
	freshDir := t.TempDir()
	out, err := runCommand(t, freshDir, "import", dest, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "1 subscribers")

	out, err = runCommand(t, freshDir, "list", "subscribers")
	require.NoError(t, err)
	assert.Contains(t, out, "Ali Hassan")
}

func TestImport_RejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	seedDatabase(t, dir)

	junk := filepath.Join(t.TempDir(), "junk.bin")
	require.NoError(t, os.WriteFile(junk, []byte("not a database"), 0o644))

	out, err := runCommand(t, dir, "import", junk, "--yes")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error")

	// Current data untouched.
	out, err = runCommand(t, dir, "list", "subscribers")
	require.NoError(t, err)
	assert.Contains(t, out, "Ali Hassan")
}

func TestStats_JSON(t *testing.T) {
	dir := t.TempDir()
	seedDatabase(t, dir)

	out, err := runCommand(t, dir, "stats", "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), data["TotalSubscribers"])
	assert.Equal(t, float64(1500), data["SubscriptionRevenue"])
}

func TestStats_BadMonth(t *testing.T) {
	_, err := runCommand(t, t.TempDir(), "stats", "--month", "2024-6")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
