// Package cache holds the full domain state in memory and is the only
// writer of the store. Reads never touch SQL; every mutation validates,
// writes through to the store, updates the in-memory copy, and signals
// the persistence layer that a save is due.
//
// Subscriber Status is derived, never stored: the cache stamps it on
// load, after every mutation, and on a periodic refresh tick, from the
// frozen flag and the expiry date against the current time.
package cache

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/unicode/norm"

	"gymdesk/internal/derive"
	"gymdesk/internal/model"
	"gymdesk/internal/store"
)

// Saver receives change notifications. The persistence adapter implements
// it; tests substitute a recorder.
type Saver interface {
	RequestSave()
}

// Cache is the in-memory domain state backed by a store. Safe for
// concurrent use.
type Cache struct {
	mu    sync.RWMutex
	store *store.Store
	saver Saver
	now   func() time.Time

	subscribers []model.Subscriber
	products    []model.Product
	sales       []model.Sale
	expenses    []model.Expense
	classes     []model.IndividualClass
	settings    map[string]string
}

// New builds a cache over st. saver may be nil (no save signals, used in
// tests); now may be nil (wall clock).
func New(st *store.Store, saver Saver, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{
		store:    st,
		saver:    saver,
		now:      now,
		settings: map[string]string{},
	}
}

// Reload replaces the whole in-memory state from the store. Called at
// startup and after an image import.
func (c *Cache) Reload(ctx context.Context) error {
	subs, err := c.store.ListSubscribers(ctx)
	if err != nil {
		return err
	}
	products, err := c.store.ListProducts(ctx)
	if err != nil {
		return err
	}
	sales, err := c.store.ListSales(ctx)
	if err != nil {
		return err
	}
	expenses, err := c.store.ListExpenses(ctx)
	if err != nil {
		return err
	}
	classes, err := c.store.ListClasses(ctx)
	if err != nil {
		return err
	}
	settings, err := c.store.ListSettings(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = subs
	c.products = products
	c.sales = sales
	c.expenses = expenses
	c.classes = classes
	c.settings = settings
	c.stampStatuses(c.now())
	return nil
}

// stampStatuses rewrites every subscriber's derived Status. Callers hold mu.
func (c *Cache) stampStatuses(now time.Time) {
	for i := range c.subscribers {
		c.subscribers[i].Status = derive.Status(c.subscribers[i], now)
	}
}

// RefreshStatuses recomputes all derived statuses against the current
// time. It never writes: a subscriber crossing their expiry date changes
// status without any row changing.
func (c *Cache) RefreshStatuses() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stampStatuses(c.now())
}

// StartStatusRefresh recomputes statuses every interval until ctx is
// cancelled, so a long-running process shows expiries as they happen.
func (c *Cache) StartStatusRefresh(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.RefreshStatuses()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// requestSave signals the persistence layer after a successful mutation.
func (c *Cache) requestSave() {
	if c.saver != nil {
		c.saver.RequestSave()
	}
}

// Subscribers returns a copy of all subscribers with fresh statuses,
// newest first. The attendance lists are copied too, so callers may
// mutate returned records freely.
func (c *Cache) Subscribers() []model.Subscriber {
	c.mu.RLock()
	defer c.mu.RUnlock()
	now := c.now()
	out := make([]model.Subscriber, len(c.subscribers))
	for i, sub := range c.subscribers {
		sub.Status = derive.Status(sub, now)
		sub.Attendance = cloneAttendance(sub.Attendance)
		out[i] = sub
	}
	return out
}

// Subscriber returns the subscriber with the given id.
func (c *Cache) Subscriber(id string) (model.Subscriber, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, sub := range c.subscribers {
		if sub.ID == id {
			sub.Status = derive.Status(sub, c.now())
			sub.Attendance = cloneAttendance(sub.Attendance)
			return sub, nil
		}
	}
	return model.Subscriber{}, model.ErrSubscriberNotFound
}

// cloneAttendance deep-copies an attendance list so returned subscribers
// never share backing arrays with cache state.
func cloneAttendance(records []model.AttendanceRecord) []model.AttendanceRecord {
	if records == nil {
		return nil
	}
	out := make([]model.AttendanceRecord, len(records))
	for i, rec := range records {
		rec.TrainingTypes = slices.Clone(rec.TrainingTypes)
		out[i] = rec
	}
	return out
}

// SearchSubscribers returns subscribers whose name, phone or residence
// contains the query, case-insensitively. An empty query matches everyone.
func (c *Cache) SearchSubscribers(query string) []model.Subscriber {
	query = strings.ToLower(strings.TrimSpace(query))
	all := c.Subscribers()
	if query == "" {
		return all
	}
	out := make([]model.Subscriber, 0, len(all))
	for _, sub := range all {
		if strings.Contains(strings.ToLower(sub.Name), query) ||
			strings.Contains(strings.ToLower(sub.Phone), query) ||
			strings.Contains(strings.ToLower(sub.Residence), query) {
			out = append(out, sub)
		}
	}
	return out
}

// ExpiringSoon returns active subscribers within seven days of expiry.
func (c *Cache) ExpiringSoon() []model.Subscriber {
	return derive.ExpiringSoon(c.Subscribers(), c.now())
}

// Products returns a copy of the product list.
func (c *Cache) Products() []model.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Product returns the product with the given id.
func (c *Cache) Product(id string) (model.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.products {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Product{}, model.ErrProductNotFound
}

// Sales returns a copy of the sale log.
func (c *Cache) Sales() []model.Sale {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Sale, len(c.sales))
	copy(out, c.sales)
	return out
}

// Expenses returns a copy of the expense list.
func (c *Cache) Expenses() []model.Expense {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Expense, len(c.expenses))
	copy(out, c.expenses)
	return out
}

// Classes returns a copy of the individual-class list.
func (c *Cache) Classes() []model.IndividualClass {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.IndividualClass, len(c.classes))
	copy(out, c.classes)
	return out
}

// Setting returns the value for key, or "" when unset.
func (c *Cache) Setting(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings[key]
}

// SetSetting upserts a key/value pair.
func (c *Cache) SetSetting(ctx context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.SetSetting(ctx, key, value); err != nil {
		return err
	}
	c.settings[key] = value
	c.requestSave()
	return nil
}

// Stats computes the dashboard aggregate. A non-empty monthKey
// ("2006-01") restricts sales, expenses and classes to that month and
// subscribers to those enrolled in it; an empty key is all-time.
func (c *Cache) Stats(monthKey string) derive.Statistics {
	subs := c.Subscribers()
	products := c.Products()
	sales := c.Sales()
	expenses := c.Expenses()
	classes := c.Classes()
	if monthKey != "" {
		subs = derive.SubscribersInMonth(subs, monthKey)
		sales = derive.SalesInMonth(sales, monthKey)
		expenses = derive.ExpensesInMonth(expenses, monthKey)
		classes = derive.ClassesInMonth(classes, monthKey)
	}
	return derive.Compute(subs, products, sales, expenses, classes)
}

// normalizeName folds a subscriber name for duplicate detection:
// Unicode NFC, trimmed, lowercased. "Ali " and "ali" collide.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(name)))
}

// hasActiveDuplicate reports whether a non-expired subscriber other than
// excludeID carries the same normalized name. Callers hold mu.
func (c *Cache) hasActiveDuplicate(name, excludeID string, now time.Time) bool {
	want := normalizeName(name)
	for _, sub := range c.subscribers {
		if sub.ID == excludeID {
			continue
		}
		if derive.Status(sub, now) == model.StatusExpired {
			continue
		}
		if normalizeName(sub.Name) == want {
			return true
		}
	}
	return false
}
