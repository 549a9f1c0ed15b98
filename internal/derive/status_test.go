package derive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymdesk/internal/model"
)

func day(s string) time.Time {
	t, err := time.Parse(model.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func subWithExpiry(expiry string, frozen bool) model.Subscriber {
	return model.Subscriber{
		ID:         "sub-1",
		Name:       "Ali",
		ExpiryDate: day(expiry),
		Frozen:     frozen,
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		sub  model.Subscriber
		now  time.Time
		want model.Status
	}{
		{"before expiry", subWithExpiry("2024-01-31", false), day("2024-01-15"), model.StatusActive},
		{"expiry midnight exactly", subWithExpiry("2024-01-31", false), day("2024-01-31"), model.StatusActive},
		{"within expiry day", subWithExpiry("2024-01-31", false), time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC), model.StatusExpired},
		{"day after expiry", subWithExpiry("2024-01-31", false), day("2024-02-01"), model.StatusExpired},
		{"frozen before expiry", subWithExpiry("2024-01-31", true), day("2024-01-15"), model.StatusFrozen},
		{"frozen wins past expiry", subWithExpiry("2024-01-31", true), day("2024-06-01"), model.StatusFrozen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.sub, tt.now))
		})
	}
}

func TestStatus_IntradayNow(t *testing.T) {
	// The membership lapses at the start of the expiry day: any instant
	// within it is already expired.
	sub := subWithExpiry("2024-01-31", false)
	now := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, model.StatusExpired, Status(sub, now))
}

func TestDaysUntilExpiry(t *testing.T) {
	sub := subWithExpiry("2024-01-31", false)
	assert.Equal(t, 16, DaysUntilExpiry(sub, day("2024-01-15")))
	assert.Equal(t, 0, DaysUntilExpiry(sub, day("2024-01-31")))
	assert.Equal(t, -1, DaysUntilExpiry(sub, day("2024-02-01")))
}

func TestExpiringSoon(t *testing.T) {
	now := day("2024-01-20")
	subs := []model.Subscriber{
		subWithExpiry("2024-01-25", false), // 5 days out - included
		subWithExpiry("2024-01-27", false), // 7 days out - included
		subWithExpiry("2024-01-28", false), // 8 days out - not yet
		subWithExpiry("2024-01-20", false), // expiring today - excluded (0 days)
		subWithExpiry("2024-01-10", false), // already expired
		subWithExpiry("2024-01-25", true),  // frozen - excluded
	}

	soon := ExpiringSoon(subs, now)
	require.Len(t, soon, 2)
	assert.Equal(t, day("2024-01-25"), soon[0].ExpiryDate)
	assert.Equal(t, day("2024-01-27"), soon[1].ExpiryDate)
}
