// Package derive holds the pure derived-view functions over the domain
// cache: subscription status, BMI classification, month bucketing and
// aggregate statistics. Nothing here touches the store or is persisted.
package derive

import (
	"time"

	"gymdesk/internal/model"
)

// Status derives the subscription state at the given instant. The frozen
// override wins unconditionally; otherwise the subscription is expired as
// soon as the expiry instant has passed. Expiry dates are stored as the
// midnight opening the day, so a membership lapses at the start of its
// expiry day.
func Status(sub model.Subscriber, now time.Time) model.Status {
	if sub.Frozen {
		return model.StatusFrozen
	}
	if sub.ExpiryDate.Before(now) {
		return model.StatusExpired
	}
	return model.StatusActive
}

// DaysUntilExpiry returns whole days from now's calendar day until the
// expiry date. Zero means the expiry day is today; negative means it has
// passed.
func DaysUntilExpiry(sub model.Subscriber, now time.Time) int {
	return int(sub.ExpiryDate.Sub(truncateDay(now)).Hours() / 24)
}

// ExpiringSoon returns active subscribers whose subscription ends within
// the next seven days (exclusive of already-expired ones). Feeds the
// renewal-reminder view.
func ExpiringSoon(subs []model.Subscriber, now time.Time) []model.Subscriber {
	var soon []model.Subscriber
	for _, sub := range subs {
		if Status(sub, now) != model.StatusActive {
			continue
		}
		if d := DaysUntilExpiry(sub, now); d > 0 && d <= 7 {
			soon = append(soon, sub)
		}
	}
	return soon
}

// truncateDay maps an instant to the UTC midnight of its calendar day,
// matching how day-granular dates are stored.
func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
