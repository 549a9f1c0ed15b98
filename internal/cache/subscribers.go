package cache

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"gymdesk/internal/derive"
	"gymdesk/internal/model"
)

// AddSubscriber enrolls a new member. Height, weight and goal feed the
// derived BMI, body type and default goal; the expiry date is computed
// from the subscription date and duration and is never an input.
//
// When a non-expired subscriber already carries the same name the call
// fails with ErrDuplicateActiveSubscriber unless allowDuplicate is set.
// The check is advisory: two members may legitimately share a name.
func (c *Cache) AddSubscriber(ctx context.Context, in model.SubscriberInput, allowDuplicate bool) (model.Subscriber, error) {
	if err := model.Validate(in); err != nil {
		return model.Subscriber{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()

	if !allowDuplicate && c.hasActiveDuplicate(in.Name, "", now) {
		return model.Subscriber{}, fmt.Errorf("%w: %q", model.ErrDuplicateActiveSubscriber, in.Name)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Subscriber{}, fmt.Errorf("generate id: %w", err)
	}

	sub := model.Subscriber{
		ID:                   id.String(),
		Name:                 in.Name,
		Gender:               in.Gender,
		Age:                  in.Age,
		Height:               in.Height,
		Weight:               in.Weight,
		FitnessGoal:          in.FitnessGoal,
		CustomGoal:           in.CustomGoal,
		Phone:                in.Phone,
		SubscriptionDate:     in.SubscriptionDate,
		ExpiryDate:           model.ExpiryDate(in.SubscriptionDate, in.SubscriptionDuration),
		Residence:            in.Residence,
		Price:                in.Price,
		Debt:                 in.Debt,
		SubscriptionDuration: in.SubscriptionDuration,
		Notes:                in.Notes,
		Shower:               in.Shower,
		Attendance:           []model.AttendanceRecord{},
		CreatedAt:            now,
	}
	applyBodyMetrics(&sub)

	if err := c.store.InsertSubscriber(ctx, sub); err != nil {
		return model.Subscriber{}, err
	}
	sub.Status = derive.Status(sub, now)
	c.subscribers = append([]model.Subscriber{sub}, c.subscribers...)
	c.requestSave()
	slog.Debug("subscriber added", "id", sub.ID, "name", sub.Name)
	return sub, nil
}

// UpdateSubscriber replaces a member's editable fields. Attendance,
// frozen flag and creation time survive; BMI, body type and expiry are
// recomputed from the new inputs.
func (c *Cache) UpdateSubscriber(ctx context.Context, id string, in model.SubscriberInput) (model.Subscriber, error) {
	if err := model.Validate(in); err != nil {
		return model.Subscriber{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	i, err := c.findSubscriber(id)
	if err != nil {
		return model.Subscriber{}, err
	}

	sub := c.subscribers[i]
	sub.Name = in.Name
	sub.Gender = in.Gender
	sub.Age = in.Age
	sub.Height = in.Height
	sub.Weight = in.Weight
	sub.FitnessGoal = in.FitnessGoal
	sub.CustomGoal = in.CustomGoal
	sub.Phone = in.Phone
	sub.SubscriptionDate = in.SubscriptionDate
	sub.SubscriptionDuration = in.SubscriptionDuration
	sub.ExpiryDate = model.ExpiryDate(in.SubscriptionDate, in.SubscriptionDuration)
	sub.Residence = in.Residence
	sub.Price = in.Price
	sub.Debt = in.Debt
	sub.Notes = in.Notes
	sub.Shower = in.Shower
	applyBodyMetrics(&sub)

	if err := c.store.UpdateSubscriber(ctx, sub); err != nil {
		return model.Subscriber{}, err
	}
	sub.Status = derive.Status(sub, c.now())
	c.subscribers[i] = sub
	c.requestSave()
	sub.Attendance = cloneAttendance(sub.Attendance)
	return sub, nil
}

// DeleteSubscriber removes a member and their attendance history.
func (c *Cache) DeleteSubscriber(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, err := c.findSubscriber(id)
	if err != nil {
		return err
	}
	if err := c.store.DeleteSubscriber(ctx, id); err != nil {
		return err
	}
	c.subscribers = append(c.subscribers[:i], c.subscribers[i+1:]...)
	c.requestSave()
	slog.Debug("subscriber deleted", "id", id)
	return nil
}

// Freeze pauses a subscription. A frozen member stays frozen until
// explicitly unfrozen or renewed, even past their expiry date.
func (c *Cache) Freeze(ctx context.Context, id string) error {
	return c.setFrozen(ctx, id, true)
}

// Unfreeze resumes a subscription; the member becomes active or expired
// purely by their expiry date.
func (c *Cache) Unfreeze(ctx context.Context, id string) error {
	return c.setFrozen(ctx, id, false)
}

func (c *Cache) setFrozen(ctx context.Context, id string, frozen bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, err := c.findSubscriber(id)
	if err != nil {
		return err
	}
	if err := c.store.SetFrozen(ctx, id, frozen); err != nil {
		return err
	}
	c.subscribers[i].Frozen = frozen
	c.subscribers[i].Status = derive.Status(c.subscribers[i], c.now())
	c.requestSave()
	return nil
}

// RecordAttendance logs today's visit for a member. At most one visit is
// recorded per calendar day; a second call the same day fails with
// ErrAlreadyRecordedToday. Expired members are rejected with
// ErrSubscriptionExpired; frozen members may still attend.
func (c *Cache) RecordAttendance(ctx context.Context, id string, trainingTypes []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, err := c.findSubscriber(id)
	if err != nil {
		return err
	}

	now := c.now()
	sub := c.subscribers[i]
	if derive.Status(sub, now) == model.StatusExpired {
		return model.ErrSubscriptionExpired
	}

	today := now.Format(model.DateOnly)
	for _, rec := range sub.Attendance {
		if rec.Date == today {
			return model.ErrAlreadyRecordedToday
		}
	}
	// Copy the caller's slice so later mutation can't reach cache state.
	trainingTypes = slices.Clone(trainingTypes)
	if trainingTypes == nil {
		trainingTypes = []string{}
	}
	records := append(append([]model.AttendanceRecord{}, sub.Attendance...),
		model.AttendanceRecord{Date: today, TrainingTypes: trainingTypes})

	if err := c.store.UpdateAttendance(ctx, id, records); err != nil {
		return err
	}
	c.subscribers[i].Attendance = records
	c.requestSave()
	return nil
}

// RemoveAttendance deletes the visit on the given day (DateOnly format).
// Removing a day that was never recorded is a no-op.
func (c *Cache) RemoveAttendance(ctx context.Context, id string, date string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, err := c.findSubscriber(id)
	if err != nil {
		return err
	}

	sub := c.subscribers[i]
	records := make([]model.AttendanceRecord, 0, len(sub.Attendance))
	for _, rec := range sub.Attendance {
		if rec.Date != date {
			records = append(records, rec)
		}
	}
	if len(records) == len(sub.Attendance) {
		return nil
	}

	if err := c.store.UpdateAttendance(ctx, id, records); err != nil {
		return err
	}
	c.subscribers[i].Attendance = records
	c.requestSave()
	return nil
}

// Renew starts a fresh subscription period today: new duration and
// price, frozen flag cleared, attendance history kept. Zero height or
// weight keeps the stored measurement.
func (c *Cache) Renew(ctx context.Context, id string, in model.RenewInput) (model.Subscriber, error) {
	if err := model.Validate(in); err != nil {
		return model.Subscriber{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	i, err := c.findSubscriber(id)
	if err != nil {
		return model.Subscriber{}, err
	}

	now := c.now()
	sub := c.subscribers[i]
	sub.SubscriptionDate = startOfDay(now)
	sub.SubscriptionDuration = in.SubscriptionDuration
	sub.ExpiryDate = model.ExpiryDate(sub.SubscriptionDate, in.SubscriptionDuration)
	sub.Price = in.Price
	sub.Debt = in.Debt
	if in.Height > 0 {
		sub.Height = in.Height
	}
	if in.Weight > 0 {
		sub.Weight = in.Weight
	}
	applyBodyMetrics(&sub)
	sub.Frozen = false

	if err := c.store.UpdateSubscriber(ctx, sub); err != nil {
		return model.Subscriber{}, err
	}
	sub.Status = derive.Status(sub, now)
	c.subscribers[i] = sub
	c.requestSave()
	slog.Debug("subscription renewed", "id", id, "expiry", sub.ExpiryDate.Format(model.DateOnly))
	sub.Attendance = cloneAttendance(sub.Attendance)
	return sub, nil
}

// applyBodyMetrics recomputes BMI, body type and (when unset) the
// default goal. Missing measurements leave the classification empty
// rather than misreading a zero BMI as underweight.
func applyBodyMetrics(sub *model.Subscriber) {
	sub.BMI = derive.BMI(sub.Height, sub.Weight)
	if sub.BMI == 0 {
		sub.BodyType = ""
		return
	}
	sub.BodyType = derive.BodyType(sub.BMI)
	if sub.FitnessGoal == "" {
		sub.FitnessGoal = derive.DefaultGoal(sub.BMI)
	}
}

// findSubscriber returns the index of id. Callers hold mu.
func (c *Cache) findSubscriber(id string) (int, error) {
	for i := range c.subscribers {
		if c.subscribers[i].ID == id {
			return i, nil
		}
	}
	return 0, model.ErrSubscriberNotFound
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
