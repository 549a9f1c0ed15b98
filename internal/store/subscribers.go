package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gymdesk/internal/model"
)

// subscriberColumns is the single authoritative column list for subscriber
// queries. scanSubscriber targets exactly these columns in this order, so
// adding or reordering physical table columns cannot silently shift fields.
const subscriberColumns = `id, name, gender, age, height, weight, bmi, body_type,
	fitness_goal, custom_goal, phone, subscription_date, expiry_date, residence,
	price, debt, subscription_duration, notes, frozen, attendance, shower, created_at`

func scanSubscriber(row rowScanner) (model.Subscriber, error) {
	var (
		s                             model.Subscriber
		age                           sql.NullInt64
		height, weight, bmi           sql.NullFloat64
		bodyType, goal, custom, phone sql.NullString
		notes                         sql.NullString
		subDate, expDate, createdAt   string
		attendance                    string
	)

	err := row.Scan(
		&s.ID, &s.Name, &s.Gender, &age, &height, &weight, &bmi, &bodyType,
		&goal, &custom, &phone, &subDate, &expDate, &s.Residence,
		&s.Price, &s.Debt, &s.SubscriptionDuration, &notes, &s.Frozen,
		&attendance, &s.Shower, &createdAt,
	)
	if err != nil {
		return model.Subscriber{}, fmt.Errorf("scan subscriber: %w", err)
	}

	s.Age = int(age.Int64)
	s.Height = height.Float64
	s.Weight = weight.Float64
	s.BMI = bmi.Float64
	s.BodyType = bodyType.String
	s.FitnessGoal = model.FitnessGoal(goal.String)
	s.CustomGoal = custom.String
	s.Phone = phone.String
	s.Notes = notes.String

	if s.SubscriptionDate, err = parseDate(subDate); err != nil {
		return model.Subscriber{}, err
	}
	if s.ExpiryDate, err = parseDate(expDate); err != nil {
		return model.Subscriber{}, err
	}
	if s.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return model.Subscriber{}, err
	}
	if s.Attendance, err = unmarshalAttendance(attendance); err != nil {
		return model.Subscriber{}, err
	}

	return s, nil
}

// ListSubscribers returns all subscribers, newest first. Ordering is
// deterministic: created_at DESC with id as a tiebreaker.
func (s *Store) ListSubscribers(ctx context.Context) ([]model.Subscriber, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+subscriberColumns+`
		FROM subscribers
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query subscribers: %w", err)
	}
	return collect(rows, scanSubscriber)
}

// InsertSubscriber inserts one subscriber row.
func (s *Store) InsertSubscriber(ctx context.Context, sub model.Subscriber) error {
	attendance, err := marshalAttendance(sub.Attendance)
	if err != nil {
		return fmt.Errorf("insert subscriber: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO subscribers
		(`+subscriberColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		sub.ID,
		sub.Name,
		string(sub.Gender),
		nullInt(sub.Age),
		nullFloat(sub.Height),
		nullFloat(sub.Weight),
		nullFloat(sub.BMI),
		nullString(sub.BodyType),
		nullString(string(sub.FitnessGoal)),
		nullString(sub.CustomGoal),
		nullString(sub.Phone),
		sub.SubscriptionDate.Format(model.DateOnly),
		sub.ExpiryDate.Format(model.DateOnly),
		sub.Residence,
		sub.Price,
		sub.Debt,
		sub.SubscriptionDuration,
		nullString(sub.Notes),
		sub.Frozen,
		attendance,
		sub.Shower,
		sub.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert subscriber: %w", err)
	}
	return nil
}

// UpdateSubscriber overwrites the editable fields of an existing row.
// The frozen flag and created_at are managed by their own statements.
func (s *Store) UpdateSubscriber(ctx context.Context, sub model.Subscriber) error {
	attendance, err := marshalAttendance(sub.Attendance)
	if err != nil {
		return fmt.Errorf("update subscriber: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE subscribers SET
			name = ?, gender = ?, age = ?, height = ?, weight = ?, bmi = ?,
			body_type = ?, fitness_goal = ?, custom_goal = ?, phone = ?,
			subscription_date = ?, expiry_date = ?, residence = ?, price = ?,
			debt = ?, subscription_duration = ?, notes = ?, frozen = ?,
			attendance = ?, shower = ?
		WHERE id = ?
	`,
		sub.Name,
		string(sub.Gender),
		nullInt(sub.Age),
		nullFloat(sub.Height),
		nullFloat(sub.Weight),
		nullFloat(sub.BMI),
		nullString(sub.BodyType),
		nullString(string(sub.FitnessGoal)),
		nullString(sub.CustomGoal),
		nullString(sub.Phone),
		sub.SubscriptionDate.Format(model.DateOnly),
		sub.ExpiryDate.Format(model.DateOnly),
		sub.Residence,
		sub.Price,
		sub.Debt,
		sub.SubscriptionDuration,
		nullString(sub.Notes),
		sub.Frozen,
		attendance,
		sub.Shower,
		sub.ID,
	)
	if err != nil {
		return fmt.Errorf("update subscriber: %w", err)
	}
	return requireRow(res, model.ErrSubscriberNotFound)
}

// DeleteSubscriber hard-deletes a subscriber row. No tombstone.
func (s *Store) DeleteSubscriber(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM subscribers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete subscriber: %w", err)
	}
	return requireRow(res, model.ErrSubscriberNotFound)
}

// SetFrozen flips the stored frozen override. This is the only persisted
// piece of subscription status; active/expired are derived at read time.
func (s *Store) SetFrozen(ctx context.Context, id string, frozen bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE subscribers SET frozen = ? WHERE id = ?`, frozen, id)
	if err != nil {
		return fmt.Errorf("set frozen: %w", err)
	}
	return requireRow(res, model.ErrSubscriberNotFound)
}

// UpdateAttendance replaces the attendance JSON column for one subscriber.
func (s *Store) UpdateAttendance(ctx context.Context, id string, records []model.AttendanceRecord) error {
	attendance, err := marshalAttendance(records)
	if err != nil {
		return fmt.Errorf("update attendance: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE subscribers SET attendance = ? WHERE id = ?`, attendance, id)
	if err != nil {
		return fmt.Errorf("update attendance: %w", err)
	}
	return requireRow(res, model.ErrSubscriberNotFound)
}

// requireRow converts a zero-rows-affected result into notFound.
func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
