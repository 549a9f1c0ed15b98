package model

import "time"

// DateOnly is the storage format for calendar-day granular dates
// (subscription dates, expiry dates, attendance days, expense dates).
const DateOnly = time.DateOnly

// Gender of a subscriber.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// FitnessGoal is a subscriber's training goal.
// GoalCustom means the free-text CustomGoal field carries the actual goal.
type FitnessGoal string

const (
	GoalBulking FitnessGoal = "bulking"
	GoalCutting FitnessGoal = "cutting"
	GoalCustom  FitnessGoal = "custom"
)

// Status is the derived subscription state. Only the frozen override is
// stored; active/expired are computed from ExpiryDate at read time.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
	StatusFrozen  Status = "frozen"
)

// ExpenseCategory is the closed set of expense categories.
type ExpenseCategory string

const (
	CategoryRent        ExpenseCategory = "rent"
	CategoryEquipment   ExpenseCategory = "equipment"
	CategorySalary      ExpenseCategory = "salary"
	CategoryUtilities   ExpenseCategory = "utilities"
	CategoryMaintenance ExpenseCategory = "maintenance"
	CategoryOther       ExpenseCategory = "other"
)

// AttendanceRecord is one gym visit. Date is calendar-day granular
// (DateOnly format); at most one record exists per day per subscriber.
// The record list is persisted as a JSON TEXT column on the subscriber row.
type AttendanceRecord struct {
	Date          string   `json:"date"`
	TrainingTypes []string `json:"trainingTypes"`
}

// Subscriber is a gym member.
//
// Status is derived, never persisted: Frozen is the only stored override,
// and active/expired follow from ExpiryDate versus the current time.
// ExpiryDate is always SubscriptionDate + SubscriptionDuration days.
type Subscriber struct {
	ID                   string
	Name                 string
	Gender               Gender
	Age                  int     // 0 = not recorded
	Height               float64 // cm, 0 = not recorded
	Weight               float64 // kg, 0 = not recorded
	BMI                  float64
	BodyType             string
	FitnessGoal          FitnessGoal
	CustomGoal           string
	Phone                string
	SubscriptionDate     time.Time
	ExpiryDate           time.Time
	Residence            string
	Price                float64
	Debt                 float64
	SubscriptionDuration int // days
	Notes                string
	Frozen               bool
	Status               Status // derived, filled by the cache
	Attendance           []AttendanceRecord
	Shower               bool
	CreatedAt            time.Time
}

// Product is an inventory item sold over the counter.
type Product struct {
	ID            string
	Name          string
	Quantity      int
	PurchasePrice float64
	SellingPrice  float64
	Description   string
	CreatedAt     time.Time
}

// Sale records a stock-decrementing sale. ProductID is a weak reference:
// the product may be deleted later and the sale row survives with its
// denormalized name and price snapshot. Sales are immutable once created.
type Sale struct {
	ID            string
	ProductID     string
	ProductName   string
	QuantitySold  int
	PurchasePrice float64
	SellingPrice  float64
	Profit        float64
	SaleDate      time.Time
}

// Expense is a logged operating cost.
type Expense struct {
	ID          string
	Name        string
	Amount      float64
	Category    ExpenseCategory
	Description string
	Date        time.Time
}

// IndividualClass is a one-off paid training session for a non-member.
type IndividualClass struct {
	ID    string
	Name  string
	Age   int // 0 = not recorded
	Date  time.Time
	Price float64
}

// ExpiryDate computes the expiry for a subscription starting at start and
// lasting durationDays. This is the single definition used everywhere a
// subscription date or duration changes.
func ExpiryDate(start time.Time, durationDays int) time.Time {
	return start.AddDate(0, 0, durationDays)
}
