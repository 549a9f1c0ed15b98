package model

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Input structs carry user-entered fields for create/update operations.
// They are validated with go-playground/validator before any SQL is issued;
// violations surface as *ValidationError.

// SubscriberInput is the enrollment / edit form payload.
// ExpiryDate is never an input: it is recomputed from SubscriptionDate and
// SubscriptionDuration on every write that touches either.
type SubscriberInput struct {
	Name                 string      `validate:"required"`
	Gender               Gender      `validate:"required,oneof=male female"`
	Age                  int         `validate:"gte=0,lte=120"`
	Height               float64     `validate:"gte=0,lte=260"`
	Weight               float64     `validate:"gte=0,lte=400"`
	FitnessGoal          FitnessGoal `validate:"omitempty,oneof=bulking cutting custom"`
	CustomGoal           string      `validate:"-"`
	Phone                string      `validate:"-"`
	SubscriptionDate     time.Time   `validate:"required"`
	Residence            string      `validate:"-"`
	Price                float64     `validate:"gte=0"`
	Debt                 float64     `validate:"gte=0"`
	SubscriptionDuration int         `validate:"required,gte=1"`
	Notes                string      `validate:"-"`
	Shower               bool        `validate:"-"`
}

// RenewInput overwrites an existing subscriber row with a fresh
// subscription period. Attendance history is preserved.
type RenewInput struct {
	SubscriptionDuration int     `validate:"required,gte=1"`
	Price                float64 `validate:"gte=0"`
	Debt                 float64 `validate:"gte=0"`
	Height               float64 `validate:"gte=0,lte=260"` // 0 keeps the stored value
	Weight               float64 `validate:"gte=0,lte=400"` // 0 keeps the stored value
}

// ProductInput is the restock / edit form payload.
type ProductInput struct {
	Name          string  `validate:"required"`
	Quantity      int     `validate:"gte=0"`
	PurchasePrice float64 `validate:"gte=0"`
	SellingPrice  float64 `validate:"gte=0"`
	Description   string  `validate:"-"`
}

// ExpenseInput is the expense form payload.
type ExpenseInput struct {
	Name        string          `validate:"required"`
	Amount      float64         `validate:"gt=0"`
	Category    ExpenseCategory `validate:"required,oneof=rent equipment salary utilities maintenance other"`
	Description string          `validate:"-"`
	Date        time.Time       `validate:"required"`
}

// ClassInput is the individual-class form payload.
type ClassInput struct {
	Name  string    `validate:"required"`
	Age   int       `validate:"gte=0,lte=120"`
	Date  time.Time `validate:"required"`
	Price float64   `validate:"gte=0"`
}

var validate = validator.New()

// Validate checks in against its struct tags and converts violations into
// a *ValidationError with the offending field names.
func Validate(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &ValidationError{Err: err}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return &ValidationError{Fields: fields, Err: err}
}
