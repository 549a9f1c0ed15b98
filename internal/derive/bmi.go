package derive

import (
	"math"

	"gymdesk/internal/model"
)

// Body-type classification thresholds (WHO BMI bands).
const (
	bmiUnderweight = 18.5
	bmiOverweight  = 25
	bmiObese       = 30
)

const (
	BodyUnderweight = "underweight"
	BodyNormal      = "normal"
	BodyOverweight  = "overweight"
	BodyObese       = "obese"
)

// BMI computes body mass index from height in centimeters and weight in
// kilograms, rounded to one decimal. Returns 0 if either input is missing.
func BMI(heightCm, weightKg float64) float64 {
	if heightCm <= 0 || weightKg <= 0 {
		return 0
	}
	m := heightCm / 100
	return math.Round(weightKg/(m*m)*10) / 10
}

// BodyType classifies a BMI value into the four bands.
func BodyType(bmi float64) string {
	switch {
	case bmi < bmiUnderweight:
		return BodyUnderweight
	case bmi < bmiOverweight:
		return BodyNormal
	case bmi < bmiObese:
		return BodyOverweight
	default:
		return BodyObese
	}
}

// DefaultGoal suggests a fitness goal from BMI: underweight members get
// bulking, everyone else cutting.
func DefaultGoal(bmi float64) model.FitnessGoal {
	if bmi < bmiUnderweight {
		return model.GoalBulking
	}
	return model.GoalCutting
}
