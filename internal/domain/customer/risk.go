package customer

// Credit score bounds accepted by the domain
const (
	MinCreditScore  = 300
	MaxCreditScore  = 850
	MaxAnnualSalary = 10_000_000.0
)

// Risk model constants
const (
	scoreRange           = float64(MaxCreditScore - MinCreditScore)
	salaryCap            = 200_000.0
	scoreWeight          = 0.7
	salaryWeight         = 0.3
	highValueScoreFloor  = 750
	highValueSalaryFloor = 100_000.0
)

// RiskScore computes the credit risk score for a customer profile.
// The score is in [0, 1] where 0 is the lowest risk and 1 the highest.
// Inputs must already be range-validated; the function itself does not clamp.
func RiskScore(creditScore int, annualSalary float64) float64 {
	normalizedScore := float64(creditScore-MinCreditScore) / scoreRange
	normalizedSalary := annualSalary / salaryCap
	if normalizedSalary > 1.0 {
		normalizedSalary = 1.0
	}
	return 1.0 - (scoreWeight*normalizedScore + salaryWeight*normalizedSalary)
}

// CreditRating maps a credit score to its human-readable rating label.
// A zero score means the profile has never been rated.
func CreditRating(creditScore int) string {
	switch {
	case creditScore == 0:
		return "Not Rated"
	case creditScore >= 750:
		return "Excellent"
	case creditScore >= 700:
		return "Good"
	case creditScore >= 650:
		return "Fair"
	case creditScore >= 600:
		return "Poor"
	default:
		return "Very Poor"
	}
}

// IsHighValue reports whether a profile qualifies for premium treatment
func IsHighValue(creditScore int, annualSalary float64) bool {
	return creditScore >= highValueScoreFloor && annualSalary >= highValueSalaryFloor
}
