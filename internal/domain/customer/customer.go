package customer

import (
	"regexp"
	"strings"
	"time"

	"github.com/creditcore/backend/internal/domain/shared"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

// Customer represents a customer financial profile
// It is the aggregate root for customer lifecycle operations
type Customer struct {
	shared.BaseAggregateRoot
	FirstName       string  `gorm:"type:varchar(50);not null"`
	LastName        string  `gorm:"type:varchar(50);not null"`
	Email           string  `gorm:"type:varchar(200);not null;uniqueIndex:idx_customers_email"`
	Phone           string  `gorm:"type:varchar(20)"`
	CreditScore     int     `gorm:"not null"`
	AnnualSalary    float64 `gorm:"not null"`
	CreditRiskScore float64 `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer profile with a derived risk score
func NewCustomer(firstName, lastName, email, phone string, creditScore int, annualSalary float64) (*Customer, error) {
	if err := validateName("first name", firstName); err != nil {
		return nil, err
	}
	if err := validateName("last name", lastName); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePhone(phone); err != nil {
		return nil, err
	}
	if err := validateCreditScore(creditScore); err != nil {
		return nil, err
	}
	if err := validateSalary(annualSalary); err != nil {
		return nil, err
	}

	customer := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FirstName:         firstName,
		LastName:          lastName,
		Email:             strings.ToLower(email),
		Phone:             phone,
		CreditScore:       creditScore,
		AnnualSalary:      annualSalary,
		CreditRiskScore:   RiskScore(creditScore, annualSalary),
	}

	customer.AddDomainEvent(NewCreatedEvent(customer))

	return customer, nil
}

// NewHighValueCustomer creates a customer preset with an excellent credit
// profile, used for premium onboarding flows
func NewHighValueCustomer(firstName, lastName, email, phone string) (*Customer, error) {
	return NewCustomer(firstName, lastName, email, phone, 800, 150_000)
}

// NewStandardCustomer creates a customer preset with an average credit profile
func NewStandardCustomer(firstName, lastName, email, phone string) (*Customer, error) {
	return NewCustomer(firstName, lastName, email, phone, 650, 50_000)
}

// Update carries the optional fields of a partial profile update.
// A nil field leaves the stored value untouched.
type Update struct {
	FirstName    *string
	LastName     *string
	Email        *string
	Phone        *string
	CreditScore  *int
	AnnualSalary *float64
}

// ApplyUpdate applies a partial update, recomputes the risk score and
// records the resulting domain events
func (c *Customer) ApplyUpdate(upd Update) error {
	if upd.FirstName != nil {
		if err := validateName("first name", *upd.FirstName); err != nil {
			return err
		}
	}
	if upd.LastName != nil {
		if err := validateName("last name", *upd.LastName); err != nil {
			return err
		}
	}
	if upd.Email != nil {
		if err := validateEmail(*upd.Email); err != nil {
			return err
		}
	}
	if upd.Phone != nil {
		if err := validatePhone(*upd.Phone); err != nil {
			return err
		}
	}
	if upd.CreditScore != nil {
		if err := validateCreditScore(*upd.CreditScore); err != nil {
			return err
		}
	}
	if upd.AnnualSalary != nil {
		if err := validateSalary(*upd.AnnualSalary); err != nil {
			return err
		}
	}

	previousScore := c.CreditScore

	if upd.FirstName != nil {
		c.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		c.LastName = *upd.LastName
	}
	if upd.Email != nil {
		c.Email = strings.ToLower(*upd.Email)
	}
	if upd.Phone != nil {
		c.Phone = *upd.Phone
	}
	if upd.CreditScore != nil {
		c.CreditScore = *upd.CreditScore
	}
	if upd.AnnualSalary != nil {
		c.AnnualSalary = *upd.AnnualSalary
	}

	c.Rescore()
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewHighValueOrUpdatedEvent(c))
	if c.CreditScore != previousScore {
		c.AddDomainEvent(NewCreditScoreUpdatedEvent(c, previousScore))
	}

	return nil
}

// MarkDeleted records the deletion event for the aggregate.
// The repository persists the event together with the row removal.
func (c *Customer) MarkDeleted() {
	c.AddDomainEvent(NewDeletedEvent(c.ID))
}

// Rescore recomputes the derived credit risk score from the current profile
func (c *Customer) Rescore() {
	c.CreditRiskScore = RiskScore(c.CreditScore, c.AnnualSalary)
}

// FullName returns the customer's display name
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// IsHighValue reports whether this profile qualifies for premium treatment
func (c *Customer) IsHighValue() bool {
	return IsHighValue(c.CreditScore, c.AnnualSalary)
}

func validateName(field, value string) error {
	if len(value) < 2 || len(value) > 50 {
		return shared.NewDomainError("INVALID_NAME", "Customer "+field+" must be between 2 and 50 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" || len(email) > 200 || !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Customer email is not a valid address")
	}
	return nil
}

func validatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	if !phonePattern.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Customer phone must be a valid E.164 number")
	}
	return nil
}

func validateCreditScore(score int) error {
	if score < MinCreditScore || score > MaxCreditScore {
		return shared.NewDomainError("INVALID_CREDIT_SCORE", "Credit score must be between 300 and 850")
	}
	return nil
}

func validateSalary(salary float64) error {
	if salary < 0 || salary > MaxAnnualSalary {
		return shared.NewDomainError("INVALID_SALARY", "Annual salary must be between 0 and 10000000")
	}
	return nil
}
