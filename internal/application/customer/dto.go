package customer

import (
	"time"

	"github.com/creditcore/backend/internal/domain/customer"
	"github.com/google/uuid"
)

// CreateCustomerRequest represents a request to register a new customer profile
type CreateCustomerRequest struct {
	FirstName    string  `json:"firstName" binding:"required,min=2,max=50"`
	LastName     string  `json:"lastName" binding:"required,min=2,max=50"`
	Email        string  `json:"email" binding:"required,email,max=200"`
	Phone        string  `json:"phone" binding:"omitempty,e164"`
	CreditScore  int     `json:"creditScore" binding:"required,min=300,max=850"`
	AnnualSalary float64 `json:"annualSalary" binding:"min=0,max=10000000"`
}

// UpdateCustomerRequest represents a partial update to a customer profile.
// Absent fields leave the stored values untouched.
type UpdateCustomerRequest struct {
	FirstName    *string  `json:"firstName" binding:"omitempty,min=2,max=50"`
	LastName     *string  `json:"lastName" binding:"omitempty,min=2,max=50"`
	Email        *string  `json:"email" binding:"omitempty,email,max=200"`
	Phone        *string  `json:"phone" binding:"omitempty,e164"`
	CreditScore  *int     `json:"creditScore" binding:"omitempty,min=300,max=850"`
	AnnualSalary *float64 `json:"annualSalary" binding:"omitempty,min=0,max=10000000"`
}

// CustomerListFilter represents the optional search criteria for customer lists
type CustomerListFilter struct {
	FirstName      string   `form:"firstName"`
	LastName       string   `form:"lastName"`
	MinCreditScore *int     `form:"minCreditScore" binding:"omitempty,min=300,max=850"`
	MaxCreditScore *int     `form:"maxCreditScore" binding:"omitempty,min=300,max=850"`
	MinSalary      *float64 `form:"minSalary" binding:"omitempty,min=0"`
	MaxSalary      *float64 `form:"maxSalary" binding:"omitempty,min=0"`
	Page           int      `form:"page"`
	PageSize       int      `form:"page_size"`
	OrderBy        string   `form:"order_by"`
	OrderDir       string   `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToCriteria converts the HTTP filter into domain search criteria
func (f CustomerListFilter) ToCriteria() customer.FilterCriteria {
	criteria := customer.FilterCriteria{
		MinCreditScore: f.MinCreditScore,
		MaxCreditScore: f.MaxCreditScore,
		MinSalary:      f.MinSalary,
		MaxSalary:      f.MaxSalary,
	}
	if f.FirstName != "" {
		v := f.FirstName
		criteria.FirstNameContains = &v
	}
	if f.LastName != "" {
		v := f.LastName
		criteria.LastNameContains = &v
	}
	return criteria
}

// CustomerResponse represents a customer profile in API responses
type CustomerResponse struct {
	ID              uuid.UUID `json:"id"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	CreditScore     int       `json:"creditScore"`
	AnnualSalary    float64   `json:"annualSalary"`
	CreditRiskScore float64   `json:"creditRiskScore"`
	FullName        string    `json:"fullName"`
	CreditRating    string    `json:"creditRating"`
	IsHighValue     bool      `json:"isHighValue"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Version         int       `json:"version"`
}

// ToCustomerResponse projects a customer aggregate into its API view
func ToCustomerResponse(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:              c.ID,
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		Email:           c.Email,
		Phone:           c.Phone,
		CreditScore:     c.CreditScore,
		AnnualSalary:    c.AnnualSalary,
		CreditRiskScore: c.CreditRiskScore,
		FullName:        c.FullName(),
		CreditRating:    customer.CreditRating(c.CreditScore),
		IsHighValue:     c.IsHighValue(),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		Version:         c.Version,
	}
}

// ToCustomerResponses projects a slice of aggregates into API views
func ToCustomerResponses(customers []customer.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses
}
