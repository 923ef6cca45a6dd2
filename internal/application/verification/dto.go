package verification

import (
	"time"

	"github.com/creditcore/backend/internal/domain/verification"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VerifyRequest represents a salary certificate enquiry.
// Both fields are optional; the provider sandbox profile is used when absent.
type VerifyRequest struct {
	NationalID  string `json:"nationalId" binding:"omitempty,numeric,max=20"`
	DateOfBirth string `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
}

// CertificateResponse represents a stored salary certificate in API responses
type CertificateResponse struct {
	ID                 uuid.UUID       `json:"id"`
	NationalID         string          `json:"nationalId"`
	FullName           string          `json:"fullName"`
	BasicWage          decimal.Decimal `json:"basicWage"`
	HousingAllowance   decimal.Decimal `json:"housingAllowance"`
	OtherAllowance     decimal.Decimal `json:"otherAllowance"`
	FullWage           decimal.Decimal `json:"fullWage"`
	AnnualWage         decimal.Decimal `json:"annualWage"`
	EmployerName       string          `json:"employerName"`
	DateOfJoining      string          `json:"dateOfJoining,omitempty"`
	WorkingMonths      string          `json:"workingMonths,omitempty"`
	EmploymentStatus   string          `json:"employmentStatus,omitempty"`
	SalaryStartingDate string          `json:"salaryStartingDate,omitempty"`
	Nationality        string          `json:"nationality,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// VerifyResponse is the result of a salary certificate enquiry
type VerifyResponse struct {
	Success     bool                 `json:"success"`
	Message     string               `json:"message,omitempty"`
	Certificate *CertificateResponse `json:"certificate,omitempty"`
}

// ToCertificateResponse projects a certificate entity into its API view
func ToCertificateResponse(c *verification.SalaryCertificate) CertificateResponse {
	return CertificateResponse{
		ID:                 c.ID,
		NationalID:         c.NationalID,
		FullName:           c.FullName,
		BasicWage:          c.BasicWage,
		HousingAllowance:   c.HousingAllowance,
		OtherAllowance:     c.OtherAllowance,
		FullWage:           c.FullWage,
		AnnualWage:         c.AnnualWage(),
		EmployerName:       c.EmployerName,
		DateOfJoining:      c.DateOfJoining,
		WorkingMonths:      c.WorkingMonths,
		EmploymentStatus:   c.EmploymentStatus,
		SalaryStartingDate: c.SalaryStartingDate,
		Nationality:        c.Nationality,
		CreatedAt:          c.CreatedAt,
	}
}
