package verification

import (
	"github.com/creditcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EmploymentInfo is the employment record returned by the salary
// certificate provider. Wages arrive as strings on the wire.
type EmploymentInfo struct {
	FullName                     string
	BasicWage                    string
	HousingAllowance             string
	OtherAllowance               string
	FullWage                     string
	EmployerName                 string
	DateOfJoining                string
	WorkingMonths                string
	EmploymentStatus             string
	SalaryStartingDate           string
	EstablishmentActivity        string
	CommercialRegistrationNumber string
	LegalEntity                  string
	DateOfBirth                  string
	Nationality                  string
	GOSINumber                   string
}

// SalaryCertificate is a verified employment and wage record
// retrieved from the external salary certificate provider
type SalaryCertificate struct {
	shared.BaseEntity
	NationalID                   string          `gorm:"type:varchar(20);not null;index"`
	FullName                     string          `gorm:"type:varchar(200)"`
	BasicWage                    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	HousingAllowance             decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OtherAllowance               decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	FullWage                     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	EmployerName                 string          `gorm:"type:varchar(200)"`
	DateOfJoining                string          `gorm:"type:varchar(50)"`
	WorkingMonths                string          `gorm:"type:varchar(20)"`
	EmploymentStatus             string          `gorm:"type:varchar(50)"`
	SalaryStartingDate           string          `gorm:"type:varchar(50)"`
	EstablishmentActivity        string          `gorm:"type:varchar(200)"`
	CommercialRegistrationNumber string          `gorm:"type:varchar(50)"`
	LegalEntity                  string          `gorm:"type:varchar(100)"`
	DateOfBirth                  string          `gorm:"type:varchar(50)"`
	Nationality                  string          `gorm:"type:varchar(100)"`
	GOSINumber                   string          `gorm:"type:varchar(50)"`
	ArchiveKey                   string          `gorm:"type:varchar(500)"` // object key of the archived raw response
}

// TableName returns the table name for GORM
func (SalaryCertificate) TableName() string {
	return "salary_certificates"
}

// NewSalaryCertificate builds a certificate from a provider employment record.
// Wage strings that fail to parse are stored as zero; the provider feed is
// not under our control and a single bad field must not lose the record.
func NewSalaryCertificate(nationalID string, info EmploymentInfo) *SalaryCertificate {
	return &SalaryCertificate{
		BaseEntity:                   shared.NewBaseEntity(),
		NationalID:                   nationalID,
		FullName:                     info.FullName,
		BasicWage:                    parseWage(info.BasicWage),
		HousingAllowance:             parseWage(info.HousingAllowance),
		OtherAllowance:               parseWage(info.OtherAllowance),
		FullWage:                     parseWage(info.FullWage),
		EmployerName:                 info.EmployerName,
		DateOfJoining:                info.DateOfJoining,
		WorkingMonths:                info.WorkingMonths,
		EmploymentStatus:             info.EmploymentStatus,
		SalaryStartingDate:           info.SalaryStartingDate,
		EstablishmentActivity:        info.EstablishmentActivity,
		CommercialRegistrationNumber: info.CommercialRegistrationNumber,
		LegalEntity:                  info.LegalEntity,
		DateOfBirth:                  info.DateOfBirth,
		Nationality:                  info.Nationality,
		GOSINumber:                   info.GOSINumber,
	}
}

// TotalAllowances returns the sum of the non-basic wage components
func (c *SalaryCertificate) TotalAllowances() decimal.Decimal {
	return c.HousingAllowance.Add(c.OtherAllowance)
}

// AnnualWage returns the full monthly wage extrapolated to a year
func (c *SalaryCertificate) AnnualWage() decimal.Decimal {
	return c.FullWage.Mul(decimal.NewFromInt(12))
}

func parseWage(raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}
