package models

import (
	"github.com/creditcore/backend/internal/domain/verification"
	"github.com/shopspring/decimal"
)

// SalaryCertificateModel is the persistence model for salary certificates
type SalaryCertificateModel struct {
	BaseModel
	NationalID                   string          `gorm:"type:varchar(20);not null;index:idx_salary_certificates_national_id"`
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
	ArchiveKey                   string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (SalaryCertificateModel) TableName() string {
	return "salary_certificates"
}

// ToDomain converts the persistence model to a domain SalaryCertificate
func (m *SalaryCertificateModel) ToDomain() *verification.SalaryCertificate {
	return &verification.SalaryCertificate{
		BaseEntity:                   m.BaseModel.ToDomain(),
		NationalID:                   m.NationalID,
		FullName:                     m.FullName,
		BasicWage:                    m.BasicWage,
		HousingAllowance:             m.HousingAllowance,
		OtherAllowance:               m.OtherAllowance,
		FullWage:                     m.FullWage,
		EmployerName:                 m.EmployerName,
		DateOfJoining:                m.DateOfJoining,
		WorkingMonths:                m.WorkingMonths,
		EmploymentStatus:             m.EmploymentStatus,
		SalaryStartingDate:           m.SalaryStartingDate,
		EstablishmentActivity:        m.EstablishmentActivity,
		CommercialRegistrationNumber: m.CommercialRegistrationNumber,
		LegalEntity:                  m.LegalEntity,
		DateOfBirth:                  m.DateOfBirth,
		Nationality:                  m.Nationality,
		GOSINumber:                   m.GOSINumber,
		ArchiveKey:                   m.ArchiveKey,
	}
}

// FromDomain populates the persistence model from a domain SalaryCertificate
func (m *SalaryCertificateModel) FromDomain(c *verification.SalaryCertificate) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.NationalID = c.NationalID
	m.FullName = c.FullName
	m.BasicWage = c.BasicWage
	m.HousingAllowance = c.HousingAllowance
	m.OtherAllowance = c.OtherAllowance
	m.FullWage = c.FullWage
	m.EmployerName = c.EmployerName
	m.DateOfJoining = c.DateOfJoining
	m.WorkingMonths = c.WorkingMonths
	m.EmploymentStatus = c.EmploymentStatus
	m.SalaryStartingDate = c.SalaryStartingDate
	m.EstablishmentActivity = c.EstablishmentActivity
	m.CommercialRegistrationNumber = c.CommercialRegistrationNumber
	m.LegalEntity = c.LegalEntity
	m.DateOfBirth = c.DateOfBirth
	m.Nationality = c.Nationality
	m.GOSINumber = c.GOSINumber
	m.ArchiveKey = c.ArchiveKey
}

// SalaryCertificateModelFromDomain creates a new persistence model from a domain SalaryCertificate
func SalaryCertificateModelFromDomain(c *verification.SalaryCertificate) *SalaryCertificateModel {
	m := &SalaryCertificateModel{}
	m.FromDomain(c)
	return m
}
