package models

import (
	"github.com/creditcore/backend/internal/domain/customer"
	"github.com/creditcore/backend/internal/domain/shared"
)

// CustomerModel is the persistence model for customer profiles
type CustomerModel struct {
	AggregateModel
	FirstName       string  `gorm:"type:varchar(50);not null"`
	LastName        string  `gorm:"type:varchar(50);not null"`
	Email           string  `gorm:"type:varchar(200);not null;uniqueIndex:idx_customers_email"`
	Phone           string  `gorm:"type:varchar(20)"`
	CreditScore     int     `gorm:"not null"`
	AnnualSalary    float64 `gorm:"not null"`
	CreditRiskScore float64 `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer aggregate
func (m *CustomerModel) ToDomain() *customer.Customer {
	return &customer.Customer{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		Email:           m.Email,
		Phone:           m.Phone,
		CreditScore:     m.CreditScore,
		AnnualSalary:    m.AnnualSalary,
		CreditRiskScore: m.CreditRiskScore,
	}
}

// FromDomain populates the persistence model from a domain Customer
func (m *CustomerModel) FromDomain(c *customer.Customer) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.Email = c.Email
	m.Phone = c.Phone
	m.CreditScore = c.CreditScore
	m.AnnualSalary = c.AnnualSalary
	m.CreditRiskScore = c.CreditRiskScore
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer
func CustomerModelFromDomain(c *customer.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
