package models

import (
	"time"

	"github.com/crm/backend/internal/domain/partner"
)

// StatusModel is the persistence model for the statuses lookup table.
type StatusModel struct {
	BaseModel
	Name string `gorm:"type:varchar(50);not null"`
}

// TableName returns the table name for GORM
func (StatusModel) TableName() string {
	return "statuses"
}

// ToDomain converts the persistence model to a domain Status.
func (m *StatusModel) ToDomain() partner.Status {
	return partner.Status{ID: m.ID, Name: m.Name}
}

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);not null"`
	Email    string `gorm:"type:varchar(255);not null;uniqueIndex:idx_customers_email"`
	Company  string `gorm:"type:varchar(255);not null"`
	Contact  string `gorm:"type:varchar(255);not null"`
	Country  string `gorm:"type:varchar(255);not null"`
	StatusID uint   `gorm:"not null;default:1;index"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
// Addresses are left nil.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Company:   m.Company,
		Contact:   m.Contact,
		Country:   m.Country,
		StatusID:  m.StatusID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.ID = c.ID
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
	m.Name = c.Name
	m.Email = c.Email
	m.Company = c.Company
	m.Contact = c.Contact
	m.Country = c.Country
	m.StatusID = c.StatusID
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// UpdateColumns returns the columns written when a customer is updated.
func (m *CustomerModel) UpdateColumns(now time.Time) map[string]any {
	return map[string]any{
		"name":       m.Name,
		"email":      m.Email,
		"company":    m.Company,
		"contact":    m.Contact,
		"country":    m.Country,
		"status_id":  m.StatusID,
		"updated_at": now,
	}
}

// AddressModel is the persistence model for the Address domain entity.
type AddressModel struct {
	BaseModel
	CustomerID uint   `gorm:"not null;index"`
	No         string `gorm:"column:no;type:varchar(255);not null"`
	Street     string `gorm:"type:varchar(255);not null"`
	City       string `gorm:"type:varchar(255);not null"`
	State      string `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (AddressModel) TableName() string {
	return "addresses"
}

// ToDomain converts the persistence model to a domain Address entity.
func (m *AddressModel) ToDomain() partner.Address {
	return partner.Address{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		No:         m.No,
		Street:     m.Street,
		City:       m.City,
		State:      m.State,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// AddressModelFromDomain creates a new persistence model from a domain Address entity.
func AddressModelFromDomain(a *partner.Address) *AddressModel {
	return &AddressModel{
		BaseModel: BaseModel{
			ID:        a.ID,
			CreatedAt: a.CreatedAt,
			UpdatedAt: a.UpdatedAt,
		},
		CustomerID: a.CustomerID,
		No:         a.No,
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
	}
}

// UpdateColumns returns the columns written when an address is updated in place.
func (m *AddressModel) UpdateColumns(now time.Time) map[string]any {
	return map[string]any{
		"no":         m.No,
		"street":     m.Street,
		"city":       m.City,
		"state":      m.State,
		"updated_at": now,
	}
}
