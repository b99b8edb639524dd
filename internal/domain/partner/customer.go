package partner

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
)

// Seeded status rows. Customers are always written with StatusActiveID.
const (
	StatusActiveID   uint = 1
	StatusInactiveID uint = 2
)

// Status is a lookup row referenced by customers
type Status struct {
	ID   uint
	Name string
}

// DefaultStatuses returns the rows the statuses table is seeded with
func DefaultStatuses() []Status {
	return []Status{
		{ID: StatusActiveID, Name: "Active"},
		{ID: StatusInactiveID, Name: "Inactive"},
	}
}

// Customer is a plain customer record. Addresses is only populated when the
// caller asked for it.
type Customer struct {
	ID        uint
	Name      string
	Email     string
	Company   string
	Contact   string
	Country   string
	StatusID  uint
	CreatedAt time.Time
	UpdatedAt time.Time
	Addresses []Address
}

// CustomerInput holds the writable customer fields plus the submitted address list
type CustomerInput struct {
	Name      string
	Email     string
	Company   string
	Contact   string
	Country   string
	Addresses []AddressInput
}

// Normalize trims surrounding whitespace from every field
func (in CustomerInput) Normalize() CustomerInput {
	out := CustomerInput{
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Company:   strings.TrimSpace(in.Company),
		Contact:   strings.TrimSpace(in.Contact),
		Country:   strings.TrimSpace(in.Country),
		Addresses: make([]AddressInput, len(in.Addresses)),
	}
	for i, a := range in.Addresses {
		out.Addresses[i] = a.Normalize()
	}
	return out
}

// Validate checks field presence and email format. Storage-backed rules
// (email uniqueness/existence) are checked by the application service.
func (in CustomerInput) Validate() *shared.ValidationError {
	verr := shared.NewValidationError()

	requireField(verr, "name", in.Name)
	requireField(verr, "email", in.Email)
	requireField(verr, "company", in.Company)
	requireField(verr, "contact", in.Contact)
	requireField(verr, "country", in.Country)

	if in.Email != "" {
		if err := validateEmail(in.Email); err != nil {
			verr.Add("email", err.Error())
		}
	}

	if len(in.Addresses) == 0 {
		verr.Add("addresses", "The addresses must have at least 1 items.")
	}
	for i, a := range in.Addresses {
		verr.Merge(a.validate(fmt.Sprintf("addresses.%d", i)))
	}

	return verr
}

// NewCustomer creates an active customer with its addresses from a validated input
func NewCustomer(in CustomerInput) (*Customer, error) {
	in = in.Normalize()
	if verr := in.Validate(); verr.HasErrors() {
		return nil, verr
	}

	c := &Customer{
		Name:     in.Name,
		Email:    in.Email,
		Company:  in.Company,
		Contact:  in.Contact,
		Country:  in.Country,
		StatusID: StatusActiveID,
	}
	c.Addresses = make([]Address, len(in.Addresses))
	for i, a := range in.Addresses {
		c.Addresses[i] = a.toAddress(0)
	}
	return c, nil
}

// UpdateDetails replaces the customer's scalar fields and resets the status to
// Active. Addresses are reconciled separately.
func (c *Customer) UpdateDetails(in CustomerInput) error {
	in = in.Normalize()
	if verr := in.Validate(); verr.HasErrors() {
		return verr
	}

	c.Name = in.Name
	c.Email = in.Email
	c.Company = in.Company
	c.Contact = in.Contact
	c.Country = in.Country
	c.StatusID = StatusActiveID
	c.UpdatedAt = time.Now()
	return nil
}

// Validation functions

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if len(email) > 255 {
		return shared.NewDomainError("INVALID_EMAIL", "The email may not be greater than 255 characters.")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "The email must be a valid email address.")
	}
	return nil
}

func requireField(verr *shared.ValidationError, field, value string) {
	if value == "" {
		verr.Add(field, RequiredMessage(field))
	}
}

// RequiredMessage returns the message used for a missing field
func RequiredMessage(field string) string {
	return fmt.Sprintf("The %s field is required.", field)
}
