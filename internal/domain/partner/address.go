package partner

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
)

// Address belongs to exactly one customer
type Address struct {
	ID         uint
	CustomerID uint
	No         string
	Street     string
	City       string
	State      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AddressInput is a submitted address. ID is set when the client refers to an
// existing address.
type AddressInput struct {
	ID     *uint
	No     string
	Street string
	City   string
	State  string
}

// Normalize trims surrounding whitespace from every field
func (in AddressInput) Normalize() AddressInput {
	return AddressInput{
		ID:     in.ID,
		No:     strings.TrimSpace(in.No),
		Street: strings.TrimSpace(in.Street),
		City:   strings.TrimSpace(in.City),
		State:  strings.TrimSpace(in.State),
	}
}

func (in AddressInput) validate(prefix string) *shared.ValidationError {
	verr := shared.NewValidationError()
	requireField(verr, prefix+".no", in.No)
	requireField(verr, prefix+".street", in.Street)
	requireField(verr, prefix+".city", in.City)
	requireField(verr, prefix+".state", in.State)
	return verr
}

func (in AddressInput) toAddress(customerID uint) Address {
	return Address{
		CustomerID: customerID,
		No:         in.No,
		Street:     in.Street,
		City:       in.City,
		State:      in.State,
	}
}
