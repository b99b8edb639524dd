package project

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/shared"
)

// MaxNameLength is the longest accepted project name, in characters
const MaxNameLength = 255

// Project groups customers. Customers is only populated when the caller asked
// for it.
type Project struct {
	ID          uint
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Customers   []partner.Customer
}

// NewProject creates a project after validating its fields
func NewProject(name string, description *string) (*Project, error) {
	p := &Project{}
	if err := p.Rename(name); err != nil {
		return nil, err
	}
	p.Describe(description)
	return p, nil
}

// Rename replaces the name
func (p *Project) Rename(name string) error {
	name = strings.TrimSpace(name)
	if verr := validateName(name); verr.HasErrors() {
		return verr
	}
	p.Name = name
	p.UpdatedAt = time.Now()
	return nil
}

// Describe replaces the description. nil or blank clears it.
func (p *Project) Describe(description *string) {
	p.Description = normalizeDescription(description)
	p.UpdatedAt = time.Now()
}

// CustomerIDs returns the IDs of the loaded customers
func (p *Project) CustomerIDs() []uint {
	ids := make([]uint, len(p.Customers))
	for i, c := range p.Customers {
		ids[i] = c.ID
	}
	return ids
}

func validateName(name string) *shared.ValidationError {
	verr := shared.NewValidationError()
	if name == "" {
		verr.Add("name", partner.RequiredMessage("name"))
	} else if utf8.RuneCountInString(name) > MaxNameLength {
		verr.Add("name", "The name may not be greater than 255 characters.")
	}
	return verr
}

// An empty description is stored as NULL.
func normalizeDescription(description *string) *string {
	if description == nil {
		return nil
	}
	d := strings.TrimSpace(*description)
	if d == "" {
		return nil
	}
	return &d
}
