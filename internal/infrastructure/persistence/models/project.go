package models

import (
	"time"

	"github.com/crm/backend/internal/domain/project"
)

// ProjectModel is the persistence model for the Project domain entity.
type ProjectModel struct {
	BaseModel
	Name        string  `gorm:"type:varchar(255);not null"`
	Description *string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ProjectModel) TableName() string {
	return "projects"
}

// ToDomain converts the persistence model to a domain Project entity.
// Customers are left nil.
func (m *ProjectModel) ToDomain() *project.Project {
	return &project.Project{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ProjectModelFromDomain creates a new persistence model from a domain Project entity.
func ProjectModelFromDomain(p *project.Project) *ProjectModel {
	return &ProjectModel{
		BaseModel: BaseModel{
			ID:        p.ID,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		},
		Name:        p.Name,
		Description: p.Description,
	}
}

// UpdateColumns returns the columns written when a project is updated.
func (m *ProjectModel) UpdateColumns(now time.Time) map[string]any {
	return map[string]any{
		"name":        m.Name,
		"description": m.Description,
		"updated_at":  now,
	}
}

// CustomerProjectModel is a row of the customer_projects join table.
// The composite primary key rules out duplicate pairs.
type CustomerProjectModel struct {
	CustomerID uint `gorm:"primaryKey;autoIncrement:false"`
	ProjectID  uint `gorm:"primaryKey;autoIncrement:false;index"`
}

// TableName returns the table name for GORM
func (CustomerProjectModel) TableName() string {
	return "customer_projects"
}

// JoinRows builds the join rows linking projectID to each customer.
func JoinRows(projectID uint, customerIDs []uint) []CustomerProjectModel {
	rows := make([]CustomerProjectModel, len(customerIDs))
	for i, id := range customerIDs {
		rows[i] = CustomerProjectModel{CustomerID: id, ProjectID: projectID}
	}
	return rows
}
