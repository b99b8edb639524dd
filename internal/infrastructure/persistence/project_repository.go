package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/project"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository implements ProjectRepository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id uint, includeCustomers bool) (*project.Project, error) {
	var model models.ProjectModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("find project %d: %w", id, err)
	}

	projects := []project.Project{*model.ToDomain()}
	if includeCustomers {
		if err := r.loadCustomers(ctx, projects); err != nil {
			return nil, err
		}
	}
	return &projects[0], nil
}

// FindAll finds all projects
func (r *GormProjectRepository) FindAll(ctx context.Context, includeCustomers bool) ([]project.Project, error) {
	var projectModels []models.ProjectModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&projectModels).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	projects := projectsToDomain(projectModels)
	if includeCustomers {
		if err := r.loadCustomers(ctx, projects); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

// FindByCustomerID finds the projects linked to a customer
func (r *GormProjectRepository) FindByCustomerID(ctx context.Context, customerID uint) ([]project.Project, error) {
	var projectModels []models.ProjectModel
	if err := r.db.WithContext(ctx).
		Select("projects.*").
		Joins("JOIN customer_projects ON customer_projects.project_id = projects.id").
		Where("customer_projects.customer_id = ?", customerID).
		Order("projects.id ASC").
		Find(&projectModels).Error; err != nil {
		return nil, fmt.Errorf("find projects of customer %d: %w", customerID, err)
	}
	return projectsToDomain(projectModels), nil
}

// CustomerIDs returns the IDs of the customers linked to a project
func (r *GormProjectRepository) CustomerIDs(ctx context.Context, projectID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.CustomerProjectModel{}).
		Where("project_id = ?", projectID).
		Order("customer_id ASC").
		Pluck("customer_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list customers of project %d: %w", projectID, err)
	}
	return ids, nil
}

// LoadCustomers returns the customers linked to a project
func (r *GormProjectRepository) LoadCustomers(ctx context.Context, projectID uint) ([]partner.Customer, error) {
	projects := []project.Project{{ID: projectID}}
	if err := r.loadCustomers(ctx, projects); err != nil {
		return nil, err
	}
	return projects[0].Customers, nil
}

// Create inserts the project and links it to customerIDs
func (r *GormProjectRepository) Create(ctx context.Context, p *project.Project, customerIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.ProjectModelFromDomain(p)
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		p.ID = model.ID
		p.CreatedAt = model.CreatedAt
		p.UpdatedAt = model.UpdatedAt

		return attachCustomers(tx, p.ID, customerIDs)
	})
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// Update writes the project's fields and, if plan is set, syncs its customers
func (r *GormProjectRepository) Update(ctx context.Context, p *project.Project, plan *project.CustomerSyncPlan) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		model := models.ProjectModelFromDomain(p)
		result := tx.Model(&models.ProjectModel{}).
			Where("id = ?", p.ID).
			Updates(model.UpdateColumns(now))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		p.UpdatedAt = now

		if plan == nil {
			return nil
		}
		if len(plan.Detach) > 0 {
			if err := tx.Where("project_id = ? AND customer_id IN ?", p.ID, plan.Detach).
				Delete(&models.CustomerProjectModel{}).Error; err != nil {
				return err
			}
		}
		return attachCustomers(tx, p.ID, plan.Attach)
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return err
		}
		return fmt.Errorf("update project %d: %w", p.ID, err)
	}
	return nil
}

// Delete unlinks every customer and removes the project
func (r *GormProjectRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.CustomerProjectModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.ProjectModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete project %d: %w", id, err)
	}
	return nil
}

// loadCustomers fills Customers on every project with one join query
func (r *GormProjectRepository) loadCustomers(ctx context.Context, projects []project.Project) error {
	if len(projects) == 0 {
		return nil
	}
	ids := lo.Map(projects, func(p project.Project, _ int) uint { return p.ID })

	type linkedCustomer struct {
		models.CustomerModel
		ProjectID uint
	}
	var rows []linkedCustomer
	if err := r.db.WithContext(ctx).
		Table("customers").
		Select("customers.*, customer_projects.project_id AS project_id").
		Joins("JOIN customer_projects ON customer_projects.customer_id = customers.id").
		Where("customer_projects.project_id IN ?", ids).
		Order("customers.id ASC").
		Scan(&rows).Error; err != nil {
		return fmt.Errorf("load project customers: %w", err)
	}

	byProject := lo.GroupBy(rows, func(row linkedCustomer) uint { return row.ProjectID })
	for i := range projects {
		projects[i].Customers = lo.Map(byProject[projects[i].ID], func(row linkedCustomer, _ int) partner.Customer {
			return *row.CustomerModel.ToDomain()
		})
	}
	return nil
}

// attachCustomers inserts join rows. Existing pairs are skipped.
func attachCustomers(tx *gorm.DB, projectID uint, customerIDs []uint) error {
	customerIDs = lo.Uniq(customerIDs)
	if len(customerIDs) == 0 {
		return nil
	}
	rows := models.JoinRows(projectID, customerIDs)
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func projectsToDomain(projectModels []models.ProjectModel) []project.Project {
	return lo.Map(projectModels, func(m models.ProjectModel, _ int) project.Project {
		return *m.ToDomain()
	})
}

// Ensure GormProjectRepository implements ProjectRepository
var _ project.ProjectRepository = (*GormProjectRepository)(nil)
