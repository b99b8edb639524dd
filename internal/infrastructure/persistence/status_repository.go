package persistence

import (
	"context"
	"fmt"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// GormStatusRepository reads the statuses table
type GormStatusRepository struct {
	db *gorm.DB
}

// NewGormStatusRepository creates a new GormStatusRepository
func NewGormStatusRepository(db *gorm.DB) *GormStatusRepository {
	return &GormStatusRepository{db: db}
}

// FindAll returns every status ordered by ID
func (r *GormStatusRepository) FindAll(ctx context.Context) ([]partner.Status, error) {
	var statusModels []models.StatusModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&statusModels).Error; err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	return lo.Map(statusModels, func(m models.StatusModel, _ int) partner.Status {
		return m.ToDomain()
	}), nil
}

var _ partner.StatusRepository = (*GormStatusRepository)(nil)
