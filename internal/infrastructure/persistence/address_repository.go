package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// GormAddressRepository implements AddressRepository using GORM
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// FindByID finds an address by ID
func (r *GormAddressRepository) FindByID(ctx context.Context, id uint) (*partner.Address, error) {
	var model models.AddressModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("find address %d: %w", id, err)
	}
	addr := model.ToDomain()
	return &addr, nil
}

// FindByCustomerID finds all addresses of a customer
func (r *GormAddressRepository) FindByCustomerID(ctx context.Context, customerID uint) ([]partner.Address, error) {
	var addressModels []models.AddressModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id ASC").
		Find(&addressModels).Error; err != nil {
		return nil, fmt.Errorf("find addresses of customer %d: %w", customerID, err)
	}
	return lo.Map(addressModels, func(m models.AddressModel, _ int) partner.Address {
		return m.ToDomain()
	}), nil
}

// Delete deletes an address by ID
func (r *GormAddressRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.AddressModel{})
	if result.Error != nil {
		return fmt.Errorf("delete address %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormAddressRepository implements AddressRepository
var _ partner.AddressRepository = (*GormAddressRepository)(nil)
