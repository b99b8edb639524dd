package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uint, includeAddresses bool) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("find customer %d: %w", id, err)
	}

	customers := []partner.Customer{*model.ToDomain()}
	if includeAddresses {
		if err := loadAddresses(ctx, r.db, customers); err != nil {
			return nil, err
		}
	}
	return &customers[0], nil
}

// FindAll finds all customers
func (r *GormCustomerRepository) FindAll(ctx context.Context, includeAddresses bool) ([]partner.Customer, error) {
	return r.Search(ctx, "", includeAddresses)
}

// Search finds customers whose name or email contains query
func (r *GormCustomerRepository) Search(ctx context.Context, query string, includeAddresses bool) ([]partner.Customer, error) {
	q := r.db.WithContext(ctx).Model(&models.CustomerModel{})
	if query != "" {
		pattern := "%" + query + "%"
		q = q.Where("name LIKE ? OR email LIKE ?", pattern, pattern)
	}

	var customerModels []models.CustomerModel
	if err := q.Order("id ASC").Find(&customerModels).Error; err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	customers := customersToDomain(customerModels)
	if includeAddresses {
		if err := loadAddresses(ctx, r.db, customers); err != nil {
			return nil, err
		}
	}
	return customers, nil
}

// FindByIDs finds the customers among ids that exist
func (r *GormCustomerRepository) FindByIDs(ctx context.Context, ids []uint) ([]partner.Customer, error) {
	if len(ids) == 0 {
		return []partner.Customer{}, nil
	}

	var customerModels []models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", lo.Uniq(ids)).
		Order("id ASC").
		Find(&customerModels).Error; err != nil {
		return nil, fmt.Errorf("find customers by ids: %w", err)
	}
	return customersToDomain(customerModels), nil
}

// ExistsByEmail checks if any customer uses the email
func (r *GormCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CustomerModel{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check customer email: %w", err)
	}
	return count > 0, nil
}

// Create inserts the customer and its addresses. IDs and timestamps are
// written back onto customer.
func (r *GormCustomerRepository) Create(ctx context.Context, customer *partner.Customer) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.CustomerModelFromDomain(customer)
		if err := tx.Create(model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.ErrAlreadyExists
			}
			return err
		}
		customer.ID = model.ID
		customer.CreatedAt = model.CreatedAt
		customer.UpdatedAt = model.UpdatedAt

		for i := range customer.Addresses {
			customer.Addresses[i].CustomerID = customer.ID
		}
		return insertAddresses(tx, customer.Addresses)
	})
	if err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return err
		}
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

// Update writes the customer's fields and applies the address plan
func (r *GormCustomerRepository) Update(ctx context.Context, customer *partner.Customer, plan partner.AddressPlan) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		model := models.CustomerModelFromDomain(customer)
		result := tx.Model(&models.CustomerModel{}).
			Where("id = ?", customer.ID).
			Updates(model.UpdateColumns(now))
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
				return shared.ErrAlreadyExists
			}
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		customer.UpdatedAt = now

		for i := range plan.Updates {
			addr := models.AddressModelFromDomain(&plan.Updates[i])
			if err := tx.Model(&models.AddressModel{}).
				Where("id = ? AND customer_id = ?", addr.ID, customer.ID).
				Updates(addr.UpdateColumns(now)).Error; err != nil {
				return err
			}
		}

		creates := make([]partner.Address, len(plan.Creates))
		for i, a := range plan.Creates {
			a.CustomerID = customer.ID
			creates[i] = a
		}
		if err := insertAddresses(tx, creates); err != nil {
			return err
		}

		if len(plan.Deletes) > 0 {
			if err := tx.Where("customer_id = ? AND id IN ?", customer.ID, plan.Deletes).
				Delete(&models.AddressModel{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) || errors.Is(err, shared.ErrAlreadyExists) {
			return err
		}
		return fmt.Errorf("update customer %d: %w", customer.ID, err)
	}
	return nil
}

// Delete removes the customer's addresses, its project links and the customer
func (r *GormCustomerRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", id).Delete(&models.AddressModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", id).Delete(&models.CustomerProjectModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.CustomerModel{})
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
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	return nil
}

func customersToDomain(customerModels []models.CustomerModel) []partner.Customer {
	return lo.Map(customerModels, func(m models.CustomerModel, _ int) partner.Customer {
		return *m.ToDomain()
	})
}

// loadAddresses fills Addresses on every customer with a single query.
// Customers without addresses get an empty, non-nil slice.
func loadAddresses(ctx context.Context, db *gorm.DB, customers []partner.Customer) error {
	if len(customers) == 0 {
		return nil
	}
	ids := lo.Map(customers, func(c partner.Customer, _ int) uint { return c.ID })

	var addressModels []models.AddressModel
	if err := db.WithContext(ctx).
		Where("customer_id IN ?", ids).
		Order("id ASC").
		Find(&addressModels).Error; err != nil {
		return fmt.Errorf("load addresses: %w", err)
	}

	byCustomer := lo.GroupBy(addressModels, func(m models.AddressModel) uint { return m.CustomerID })
	for i := range customers {
		customers[i].Addresses = lo.Map(byCustomer[customers[i].ID], func(m models.AddressModel, _ int) partner.Address {
			return m.ToDomain()
		})
	}
	return nil
}

// insertAddresses inserts the addresses and writes the generated IDs back
func insertAddresses(tx *gorm.DB, addresses []partner.Address) error {
	if len(addresses) == 0 {
		return nil
	}
	rows := lo.Map(addresses, func(a partner.Address, _ int) *models.AddressModel {
		return models.AddressModelFromDomain(&a)
	})
	if err := tx.Create(&rows).Error; err != nil {
		return err
	}
	for i, row := range rows {
		addresses[i].ID = row.ID
		addresses[i].CreatedAt = row.CreatedAt
		addresses[i].UpdatedAt = row.UpdatedAt
	}
	return nil
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
