package persistence

import (
	"context"
	"fmt"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AutoMigrate creates the schema from the persistence models. It is used for
// the sqlite driver and in tests; postgres deployments run the SQL migrations.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.StatusModel{},
		&models.CustomerModel{},
		&models.AddressModel{},
		&models.ProjectModel{},
		&models.CustomerProjectModel{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// SeedStatuses inserts the Active and Inactive rows if they are missing
func SeedStatuses(ctx context.Context, db *gorm.DB) error {
	statuses := partner.DefaultStatuses()
	rows := make([]models.StatusModel, len(statuses))
	for i, s := range statuses {
		rows[i] = models.StatusModel{BaseModel: models.BaseModel{ID: s.ID}, Name: s.Name}
	}

	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error; err != nil {
		return fmt.Errorf("seed statuses: %w", err)
	}
	return nil
}

// RowCounters returns one count function per CRM table, for scrape-time gauges
func RowCounters(db *gorm.DB) map[string]func() (int64, error) {
	count := func(model any) func() (int64, error) {
		return func() (int64, error) {
			var n int64
			err := db.Model(model).Count(&n).Error
			return n, err
		}
	}
	return map[string]func() (int64, error){
		"customers":         count(&models.CustomerModel{}),
		"addresses":         count(&models.AddressModel{}),
		"projects":          count(&models.ProjectModel{}),
		"customer_projects": count(&models.CustomerProjectModel{}),
	}
}
