// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Models carry no association fields. Relations (customer addresses, the
// customer_projects join) are loaded and written explicitly by the repositories.
//
// Structure:
// - base.go: BaseModel (ID and timestamps)
// - partner.go: Status, Customer and Address models
// - project.go: Project and CustomerProject (join row) models
package models
