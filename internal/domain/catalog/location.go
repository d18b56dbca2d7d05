package catalog

import (
	"time"

	"github.com/craftstock/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Location represents a physical stock location (warehouse, production floor,
// 3PL). Finished-goods output requires a resolvable active location.
type Location struct {
	shared.TenantAggregateRoot
	Code      string `gorm:"type:varchar(64);not null;uniqueIndex:idx_location_tenant_code,priority:2"`
	Name      string `gorm:"type:varchar(255);not null"`
	IsDefault bool   `gorm:"not null;default:false"`
	IsActive  bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "locations"
}

// NewLocation creates a new location for a tenant
func NewLocation(tenantID uuid.UUID, code, name string) (*Location, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Location code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Location name cannot be empty")
	}
	return &Location{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
		IsActive:            true,
	}, nil
}

// Deactivate marks the location as unusable for new stock movements
func (l *Location) Deactivate() {
	l.IsActive = false
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// MarkDefault flags this location as the tenant default
func (l *Location) MarkDefault() {
	l.IsDefault = true
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}
