package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/feastline/feastline-backend/pkg/enums"
)

// Complaint is a support record keyed by order. The engine only reacts to
// resolution; support staff own the rest of its lifecycle.
type Complaint struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID         uuid.UUID             `gorm:"column:order_id;type:uuid;not null;index"`
	CustomerID      uuid.UUID             `gorm:"column:customer_id;type:uuid;not null;index"`
	Description     string                `gorm:"column:description;type:text;not null"`
	Status          enums.ComplaintStatus `gorm:"column:status;type:text;not null;default:'open'"`
	ResolutionNotes *string               `gorm:"column:resolution_notes;type:text"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	ResolvedAt      *time.Time            `gorm:"column:resolved_at"`
}
