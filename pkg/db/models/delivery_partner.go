package models

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryPartner is the per-user availability record mutated exclusively by
// the assignment service. Exactly one row exists per delivery-capable user.
type DeliveryPartner struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;uniqueIndex;not null"`
	Available    bool      `gorm:"column:available;not null;default:true"`
	LocalityCode string    `gorm:"column:locality_code;type:text;not null;index"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
