package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fee configures delivery and platform fees. A nil RestaurantID is the
// platform-wide fallback row.
type Fee struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID *uuid.UUID      `gorm:"column:restaurant_id;type:uuid;index"`
	DeliveryFee  decimal.Decimal `gorm:"column:delivery_fee;type:numeric(10,2);not null"`
	PlatformFee  decimal.Decimal `gorm:"column:platform_fee;type:numeric(10,2);not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}
