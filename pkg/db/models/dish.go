package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Dish is a menu entry. Price here is the live price; placed orders keep
// their own snapshot and are never affected by later edits.
type Dish struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID uuid.UUID       `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Name         string          `gorm:"column:name;type:text;not null"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	PhotoPath    *string         `gorm:"column:photo_path;type:text"`
	Available    bool            `gorm:"column:available;not null;default:true"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
