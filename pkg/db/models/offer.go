package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Offer is a read-only discount input to the engine. A nil RestaurantID means
// the offer is platform-wide, the fallback tier behind restaurant offers.
type Offer struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID       *uuid.UUID      `gorm:"column:restaurant_id;type:uuid;index"`
	DiscountPercentage decimal.Decimal `gorm:"column:discount_percentage;type:numeric(5,2);not null"`
	MinOrderValue      decimal.Decimal `gorm:"column:min_order_value;type:numeric(10,2);not null"`
	FirstTimeUserOnly  bool            `gorm:"column:first_time_user_only;not null;default:false"`
	Active             bool            `gorm:"column:active;not null;default:true"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// IsPlatformWide reports whether the offer applies across all restaurants.
func (o Offer) IsPlatformWide() bool {
	return o.RestaurantID == nil
}
