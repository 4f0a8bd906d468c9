package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/feastline/feastline-backend/pkg/enums"
)

// Restaurant is a vendor storefront. LocalityCode scopes delivery matching.
type Restaurant struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string                 `gorm:"column:name;type:text;not null"`
	OwnerID         uuid.UUID              `gorm:"column:owner_id;type:uuid;not null"`
	LocalityCode    string                 `gorm:"column:locality_code;type:text;not null;index"`
	Status          enums.RestaurantStatus `gorm:"column:status;type:text;not null;default:'active'"`
	OrderingEnabled bool                   `gorm:"column:ordering_enabled;not null;default:true"`
	Dishes          []Dish                 `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// AcceptsOrders reports whether the restaurant can take new carts or checkouts.
func (r Restaurant) AcceptsOrders() bool {
	return r.Status == enums.RestaurantStatusActive && r.OrderingEnabled
}
