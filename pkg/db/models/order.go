package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/feastline/feastline-backend/pkg/enums"
)

// Order is the durable result of a checkout. Monetary fields are fixed at
// creation; only Status and DeliveryPartnerID mutate afterwards, and only
// through the transition table.
type Order struct {
	ID                uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID        uuid.UUID         `gorm:"column:customer_id;type:uuid;not null;index"`
	RestaurantID      uuid.UUID         `gorm:"column:restaurant_id;type:uuid;not null;index"`
	DeliveryPartnerID *uuid.UUID        `gorm:"column:delivery_partner_id;type:uuid"`
	Status            enums.OrderStatus `gorm:"column:status;type:text;not null;default:'placed'"`
	TotalAmount       decimal.Decimal   `gorm:"column:total_amount;type:numeric(10,2);not null"`
	DiscountAmount    decimal.Decimal   `gorm:"column:discount_amount;type:numeric(10,2);not null;default:0"`
	DeliveryFee       decimal.Decimal   `gorm:"column:delivery_fee;type:numeric(10,2);not null"`
	PlatformFee       decimal.Decimal   `gorm:"column:platform_fee;type:numeric(10,2);not null"`
	PaymentMode       enums.PaymentMode `gorm:"column:payment_mode;type:text;not null"`
	Items             []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
