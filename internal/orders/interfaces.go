package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/feastline/feastline-backend/internal/cart"
	"github.com/feastline/feastline-backend/internal/fees"
	"github.com/feastline/feastline-backend/internal/offers"
	"github.com/feastline/feastline-backend/pkg/db/models"
	"github.com/feastline/feastline-backend/pkg/enums"
	"github.com/feastline/feastline-backend/pkg/pagination"
)

// Repository defines persistence operations for orders. Status moves go
// through compare-and-set updates keyed on the expected current status, so
// concurrent transitions resolve to exactly one winner.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateItems(ctx context.Context, items []models.OrderItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Order, *pagination.Cursor, error)
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, status *enums.OrderStatus) ([]models.Order, error)
	ListByPartner(ctx context.Context, partnerID uuid.UUID, activeOnly bool) ([]models.Order, error)
	CountNonCancelledByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
	TransitionStatus(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus) (bool, error)
	ClaimForDelivery(ctx context.Context, orderID, partnerID uuid.UUID) (bool, error)
	AssignPartner(ctx context.Context, orderID, partnerID uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type checkoutCart interface {
	WithCheckout(ctx context.Context, customerID uuid.UUID, fn func(priced cart.PricedCart) error) error
	ReplaceLines(ctx context.Context, customerID, restaurantID uuid.UUID, lines []cart.Line) (*cart.PricedCart, error)
	Clear(ctx context.Context, customerID uuid.UUID) error
}

type offerApplier interface {
	Apply(ctx context.Context, customerID, restaurantID uuid.UUID, subtotal decimal.Decimal, requested *uuid.UUID) (offers.Applied, error)
}

type feeResolver interface {
	Resolve(ctx context.Context, restaurantID uuid.UUID) (fees.Schedule, error)
}

type partnerPool interface {
	Assign(ctx context.Context, tx *gorm.DB, restaurantID uuid.UUID) (*models.DeliveryPartner, error)
	Release(ctx context.Context, tx *gorm.DB, partnerID uuid.UUID) error
	PartnerByUser(ctx context.Context, userID uuid.UUID) (*models.DeliveryPartner, error)
}

type notifier interface {
	OnOrderPlaced(ctx context.Context, tx *gorm.DB, order *models.Order, restaurantOwnerID uuid.UUID) error
	OnStatusChanged(ctx context.Context, tx *gorm.DB, order *models.Order, from enums.OrderStatus) error
	OnPartnerAssigned(ctx context.Context, tx *gorm.DB, order *models.Order, partnerUserID uuid.UUID) error
}

type restaurantReader interface {
	FindRestaurantByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	FindRestaurantByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Restaurant, error)
	FindDishesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Dish, error)
}
