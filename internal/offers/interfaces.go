package offers

import (
	"context"

	"github.com/feastline/feastline-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for offers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Offer, error)
	ListActiveForRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.Offer, error)
	Create(ctx context.Context, offer *models.Offer) (*models.Offer, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

// orderCounter reports how many non-cancelled orders a customer has placed.
// Satisfied by the orders repository.
type orderCounter interface {
	CountNonCancelledByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
}
