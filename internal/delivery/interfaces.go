package delivery

import (
	"context"

	"github.com/feastline/feastline-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for delivery partners. Claim
// methods are compare-and-set updates so two concurrent claimants can never
// hold the same partner.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.DeliveryPartner, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.DeliveryPartner, error)
	ListAvailableByLocality(ctx context.Context, localityCode string) ([]models.DeliveryPartner, error)
	ClaimPartner(ctx context.Context, partnerID uuid.UUID) (bool, error)
	ClaimPartnerByUser(ctx context.Context, userID uuid.UUID) (bool, error)
	Release(ctx context.Context, partnerID uuid.UUID) error
	SetAvailability(ctx context.Context, userID uuid.UUID, available bool) error
}

// restaurantLocator resolves the locality a restaurant delivers from.
// Satisfied by the catalog repository.
type restaurantLocator interface {
	FindRestaurantByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
}
