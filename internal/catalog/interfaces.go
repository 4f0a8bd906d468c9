package catalog

import (
	"context"

	"github.com/feastline/feastline-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for restaurants and dishes.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindRestaurantByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	FindRestaurantByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Restaurant, error)
	ListRestaurantsByLocality(ctx context.Context, localityCode string) ([]models.Restaurant, error)
	UpdateRestaurant(ctx context.Context, id uuid.UUID, updates map[string]any) error
	FindDishByID(ctx context.Context, id uuid.UUID) (*models.Dish, error)
	FindDishesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Dish, error)
	ListDishesByRestaurant(ctx context.Context, restaurantID uuid.UUID, availableOnly bool) ([]models.Dish, error)
	CreateDish(ctx context.Context, dish *models.Dish) (*models.Dish, error)
	UpdateDish(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteDish(ctx context.Context, id uuid.UUID) error
}
