package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/feastline/feastline-backend/pkg/db/models"
	"github.com/feastline/feastline-backend/pkg/enums"
	pkgerrors "github.com/feastline/feastline-backend/pkg/errors"
)

// Service exposes restaurant and menu operations for browsing and owner management.
type Service interface {
	BrowseRestaurants(ctx context.Context, localityCode string) ([]models.Restaurant, error)
	GetRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	Menu(ctx context.Context, restaurantID uuid.UUID) ([]models.Dish, error)
	OwnerRestaurant(ctx context.Context, ownerID uuid.UUID) (*models.Restaurant, error)
	CreateDish(ctx context.Context, ownerID uuid.UUID, input CreateDishInput) (*models.Dish, error)
	UpdateDish(ctx context.Context, ownerID, dishID uuid.UUID, input UpdateDishInput) (*models.Dish, error)
	DeleteDish(ctx context.Context, ownerID, dishID uuid.UUID) error
	SetDishAvailability(ctx context.Context, ownerID, dishID uuid.UUID, available bool) error
	SetOrderingEnabled(ctx context.Context, ownerID uuid.UUID, enabled bool) error
}

// CreateDishInput carries the owner-supplied fields for a new dish.
type CreateDishInput struct {
	Name      string
	Price     decimal.Decimal
	PhotoPath *string
}

// UpdateDishInput carries optional edits; nil fields are left unchanged.
type UpdateDishInput struct {
	Name      *string
	Price     *decimal.Decimal
	PhotoPath *string
}

type service struct {
	repo Repository
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) BrowseRestaurants(ctx context.Context, localityCode string) ([]models.Restaurant, error) {
	if localityCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "locality code required")
	}
	all, err := s.repo.ListRestaurantsByLocality(ctx, localityCode)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list restaurants")
	}
	open := make([]models.Restaurant, 0, len(all))
	for _, r := range all {
		if r.Status == enums.RestaurantStatusActive {
			open = append(open, r)
		}
	}
	return open, nil
}

func (s *service) GetRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id required")
	}
	restaurant, err := s.repo.FindRestaurantByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
	}
	return restaurant, nil
}

func (s *service) Menu(ctx context.Context, restaurantID uuid.UUID) ([]models.Dish, error) {
	restaurant, err := s.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	dishes, err := s.repo.ListDishesByRestaurant(ctx, restaurant.ID, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list dishes")
	}
	return dishes, nil
}

func (s *service) OwnerRestaurant(ctx context.Context, ownerID uuid.UUID) (*models.Restaurant, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	restaurant, err := s.repo.FindRestaurantByOwner(ctx, ownerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found for owner")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load owner restaurant")
	}
	return restaurant, nil
}

func (s *service) CreateDish(ctx context.Context, ownerID uuid.UUID, input CreateDishInput) (*models.Dish, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dish name required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dish price cannot be negative")
	}
	restaurant, err := s.OwnerRestaurant(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	dish := &models.Dish{
		RestaurantID: restaurant.ID,
		Name:         input.Name,
		Price:        input.Price,
		PhotoPath:    input.PhotoPath,
		Available:    true,
	}
	created, err := s.repo.CreateDish(ctx, dish)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create dish")
	}
	return created, nil
}

func (s *service) UpdateDish(ctx context.Context, ownerID, dishID uuid.UUID, input UpdateDishInput) (*models.Dish, error) {
	dish, err := s.ownedDish(ctx, ownerID, dishID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "dish name cannot be empty")
		}
		updates["name"] = *input.Name
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "dish price cannot be negative")
		}
		updates["price"] = *input.Price
	}
	if input.PhotoPath != nil {
		updates["photo_path"] = *input.PhotoPath
	}
	if len(updates) == 0 {
		return dish, nil
	}

	if err := s.repo.UpdateDish(ctx, dish.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update dish")
	}
	return s.repo.FindDishByID(ctx, dish.ID)
}

// DeleteDish removes the dish from the menu. Past orders keep their price
// snapshots, so deletion does not touch order history.
func (s *service) DeleteDish(ctx context.Context, ownerID, dishID uuid.UUID) error {
	dish, err := s.ownedDish(ctx, ownerID, dishID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteDish(ctx, dish.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete dish")
	}
	return nil
}

func (s *service) SetDishAvailability(ctx context.Context, ownerID, dishID uuid.UUID, available bool) error {
	dish, err := s.ownedDish(ctx, ownerID, dishID)
	if err != nil {
		return err
	}
	if dish.Available == available {
		return nil
	}
	if err := s.repo.UpdateDish(ctx, dish.ID, map[string]any{"available": available}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update dish availability")
	}
	return nil
}

func (s *service) SetOrderingEnabled(ctx context.Context, ownerID uuid.UUID, enabled bool) error {
	restaurant, err := s.OwnerRestaurant(ctx, ownerID)
	if err != nil {
		return err
	}
	if restaurant.OrderingEnabled == enabled {
		return nil
	}
	if err := s.repo.UpdateRestaurant(ctx, restaurant.ID, map[string]any{"ordering_enabled": enabled}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update ordering flag")
	}
	return nil
}

func (s *service) ownedDish(ctx context.Context, ownerID, dishID uuid.UUID) (*models.Dish, error) {
	if dishID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dish id required")
	}
	restaurant, err := s.OwnerRestaurant(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	dish, err := s.repo.FindDishByID(ctx, dishID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "dish not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dish")
	}
	if dish.RestaurantID != restaurant.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "dish does not belong to restaurant")
	}
	return dish, nil
}
