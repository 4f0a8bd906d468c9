package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/feastline/feastline-backend/pkg/db/models"
	"github.com/feastline/feastline-backend/pkg/enums"
	pkgerrors "github.com/feastline/feastline-backend/pkg/errors"
)

type stubCatalogRepo struct {
	restaurants       map[uuid.UUID]*models.Restaurant
	restaurantByOwner map[uuid.UUID]*models.Restaurant
	dishes            map[uuid.UUID]*models.Dish
	dishUpdates       map[string]any
	restaurantUpdates map[string]any
	listByLocality    func(ctx context.Context, localityCode string) ([]models.Restaurant, error)
}

func (s *stubCatalogRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCatalogRepo) FindRestaurantByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	if r, ok := s.restaurants[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogRepo) FindRestaurantByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Restaurant, error) {
	if r, ok := s.restaurantByOwner[ownerID]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogRepo) ListRestaurantsByLocality(ctx context.Context, localityCode string) ([]models.Restaurant, error) {
	if s.listByLocality != nil {
		return s.listByLocality(ctx, localityCode)
	}
	var out []models.Restaurant
	for _, r := range s.restaurants {
		if r.LocalityCode == localityCode {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *stubCatalogRepo) UpdateRestaurant(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.restaurantUpdates = updates
	return nil
}

func (s *stubCatalogRepo) FindDishByID(ctx context.Context, id uuid.UUID) (*models.Dish, error) {
	if d, ok := s.dishes[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogRepo) FindDishesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Dish, error) {
	var out []models.Dish
	for _, id := range ids {
		if d, ok := s.dishes[id]; ok {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (s *stubCatalogRepo) ListDishesByRestaurant(ctx context.Context, restaurantID uuid.UUID, availableOnly bool) ([]models.Dish, error) {
	var out []models.Dish
	for _, d := range s.dishes {
		if d.RestaurantID != restaurantID {
			continue
		}
		if availableOnly && !d.Available {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (s *stubCatalogRepo) CreateDish(ctx context.Context, dish *models.Dish) (*models.Dish, error) {
	if dish.ID == uuid.Nil {
		dish.ID = uuid.New()
	}
	if s.dishes == nil {
		s.dishes = make(map[uuid.UUID]*models.Dish)
	}
	s.dishes[dish.ID] = dish
	return dish, nil
}

func (s *stubCatalogRepo) UpdateDish(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.dishUpdates = updates
	return nil
}

func (s *stubCatalogRepo) DeleteDish(ctx context.Context, id uuid.UUID) error {
	delete(s.dishes, id)
	return nil
}

func TestBrowseRestaurantsHidesInactive(t *testing.T) {
	active := &models.Restaurant{ID: uuid.New(), LocalityCode: "BLR-01", Status: enums.RestaurantStatusActive}
	inactive := &models.Restaurant{ID: uuid.New(), LocalityCode: "BLR-01", Status: enums.RestaurantStatusInactive}
	repo := &stubCatalogRepo{restaurants: map[uuid.UUID]*models.Restaurant{
		active.ID:   active,
		inactive.ID: inactive,
	}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	out, err := svc.BrowseRestaurants(context.Background(), "BLR-01")
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(out) != 1 || out[0].ID != active.ID {
		t.Fatalf("expected only the active restaurant, got %d", len(out))
	}
}

func TestMenuOnlyAvailableDishes(t *testing.T) {
	restaurant := &models.Restaurant{ID: uuid.New(), Status: enums.RestaurantStatusActive, OrderingEnabled: true}
	available := &models.Dish{ID: uuid.New(), RestaurantID: restaurant.ID, Name: "dal", Available: true}
	gone := &models.Dish{ID: uuid.New(), RestaurantID: restaurant.ID, Name: "off menu", Available: false}
	repo := &stubCatalogRepo{
		restaurants: map[uuid.UUID]*models.Restaurant{restaurant.ID: restaurant},
		dishes:      map[uuid.UUID]*models.Dish{available.ID: available, gone.ID: gone},
	}
	svc, _ := NewService(repo)

	menu, err := svc.Menu(context.Background(), restaurant.ID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(menu) != 1 || menu[0].ID != available.ID {
		t.Fatalf("expected only the available dish, got %d", len(menu))
	}
}

func TestCreateDishRequiresOwnership(t *testing.T) {
	repo := &stubCatalogRepo{}
	svc, _ := NewService(repo)

	_, err := svc.CreateDish(context.Background(), uuid.New(), CreateDishInput{
		Name:  "paneer tikka",
		Price: decimal.RequireFromString("180.00"),
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for ownerless user, got %v", err)
	}
}

func TestUpdateDishRejectsForeignDish(t *testing.T) {
	ownerID := uuid.New()
	mine := &models.Restaurant{ID: uuid.New(), OwnerID: ownerID}
	foreignDish := &models.Dish{ID: uuid.New(), RestaurantID: uuid.New(), Name: "biryani"}
	repo := &stubCatalogRepo{
		restaurantByOwner: map[uuid.UUID]*models.Restaurant{ownerID: mine},
		dishes:            map[uuid.UUID]*models.Dish{foreignDish.ID: foreignDish},
	}
	svc, _ := NewService(repo)

	name := "renamed"
	_, err := svc.UpdateDish(context.Background(), ownerID, foreignDish.ID, UpdateDishInput{Name: &name})
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestDeleteDishScopedToOwner(t *testing.T) {
	ownerID := uuid.New()
	mine := &models.Restaurant{ID: uuid.New(), OwnerID: ownerID}
	dish := &models.Dish{ID: uuid.New(), RestaurantID: mine.ID, Name: "dal"}
	foreign := &models.Dish{ID: uuid.New(), RestaurantID: uuid.New(), Name: "biryani"}
	repo := &stubCatalogRepo{
		restaurantByOwner: map[uuid.UUID]*models.Restaurant{ownerID: mine},
		dishes:            map[uuid.UUID]*models.Dish{dish.ID: dish, foreign.ID: foreign},
	}
	svc, _ := NewService(repo)

	if err := svc.DeleteDish(context.Background(), ownerID, foreign.ID); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden for foreign dish, got %v", err)
	}
	if err := svc.DeleteDish(context.Background(), ownerID, dish.ID); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if _, ok := repo.dishes[dish.ID]; ok {
		t.Fatal("expected dish removed")
	}
}

func TestSetDishAvailabilityNoopWhenUnchanged(t *testing.T) {
	ownerID := uuid.New()
	mine := &models.Restaurant{ID: uuid.New(), OwnerID: ownerID}
	dish := &models.Dish{ID: uuid.New(), RestaurantID: mine.ID, Available: true}
	repo := &stubCatalogRepo{
		restaurantByOwner: map[uuid.UUID]*models.Restaurant{ownerID: mine},
		dishes:            map[uuid.UUID]*models.Dish{dish.ID: dish},
	}
	svc, _ := NewService(repo)

	if err := svc.SetDishAvailability(context.Background(), ownerID, dish.ID, true); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if repo.dishUpdates != nil {
		t.Fatal("expected no update for unchanged availability")
	}
}

func TestSetOrderingEnabledTogglesFlag(t *testing.T) {
	ownerID := uuid.New()
	mine := &models.Restaurant{ID: uuid.New(), OwnerID: ownerID, OrderingEnabled: true}
	repo := &stubCatalogRepo{restaurantByOwner: map[uuid.UUID]*models.Restaurant{ownerID: mine}}
	svc, _ := NewService(repo)

	if err := svc.SetOrderingEnabled(context.Background(), ownerID, false); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if repo.restaurantUpdates == nil || repo.restaurantUpdates["ordering_enabled"] != false {
		t.Fatalf("expected ordering_enabled update, got %v", repo.restaurantUpdates)
	}
}
