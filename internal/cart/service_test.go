package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/feastline/feastline-backend/internal/catalog"
	"github.com/feastline/feastline-backend/pkg/db/models"
	"github.com/feastline/feastline-backend/pkg/enums"
	pkgerrors "github.com/feastline/feastline-backend/pkg/errors"
)

type stubCatalog struct {
	restaurants map[uuid.UUID]*models.Restaurant
	dishes      map[uuid.UUID]*models.Dish
}

func (s *stubCatalog) WithTx(tx *gorm.DB) catalog.Repository { return s }

func (s *stubCatalog) FindRestaurantByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	if r, ok := s.restaurants[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalog) FindRestaurantByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Restaurant, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalog) ListRestaurantsByLocality(ctx context.Context, localityCode string) ([]models.Restaurant, error) {
	return nil, nil
}

func (s *stubCatalog) UpdateRestaurant(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubCatalog) FindDishByID(ctx context.Context, id uuid.UUID) (*models.Dish, error) {
	if d, ok := s.dishes[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalog) FindDishesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Dish, error) {
	var out []models.Dish
	for _, id := range ids {
		if d, ok := s.dishes[id]; ok {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (s *stubCatalog) ListDishesByRestaurant(ctx context.Context, restaurantID uuid.UUID, availableOnly bool) ([]models.Dish, error) {
	return nil, nil
}

func (s *stubCatalog) CreateDish(ctx context.Context, dish *models.Dish) (*models.Dish, error) {
	return dish, nil
}

func (s *stubCatalog) UpdateDish(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubCatalog) DeleteDish(ctx context.Context, id uuid.UUID) error {
	delete(s.dishes, id)
	return nil
}

func seedCatalog() (*stubCatalog, *models.Restaurant, *models.Dish, *models.Dish) {
	restaurant := &models.Restaurant{
		ID:              uuid.New(),
		Status:          enums.RestaurantStatusActive,
		OrderingEnabled: true,
	}
	dal := &models.Dish{
		ID:           uuid.New(),
		RestaurantID: restaurant.ID,
		Name:         "dal tadka",
		Price:        decimal.RequireFromString("120.00"),
		Available:    true,
	}
	naan := &models.Dish{
		ID:           uuid.New(),
		RestaurantID: restaurant.ID,
		Name:         "butter naan",
		Price:        decimal.RequireFromString("45.00"),
		Available:    true,
	}
	return &stubCatalog{
		restaurants: map[uuid.UUID]*models.Restaurant{restaurant.ID: restaurant},
		dishes:      map[uuid.UUID]*models.Dish{dal.ID: dal, naan.ID: naan},
	}, restaurant, dal, naan
}

func TestAddItemPricesCart(t *testing.T) {
	cat, _, dal, naan := seedCatalog()
	svc, err := NewService(NewStore(), cat)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	customerID := uuid.New()

	if _, err := svc.AddItem(context.Background(), customerID, dal.ID, 2); err != nil {
		t.Fatalf("add dal: %v", err)
	}
	priced, err := svc.AddItem(context.Background(), customerID, naan.ID, 3)
	if err != nil {
		t.Fatalf("add naan: %v", err)
	}

	if len(priced.Lines) != 2 {
		t.Fatalf("expected 2 lines got %d", len(priced.Lines))
	}
	want := decimal.RequireFromString("375.00")
	if !priced.Subtotal.Equal(want) {
		t.Fatalf("expected subtotal %s got %s", want, priced.Subtotal)
	}
}

func TestAddItemSecondRestaurantConflicts(t *testing.T) {
	cat, _, dal, _ := seedCatalog()
	other := &models.Restaurant{ID: uuid.New(), Status: enums.RestaurantStatusActive, OrderingEnabled: true}
	foreign := &models.Dish{
		ID:           uuid.New(),
		RestaurantID: other.ID,
		Name:         "momos",
		Price:        decimal.RequireFromString("90.00"),
		Available:    true,
	}
	cat.restaurants[other.ID] = other
	cat.dishes[foreign.ID] = foreign

	svc, _ := NewService(NewStore(), cat)
	customerID := uuid.New()

	if _, err := svc.AddItem(context.Background(), customerID, dal.ID, 1); err != nil {
		t.Fatalf("add dal: %v", err)
	}
	_, err := svc.AddItem(context.Background(), customerID, foreign.ID, 1)
	if !pkgerrors.IsCode(err, pkgerrors.CodeRestaurantConflict) {
		t.Fatalf("expected restaurant conflict, got %v", err)
	}
}

func TestRemoveLastItemClearsBinding(t *testing.T) {
	cat, _, dal, _ := seedCatalog()
	other := &models.Restaurant{ID: uuid.New(), Status: enums.RestaurantStatusActive, OrderingEnabled: true}
	foreign := &models.Dish{
		ID:           uuid.New(),
		RestaurantID: other.ID,
		Name:         "momos",
		Price:        decimal.RequireFromString("90.00"),
		Available:    true,
	}
	cat.restaurants[other.ID] = other
	cat.dishes[foreign.ID] = foreign

	svc, _ := NewService(NewStore(), cat)
	customerID := uuid.New()

	if _, err := svc.AddItem(context.Background(), customerID, dal.ID, 1); err != nil {
		t.Fatalf("add dal: %v", err)
	}
	if _, err := svc.RemoveItem(context.Background(), customerID, dal.ID); err != nil {
		t.Fatalf("remove dal: %v", err)
	}

	// empty cart should accept a dish from a different restaurant
	if _, err := svc.AddItem(context.Background(), customerID, foreign.ID, 1); err != nil {
		t.Fatalf("expected fresh binding after emptying cart, got %v", err)
	}
}

func TestAddUnavailableDishRejected(t *testing.T) {
	cat, _, dal, _ := seedCatalog()
	dal.Available = false
	svc, _ := NewService(NewStore(), cat)

	_, err := svc.AddItem(context.Background(), uuid.New(), dal.ID, 1)
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestAddDishWhenOrderingDisabled(t *testing.T) {
	cat, restaurant, dal, _ := seedCatalog()
	restaurant.OrderingEnabled = false
	svc, _ := NewService(NewStore(), cat)

	_, err := svc.AddItem(context.Background(), uuid.New(), dal.ID, 1)
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestWithCheckoutEmptyCart(t *testing.T) {
	cat, _, _, _ := seedCatalog()
	svc, _ := NewService(NewStore(), cat)

	err := svc.WithCheckout(context.Background(), uuid.New(), func(priced PricedCart) error {
		t.Fatal("fn should not run for empty cart")
		return nil
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeInvalidCart) {
		t.Fatalf("expected invalid cart, got %v", err)
	}
}

func TestWithCheckoutClearsCartOnSuccess(t *testing.T) {
	cat, _, dal, _ := seedCatalog()
	svc, _ := NewService(NewStore(), cat)
	customerID := uuid.New()

	if _, err := svc.AddItem(context.Background(), customerID, dal.ID, 2); err != nil {
		t.Fatalf("add dal: %v", err)
	}

	var seen PricedCart
	err := svc.WithCheckout(context.Background(), customerID, func(priced PricedCart) error {
		seen = priced
		return nil
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if len(seen.Lines) != 1 || seen.Lines[0].Quantity != 2 {
		t.Fatalf("unexpected priced cart %+v", seen)
	}

	after, _ := svc.View(context.Background(), customerID)
	if len(after.Lines) != 0 {
		t.Fatalf("expected cart cleared after checkout, got %d lines", len(after.Lines))
	}
}

func TestWithCheckoutKeepsCartOnFailure(t *testing.T) {
	cat, _, dal, _ := seedCatalog()
	svc, _ := NewService(NewStore(), cat)
	customerID := uuid.New()

	if _, err := svc.AddItem(context.Background(), customerID, dal.ID, 1); err != nil {
		t.Fatalf("add dal: %v", err)
	}

	wantErr := pkgerrors.New(pkgerrors.CodeDependency, "insert failed")
	err := svc.WithCheckout(context.Background(), customerID, func(priced PricedCart) error {
		return wantErr
	})
	if err == nil {
		t.Fatal("expected checkout error")
	}

	after, _ := svc.View(context.Background(), customerID)
	if len(after.Lines) != 1 {
		t.Fatalf("expected cart preserved after failed checkout, got %d lines", len(after.Lines))
	}
}

func TestWithCheckoutRejectsDeadDish(t *testing.T) {
	cat, _, dal, _ := seedCatalog()
	svc, _ := NewService(NewStore(), cat)
	customerID := uuid.New()

	if _, err := svc.AddItem(context.Background(), customerID, dal.ID, 1); err != nil {
		t.Fatalf("add dal: %v", err)
	}
	// dish goes off the menu after it was added
	dal.Available = false

	err := svc.WithCheckout(context.Background(), customerID, func(priced PricedCart) error {
		t.Fatal("fn should not run with a dead dish in cart")
		return nil
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestAddItemOrphanedDishNotFound(t *testing.T) {
	cat, restaurant, dal, _ := seedCatalog()
	svc, _ := NewService(NewStore(), cat)
	delete(cat.restaurants, restaurant.ID)

	_, err := svc.AddItem(context.Background(), uuid.New(), dal.ID, 1)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestWithCheckoutRejectsDeletedDish(t *testing.T) {
	cat, _, dal, _ := seedCatalog()
	svc, _ := NewService(NewStore(), cat)
	customerID := uuid.New()

	if _, err := svc.AddItem(context.Background(), customerID, dal.ID, 1); err != nil {
		t.Fatalf("add dal: %v", err)
	}
	delete(cat.dishes, dal.ID)

	err := svc.WithCheckout(context.Background(), customerID, func(priced PricedCart) error {
		t.Fatal("fn should not run with a deleted dish in cart")
		return nil
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
