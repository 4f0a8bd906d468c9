package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/feastline/feastline-backend/internal/catalog"
	"github.com/feastline/feastline-backend/pkg/db/models"
	pkgerrors "github.com/feastline/feastline-backend/pkg/errors"
)

// PricedLine is a cart line joined with the live dish record. Missing is set
// when the dish has been deleted from the catalog entirely.
type PricedLine struct {
	DishID    uuid.UUID       `json:"dish_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Available bool            `json:"available"`
	Missing   bool            `json:"-"`
}

// PricedCart is the customer-facing cart view with live prices.
type PricedCart struct {
	RestaurantID uuid.UUID       `json:"restaurant_id"`
	Lines        []PricedLine    `json:"lines"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// Service manages per-customer carts and their pricing.
type Service interface {
	AddItem(ctx context.Context, customerID, dishID uuid.UUID, quantity int) (*PricedCart, error)
	UpdateQuantity(ctx context.Context, customerID, dishID uuid.UUID, quantity int) (*PricedCart, error)
	RemoveItem(ctx context.Context, customerID, dishID uuid.UUID) (*PricedCart, error)
	View(ctx context.Context, customerID uuid.UUID) (*PricedCart, error)
	Clear(ctx context.Context, customerID uuid.UUID) error
	ReplaceLines(ctx context.Context, customerID, restaurantID uuid.UUID, lines []Line) (*PricedCart, error)
	WithCheckout(ctx context.Context, customerID uuid.UUID, fn func(priced PricedCart) error) error
}

type service struct {
	store   *Store
	catalog catalog.Repository
}

// NewService builds a cart service with the required dependencies.
func NewService(store *Store, catalogRepo catalog.Repository) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{store: store, catalog: catalogRepo}, nil
}

func (s *service) AddItem(ctx context.Context, customerID, dishID uuid.UUID, quantity int) (*PricedCart, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	dish, err := s.loadDish(ctx, dishID)
	if err != nil {
		return nil, err
	}
	if !dish.Available {
		return nil, pkgerrors.New(pkgerrors.CodeUnavailable, "dish is not available")
	}
	restaurant, err := s.catalog.FindRestaurantByID(ctx, dish.RestaurantID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
	}
	if !restaurant.AcceptsOrders() {
		return nil, pkgerrors.New(pkgerrors.CodeUnavailable, "restaurant is not accepting orders")
	}

	err = s.store.Update(customerID, func(c *Cart) error {
		if !c.Empty() && c.RestaurantID != dish.RestaurantID {
			return pkgerrors.New(pkgerrors.CodeRestaurantConflict,
				fmt.Sprintf("cart already holds items from restaurant %s", c.RestaurantID))
		}
		c.RestaurantID = dish.RestaurantID
		for i := range c.Lines {
			if c.Lines[i].DishID == dishID {
				c.Lines[i].Quantity += quantity
				return nil
			}
		}
		c.Lines = append(c.Lines, Line{DishID: dishID, Quantity: quantity})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.View(ctx, customerID)
}

func (s *service) UpdateQuantity(ctx context.Context, customerID, dishID uuid.UUID, quantity int) (*PricedCart, error) {
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, customerID, dishID)
	}

	err := s.store.Update(customerID, func(c *Cart) error {
		for i := range c.Lines {
			if c.Lines[i].DishID == dishID {
				c.Lines[i].Quantity = quantity
				return nil
			}
		}
		return pkgerrors.New(pkgerrors.CodeNotFound, "dish not in cart")
	})
	if err != nil {
		return nil, err
	}
	return s.View(ctx, customerID)
}

func (s *service) RemoveItem(ctx context.Context, customerID, dishID uuid.UUID) (*PricedCart, error) {
	err := s.store.Update(customerID, func(c *Cart) error {
		for i := range c.Lines {
			if c.Lines[i].DishID == dishID {
				c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
				return nil
			}
		}
		return pkgerrors.New(pkgerrors.CodeNotFound, "dish not in cart")
	})
	if err != nil {
		return nil, err
	}
	return s.View(ctx, customerID)
}

func (s *service) View(ctx context.Context, customerID uuid.UUID) (*PricedCart, error) {
	snapshot := s.store.Snapshot(customerID)
	return s.price(ctx, snapshot)
}

func (s *service) Clear(ctx context.Context, customerID uuid.UUID) error {
	s.store.Clear(customerID)
	return nil
}

// ReplaceLines swaps the cart contents wholesale. Used by reorder, which
// rebuilds the cart from a past order.
func (s *service) ReplaceLines(ctx context.Context, customerID, restaurantID uuid.UUID, lines []Line) (*PricedCart, error) {
	err := s.store.Update(customerID, func(c *Cart) error {
		c.RestaurantID = restaurantID
		c.Lines = lines
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.View(ctx, customerID)
}

// WithCheckout prices the cart under its lock and hands the result to fn.
// The cart stays locked until fn returns, so nothing can change between the
// price the customer was shown and the order that gets written. On success
// the cart is cleared before the lock is released.
func (s *service) WithCheckout(ctx context.Context, customerID uuid.UUID, fn func(priced PricedCart) error) error {
	return s.store.WithLock(customerID, func(c Cart) error {
		if c.Empty() {
			return pkgerrors.New(pkgerrors.CodeInvalidCart, "cart is empty")
		}
		priced, err := s.price(ctx, c)
		if err != nil {
			return err
		}
		for _, line := range priced.Lines {
			if line.Missing {
				return pkgerrors.New(pkgerrors.CodeNotFound,
					fmt.Sprintf("dish %s no longer exists", line.DishID))
			}
			if !line.Available {
				return pkgerrors.New(pkgerrors.CodeUnavailable,
					fmt.Sprintf("dish %s is no longer available", line.DishID))
			}
		}
		return fn(*priced)
	})
}

func (s *service) price(ctx context.Context, c Cart) (*PricedCart, error) {
	out := &PricedCart{
		RestaurantID: c.RestaurantID,
		Lines:        make([]PricedLine, 0, len(c.Lines)),
		Subtotal:     decimal.Zero,
	}
	if c.Empty() {
		return out, nil
	}

	ids := make([]uuid.UUID, 0, len(c.Lines))
	for _, line := range c.Lines {
		ids = append(ids, line.DishID)
	}
	dishes, err := s.catalog.FindDishesByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart dishes")
	}
	byID := make(map[uuid.UUID]models.Dish, len(dishes))
	for _, d := range dishes {
		byID[d.ID] = d
	}

	for _, line := range c.Lines {
		priced := PricedLine{DishID: line.DishID, Quantity: line.Quantity}
		if dish, ok := byID[line.DishID]; ok {
			priced.Name = dish.Name
			priced.Available = dish.Available
			if dish.Available {
				priced.Price = dish.Price
				priced.Subtotal = dish.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
				out.Subtotal = out.Subtotal.Add(priced.Subtotal)
			}
		} else {
			priced.Missing = true
		}
		out.Lines = append(out.Lines, priced)
	}
	return out, nil
}

func (s *service) loadDish(ctx context.Context, dishID uuid.UUID) (*models.Dish, error) {
	if dishID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dish id required")
	}
	dish, err := s.catalog.FindDishByID(ctx, dishID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "dish not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dish")
	}
	return dish, nil
}
