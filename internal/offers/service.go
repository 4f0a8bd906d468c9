package offers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/feastline/feastline-backend/pkg/db/models"
	pkgerrors "github.com/feastline/feastline-backend/pkg/errors"
)

// Applied describes the discount outcome of a checkout. Offer is nil when no
// discount applied.
type Applied struct {
	Offer    *models.Offer
	Discount decimal.Decimal
}

// Service resolves which offers a customer can use and what they are worth.
type Service interface {
	Eligible(ctx context.Context, customerID, restaurantID uuid.UUID, subtotal decimal.Decimal) ([]models.Offer, error)
	Best(ctx context.Context, customerID, restaurantID uuid.UUID, subtotal decimal.Decimal) (*models.Offer, error)
	Apply(ctx context.Context, customerID, restaurantID uuid.UUID, subtotal decimal.Decimal, requested *uuid.UUID) (Applied, error)
}

type service struct {
	repo   Repository
	orders orderCounter
}

// NewService builds an offers service with the required dependencies.
func NewService(repo Repository, orders orderCounter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("offers repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order counter required")
	}
	return &service{repo: repo, orders: orders}, nil
}

// Eligible returns the active offers the customer can use for this cart.
// Candidate rows come from the DB; value and first-time checks run here so
// decimal comparisons stay exact.
func (s *service) Eligible(ctx context.Context, customerID, restaurantID uuid.UUID, subtotal decimal.Decimal) ([]models.Offer, error) {
	candidates, err := s.repo.ListActiveForRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list offers")
	}

	firstTime := false
	firstTimeKnown := false
	eligible := make([]models.Offer, 0, len(candidates))
	for _, offer := range candidates {
		if subtotal.LessThan(offer.MinOrderValue) {
			continue
		}
		if offer.FirstTimeUserOnly {
			if !firstTimeKnown {
				count, err := s.orders.CountNonCancelledByCustomer(ctx, customerID)
				if err != nil {
					return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count customer orders")
				}
				firstTime = count == 0
				firstTimeKnown = true
			}
			if !firstTime {
				continue
			}
		}
		eligible = append(eligible, offer)
	}
	return eligible, nil
}

// Best picks the strongest eligible offer. Restaurant offers beat platform
// offers regardless of percentage; within a tier the highest percentage wins.
func (s *service) Best(ctx context.Context, customerID, restaurantID uuid.UUID, subtotal decimal.Decimal) (*models.Offer, error) {
	eligible, err := s.Eligible(ctx, customerID, restaurantID, subtotal)
	if err != nil {
		return nil, err
	}

	var best *models.Offer
	for i := range eligible {
		offer := &eligible[i]
		if best == nil {
			best = offer
			continue
		}
		if beats(offer, best) {
			best = offer
		}
	}
	if best == nil {
		return nil, nil
	}
	out := *best
	return &out, nil
}

func beats(a, b *models.Offer) bool {
	if a.IsPlatformWide() != b.IsPlatformWide() {
		return !a.IsPlatformWide()
	}
	return a.DiscountPercentage.GreaterThan(b.DiscountPercentage)
}

// Apply resolves the discount for a checkout. A requested offer that turns
// out to be ineligible does not fail the checkout; the order simply goes
// through at full price. With no requested offer the best eligible one is
// applied automatically.
func (s *service) Apply(ctx context.Context, customerID, restaurantID uuid.UUID, subtotal decimal.Decimal, requested *uuid.UUID) (Applied, error) {
	none := Applied{Discount: decimal.Zero}

	var offer *models.Offer
	if requested == nil || *requested == uuid.Nil {
		best, err := s.Best(ctx, customerID, restaurantID, subtotal)
		if err != nil {
			return none, err
		}
		if best == nil {
			return none, nil
		}
		offer = best
	} else {
		found, err := s.repo.FindByID(ctx, *requested)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return none, nil
			}
			return none, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load offer")
		}
		ok, err := s.eligibleFor(ctx, customerID, restaurantID, subtotal, found)
		if err != nil {
			return none, err
		}
		if !ok {
			return none, nil
		}
		offer = found
	}

	discount := subtotal.Mul(offer.DiscountPercentage).Div(decimal.NewFromInt(100)).Round(2)
	return Applied{Offer: offer, Discount: discount}, nil
}

func (s *service) eligibleFor(ctx context.Context, customerID, restaurantID uuid.UUID, subtotal decimal.Decimal, offer *models.Offer) (bool, error) {
	if !offer.Active {
		return false, nil
	}
	if !offer.IsPlatformWide() && *offer.RestaurantID != restaurantID {
		return false, nil
	}
	if subtotal.LessThan(offer.MinOrderValue) {
		return false, nil
	}
	if offer.FirstTimeUserOnly {
		count, err := s.orders.CountNonCancelledByCustomer(ctx, customerID)
		if err != nil {
			return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count customer orders")
		}
		if count > 0 {
			return false, nil
		}
	}
	return true, nil
}
