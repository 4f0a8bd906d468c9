package delivery

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feastline/feastline-backend/pkg/db/models"
	pkgerrors "github.com/feastline/feastline-backend/pkg/errors"
)

// Service matches delivery partners to orders and manages their availability.
type Service interface {
	// Assign claims an available partner in the restaurant's locality.
	// Returns nil when nobody is free; the order stays unassigned.
	Assign(ctx context.Context, tx *gorm.DB, restaurantID uuid.UUID) (*models.DeliveryPartner, error)
	Release(ctx context.Context, tx *gorm.DB, partnerID uuid.UUID) error
	PartnerByUser(ctx context.Context, userID uuid.UUID) (*models.DeliveryPartner, error)
	SetAvailability(ctx context.Context, userID uuid.UUID, available bool) error
}

type service struct {
	repo        Repository
	restaurants restaurantLocator
}

// NewService builds a delivery service with the required dependencies.
func NewService(repo Repository, restaurants restaurantLocator) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("delivery repository required")
	}
	if restaurants == nil {
		return nil, fmt.Errorf("restaurant locator required")
	}
	return &service{repo: repo, restaurants: restaurants}, nil
}

func (s *service) Assign(ctx context.Context, tx *gorm.DB, restaurantID uuid.UUID) (*models.DeliveryPartner, error) {
	restaurant, err := s.restaurants.FindRestaurantByID(ctx, restaurantID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
	}

	repo := s.repo.WithTx(tx)
	candidates, err := repo.ListAvailableByLocality(ctx, restaurant.LocalityCode)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list available partners")
	}

	// the snapshot can be stale under concurrency, so claim with a CAS and
	// fall through to the next candidate on a lost race
	for i := range candidates {
		won, err := repo.ClaimPartner(ctx, candidates[i].ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim partner")
		}
		if won {
			candidates[i].Available = false
			return &candidates[i], nil
		}
	}
	return nil, nil
}

func (s *service) Release(ctx context.Context, tx *gorm.DB, partnerID uuid.UUID) error {
	if partnerID == uuid.Nil {
		return nil
	}
	if err := s.repo.WithTx(tx).Release(ctx, partnerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release partner")
	}
	return nil
}

func (s *service) PartnerByUser(ctx context.Context, userID uuid.UUID) (*models.DeliveryPartner, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	partner, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "delivery partner profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery partner")
	}
	return partner, nil
}

func (s *service) SetAvailability(ctx context.Context, userID uuid.UUID, available bool) error {
	if _, err := s.PartnerByUser(ctx, userID); err != nil {
		return err
	}
	if err := s.repo.SetAvailability(ctx, userID, available); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set availability")
	}
	return nil
}
