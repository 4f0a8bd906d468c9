package delivery

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feastline/feastline-backend/pkg/db/models"
	pkgerrors "github.com/feastline/feastline-backend/pkg/errors"
)

type stubDeliveryRepo struct {
	partners     map[uuid.UUID]*models.DeliveryPartner
	claimResults map[uuid.UUID]bool
	released     []uuid.UUID
}

func (s *stubDeliveryRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubDeliveryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.DeliveryPartner, error) {
	if p, ok := s.partners[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubDeliveryRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.DeliveryPartner, error) {
	for _, p := range s.partners {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubDeliveryRepo) ListAvailableByLocality(ctx context.Context, localityCode string) ([]models.DeliveryPartner, error) {
	var out []models.DeliveryPartner
	for _, p := range s.partners {
		if p.LocalityCode == localityCode && p.Available {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubDeliveryRepo) ClaimPartner(ctx context.Context, partnerID uuid.UUID) (bool, error) {
	if won, ok := s.claimResults[partnerID]; ok {
		return won, nil
	}
	return true, nil
}

func (s *stubDeliveryRepo) ClaimPartnerByUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	return true, nil
}

func (s *stubDeliveryRepo) Release(ctx context.Context, partnerID uuid.UUID) error {
	s.released = append(s.released, partnerID)
	return nil
}

func (s *stubDeliveryRepo) SetAvailability(ctx context.Context, userID uuid.UUID, available bool) error {
	return nil
}

type stubLocator struct {
	restaurant *models.Restaurant
}

func (s *stubLocator) FindRestaurantByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	if s.restaurant != nil && s.restaurant.ID == id {
		return s.restaurant, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func TestAssignClaimsLocalPartner(t *testing.T) {
	restaurant := &models.Restaurant{ID: uuid.New(), LocalityCode: "BLR-01"}
	partner := &models.DeliveryPartner{ID: uuid.New(), UserID: uuid.New(), Available: true, LocalityCode: "BLR-01"}
	repo := &stubDeliveryRepo{partners: map[uuid.UUID]*models.DeliveryPartner{partner.ID: partner}}
	svc, err := NewService(repo, &stubLocator{restaurant: restaurant})
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	got, err := svc.Assign(context.Background(), nil, restaurant.ID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if got == nil || got.ID != partner.ID {
		t.Fatal("expected the local partner to be claimed")
	}
	if got.Available {
		t.Fatal("claimed partner should be marked unavailable")
	}
}

func TestAssignNoPartnerAvailable(t *testing.T) {
	restaurant := &models.Restaurant{ID: uuid.New(), LocalityCode: "BLR-01"}
	busy := &models.DeliveryPartner{ID: uuid.New(), Available: false, LocalityCode: "BLR-01"}
	elsewhere := &models.DeliveryPartner{ID: uuid.New(), Available: true, LocalityCode: "DEL-02"}
	repo := &stubDeliveryRepo{partners: map[uuid.UUID]*models.DeliveryPartner{busy.ID: busy, elsewhere.ID: elsewhere}}
	svc, _ := NewService(repo, &stubLocator{restaurant: restaurant})

	got, err := svc.Assign(context.Background(), nil, restaurant.ID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if got != nil {
		t.Fatal("expected no assignment when nobody local is free")
	}
}

func TestAssignSkipsLostClaims(t *testing.T) {
	restaurant := &models.Restaurant{ID: uuid.New(), LocalityCode: "BLR-01"}
	contested := &models.DeliveryPartner{ID: uuid.New(), Available: true, LocalityCode: "BLR-01"}
	fallback := &models.DeliveryPartner{ID: uuid.New(), Available: true, LocalityCode: "BLR-01"}
	repo := &stubDeliveryRepo{
		partners:     map[uuid.UUID]*models.DeliveryPartner{contested.ID: contested, fallback.ID: fallback},
		claimResults: map[uuid.UUID]bool{contested.ID: false, fallback.ID: true},
	}
	svc, _ := NewService(repo, &stubLocator{restaurant: restaurant})

	got, err := svc.Assign(context.Background(), nil, restaurant.ID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if got == nil || got.ID != fallback.ID {
		t.Fatal("expected the uncontested partner after losing the first claim")
	}
}

func TestReleaseNilPartnerIsNoop(t *testing.T) {
	repo := &stubDeliveryRepo{}
	svc, _ := NewService(repo, &stubLocator{})

	if err := svc.Release(context.Background(), nil, uuid.Nil); err != nil {
		t.Fatalf("release: %v", err)
	}
	if len(repo.released) != 0 {
		t.Fatal("nil partner id should not hit the repo")
	}
}

func TestSetAvailabilityUnknownPartner(t *testing.T) {
	svc, _ := NewService(&stubDeliveryRepo{}, &stubLocator{})

	err := svc.SetAvailability(context.Background(), uuid.New(), true)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
