package notifications

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/feastline/feastline-backend/pkg/db/models"
	"github.com/feastline/feastline-backend/pkg/enums"
	"github.com/feastline/feastline-backend/pkg/pagination"
	pkgerrors "github.com/feastline/feastline-backend/pkg/errors"
)

type stubNotificationsRepo struct {
	created []models.Notification
	listErr error
}

func (s *stubNotificationsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubNotificationsRepo) Create(ctx context.Context, n *models.Notification) error {
	s.created = append(s.created, *n)
	return nil
}

func (s *stubNotificationsRepo) CreateBatch(ctx context.Context, ns []models.Notification) error {
	s.created = append(s.created, ns...)
	return nil
}

func (s *stubNotificationsRepo) List(ctx context.Context, params listNotificationsParams) ([]models.Notification, *pagination.Cursor, error) {
	if s.listErr != nil {
		return nil, nil, s.listErr
	}
	return s.created, nil, nil
}

func TestOnOrderPlacedNotifiesBothParties(t *testing.T) {
	repo := &stubNotificationsRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	ownerID := uuid.New()
	order := &models.Order{
		ID:          uuid.New(),
		CustomerID:  uuid.New(),
		TotalAmount: decimal.RequireFromString("235.00"),
	}
	if err := svc.OnOrderPlaced(context.Background(), nil, order, ownerID); err != nil {
		t.Fatalf("on order placed: %v", err)
	}

	if len(repo.created) != 2 {
		t.Fatalf("expected 2 notifications got %d", len(repo.created))
	}
	if repo.created[0].UserID != order.CustomerID || repo.created[0].Type != enums.NotificationOrderPlacedCustomer {
		t.Fatalf("unexpected customer notification %+v", repo.created[0])
	}
	if repo.created[1].UserID != ownerID || repo.created[1].Type != enums.NotificationOrderPlacedRestaurant {
		t.Fatalf("unexpected restaurant notification %+v", repo.created[1])
	}
}

func TestOnStatusChangedMentionsBothStatuses(t *testing.T) {
	repo := &stubNotificationsRepo{}
	svc, _ := NewService(repo)

	order := &models.Order{ID: uuid.New(), CustomerID: uuid.New(), Status: enums.OrderStatusOutForDelivery}
	if err := svc.OnStatusChanged(context.Background(), nil, order, enums.OrderStatusPreparing); err != nil {
		t.Fatalf("on status changed: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 notification got %d", len(repo.created))
	}
	if repo.created[0].Message != "Your order moved from preparing to out_for_delivery." {
		t.Fatalf("unexpected message %q", repo.created[0].Message)
	}
}

func TestOnComplaintResolvedTargetsCustomer(t *testing.T) {
	repo := &stubNotificationsRepo{}
	svc, _ := NewService(repo)

	complaint := &models.Complaint{ID: uuid.New(), OrderID: uuid.New(), CustomerID: uuid.New()}
	if err := svc.OnComplaintResolved(context.Background(), nil, complaint); err != nil {
		t.Fatalf("on complaint resolved: %v", err)
	}
	if len(repo.created) != 1 || repo.created[0].UserID != complaint.CustomerID {
		t.Fatalf("expected complaint notification for customer, got %+v", repo.created)
	}
	if repo.created[0].Type != enums.NotificationComplaintResolved {
		t.Fatalf("unexpected type %s", repo.created[0].Type)
	}
}

func TestListRequiresUser(t *testing.T) {
	svc, _ := NewService(&stubNotificationsRepo{})

	_, err := svc.List(context.Background(), ListParams{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListRejectsBadCursor(t *testing.T) {
	svc, _ := NewService(&stubNotificationsRepo{})

	_, err := svc.List(context.Background(), ListParams{UserID: uuid.New(), Cursor: "not-a-cursor"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
