package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feastline/feastline-backend/pkg/db/models"
	"github.com/feastline/feastline-backend/pkg/enums"
	pkgerrors "github.com/feastline/feastline-backend/pkg/errors"
	"github.com/feastline/feastline-backend/pkg/pagination"
)

// Service writes and lists notifications. Event helpers take the caller's
// transaction so a notification is only ever visible if the state change it
// describes committed.
type Service interface {
	OnOrderPlaced(ctx context.Context, tx *gorm.DB, order *models.Order, restaurantOwnerID uuid.UUID) error
	OnStatusChanged(ctx context.Context, tx *gorm.DB, order *models.Order, from enums.OrderStatus) error
	OnPartnerAssigned(ctx context.Context, tx *gorm.DB, order *models.Order, partnerUserID uuid.UUID) error
	OnComplaintResolved(ctx context.Context, tx *gorm.DB, complaint *models.Complaint) error
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

type service struct {
	repo Repository
}

// ListParams configures pagination for a user's inbox.
type ListParams struct {
	UserID uuid.UUID
	Limit  int
	Cursor string
}

// ListResult wraps returned notifications and the cursor for the next page.
type ListResult struct {
	Items  []models.Notification `json:"items"`
	Cursor string                `json:"cursor"`
}

// NewService wires notifications dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) OnOrderPlaced(ctx context.Context, tx *gorm.DB, order *models.Order, restaurantOwnerID uuid.UUID) error {
	batch := []models.Notification{
		{
			UserID:  order.CustomerID,
			OrderID: &order.ID,
			Type:    enums.NotificationOrderPlacedCustomer,
			Message: fmt.Sprintf("Your order for %s has been placed.", order.TotalAmount.StringFixed(2)),
		},
		{
			UserID:  restaurantOwnerID,
			OrderID: &order.ID,
			Type:    enums.NotificationOrderPlacedRestaurant,
			Message: "You have received a new order.",
		},
	}
	if err := s.repo.WithTx(tx).CreateBatch(ctx, batch); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write order placed notifications")
	}
	return nil
}

func (s *service) OnStatusChanged(ctx context.Context, tx *gorm.DB, order *models.Order, from enums.OrderStatus) error {
	n := &models.Notification{
		UserID:  order.CustomerID,
		OrderID: &order.ID,
		Type:    enums.NotificationOrderStatusChanged,
		Message: fmt.Sprintf("Your order moved from %s to %s.", from, order.Status),
	}
	if err := s.repo.WithTx(tx).Create(ctx, n); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write status notification")
	}
	return nil
}

func (s *service) OnPartnerAssigned(ctx context.Context, tx *gorm.DB, order *models.Order, partnerUserID uuid.UUID) error {
	n := &models.Notification{
		UserID:  partnerUserID,
		OrderID: &order.ID,
		Type:    enums.NotificationOrderAssignedDelivery,
		Message: "A delivery has been assigned to you.",
	}
	if err := s.repo.WithTx(tx).Create(ctx, n); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write assignment notification")
	}
	return nil
}

func (s *service) OnComplaintResolved(ctx context.Context, tx *gorm.DB, complaint *models.Complaint) error {
	n := &models.Notification{
		UserID:  complaint.CustomerID,
		OrderID: &complaint.OrderID,
		Type:    enums.NotificationComplaintResolved,
		Message: "Your complaint has been resolved.",
	}
	if err := s.repo.WithTx(tx).Create(ctx, n); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write complaint notification")
	}
	return nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	query := listNotificationsParams{
		UserID: params.UserID,
		Limit:  params.Limit,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}

	return &ListResult{
		Items:  rows,
		Cursor: cursor,
	}, nil
}
