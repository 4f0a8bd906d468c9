package complaints

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feastline/feastline-backend/pkg/db/models"
	"github.com/feastline/feastline-backend/pkg/enums"
	pkgerrors "github.com/feastline/feastline-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type orderReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

type resolutionNotifier interface {
	OnComplaintResolved(ctx context.Context, tx *gorm.DB, complaint *models.Complaint) error
}

// Service handles complaint intake and resolution.
type Service interface {
	Create(ctx context.Context, customerID, orderID uuid.UUID, description string) (*models.Complaint, error)
	MyComplaints(ctx context.Context, customerID uuid.UUID) ([]models.Complaint, error)
	OpenQueue(ctx context.Context) ([]models.Complaint, error)
	Resolve(ctx context.Context, complaintID uuid.UUID, notes string) (*models.Complaint, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	orders orderReader
	notify resolutionNotifier
}

// NewService builds a complaints service with the required dependencies.
func NewService(repo Repository, tx txRunner, orders orderReader, notify resolutionNotifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("complaints repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order reader required")
	}
	if notify == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{repo: repo, tx: tx, orders: orders, notify: notify}, nil
}

func (s *service) Create(ctx context.Context, customerID, orderID uuid.UUID, description string) (*models.Complaint, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description required")
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to you")
	}

	complaint := &models.Complaint{
		OrderID:     order.ID,
		CustomerID:  customerID,
		Description: description,
		Status:      enums.ComplaintStatusOpen,
	}
	created, err := s.repo.Create(ctx, complaint)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create complaint")
	}
	return created, nil
}

func (s *service) MyComplaints(ctx context.Context, customerID uuid.UUID) ([]models.Complaint, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	complaints, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list complaints")
	}
	return complaints, nil
}

func (s *service) OpenQueue(ctx context.Context) ([]models.Complaint, error) {
	complaints, err := s.repo.ListByStatus(ctx, enums.ComplaintStatusOpen)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list open complaints")
	}
	return complaints, nil
}

// Resolve closes the complaint and notifies the customer; both writes share
// one transaction.
func (s *service) Resolve(ctx context.Context, complaintID uuid.UUID, notes string) (*models.Complaint, error) {
	if complaintID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "complaint id required")
	}

	complaint, err := s.repo.FindByID(ctx, complaintID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "complaint not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load complaint")
	}

	now := time.Now().UTC()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		won, err := s.repo.WithTx(tx).Resolve(ctx, complaint.ID, notes, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve complaint")
		}
		if !won {
			return pkgerrors.New(pkgerrors.CodeConflict, "complaint is already resolved")
		}

		complaint.Status = enums.ComplaintStatusResolved
		complaint.ResolutionNotes = &notes
		complaint.ResolvedAt = &now
		return s.notify.OnComplaintResolved(ctx, tx, complaint)
	})
	if err != nil {
		return nil, err
	}
	return complaint, nil
}
