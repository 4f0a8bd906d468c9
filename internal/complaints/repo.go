package complaints

import (
	"context"
	"time"

	"github.com/feastline/feastline-backend/pkg/db/models"
	"github.com/feastline/feastline-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for complaints.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, complaint *models.Complaint) (*models.Complaint, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Complaint, error)
	ListByStatus(ctx context.Context, status enums.ComplaintStatus) ([]models.Complaint, error)
	Resolve(ctx context.Context, id uuid.UUID, notes string, now time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a complaints repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, complaint *models.Complaint) (*models.Complaint, error) {
	if err := r.db.WithContext(ctx).Create(complaint).Error; err != nil {
		return nil, err
	}
	return complaint, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&complaint).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&complaints).Error
	if err != nil {
		return nil, err
	}
	return complaints, nil
}

func (r *repository) ListByStatus(ctx context.Context, status enums.ComplaintStatus) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&complaints).Error
	if err != nil {
		return nil, err
	}
	return complaints, nil
}

// Resolve closes an open complaint. The status guard makes a second resolve
// lose instead of overwriting the first resolution.
func (r *repository) Resolve(ctx context.Context, id uuid.UUID, notes string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("id = ? AND status = ?", id, enums.ComplaintStatusOpen).
		Updates(map[string]any{
			"status":           enums.ComplaintStatusResolved,
			"resolution_notes": notes,
			"resolved_at":      now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
