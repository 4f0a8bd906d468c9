package delivery

import (
	"context"

	"github.com/feastline/feastline-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a delivery partner repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.DeliveryPartner, error) {
	var partner models.DeliveryPartner
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&partner).Error
	if err != nil {
		return nil, err
	}
	return &partner, nil
}

func (r *repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.DeliveryPartner, error) {
	var partner models.DeliveryPartner
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&partner).Error
	if err != nil {
		return nil, err
	}
	return &partner, nil
}

func (r *repository) ListAvailableByLocality(ctx context.Context, localityCode string) ([]models.DeliveryPartner, error) {
	var partners []models.DeliveryPartner
	err := r.db.WithContext(ctx).
		Where("locality_code = ? AND available = ?", localityCode, true).
		Order("created_at ASC").
		Find(&partners).Error
	if err != nil {
		return nil, err
	}
	return partners, nil
}

// ClaimPartner flips available to false iff it is still true. The returned
// bool reports whether this caller won the claim.
func (r *repository) ClaimPartner(ctx context.Context, partnerID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.DeliveryPartner{}).
		Where("id = ? AND available = ?", partnerID, true).
		Update("available", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) ClaimPartnerByUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.DeliveryPartner{}).
		Where("user_id = ? AND available = ?", userID, true).
		Update("available", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Release marks the partner available again. Releasing an already-available
// partner is a no-op.
func (r *repository) Release(ctx context.Context, partnerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.DeliveryPartner{}).
		Where("id = ?", partnerID).
		Update("available", true).Error
}

func (r *repository) SetAvailability(ctx context.Context, userID uuid.UUID, available bool) error {
	return r.db.WithContext(ctx).
		Model(&models.DeliveryPartner{}).
		Where("user_id = ?", userID).
		Update("available", available).Error
}
