package fees

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/feastline/feastline-backend/pkg/config"
	"github.com/feastline/feastline-backend/pkg/db/models"
	pkgerrors "github.com/feastline/feastline-backend/pkg/errors"
)

// Schedule is the fee pair applied to a checkout.
type Schedule struct {
	DeliveryFee decimal.Decimal
	PlatformFee decimal.Decimal
}

// Repository defines persistence operations for fee rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByRestaurant(ctx context.Context, restaurantID uuid.UUID) (*models.Fee, error)
	FindPlatformDefault(ctx context.Context) (*models.Fee, error)
	Upsert(ctx context.Context, fee *models.Fee) (*models.Fee, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a fees repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByRestaurant(ctx context.Context, restaurantID uuid.UUID) (*models.Fee, error) {
	var fee models.Fee
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		First(&fee).Error
	if err != nil {
		return nil, err
	}
	return &fee, nil
}

func (r *repository) FindPlatformDefault(ctx context.Context) (*models.Fee, error) {
	var fee models.Fee
	err := r.db.WithContext(ctx).
		Where("restaurant_id IS NULL").
		First(&fee).Error
	if err != nil {
		return nil, err
	}
	return &fee, nil
}

func (r *repository) Upsert(ctx context.Context, fee *models.Fee) (*models.Fee, error) {
	if err := r.db.WithContext(ctx).Save(fee).Error; err != nil {
		return nil, err
	}
	return fee, nil
}

// Resolver picks the fee schedule for a restaurant: a restaurant-specific
// row wins, then the platform-wide row, then the configured fallback.
type Resolver interface {
	Resolve(ctx context.Context, restaurantID uuid.UUID) (Schedule, error)
}

type resolver struct {
	repo     Repository
	fallback Schedule
}

// NewResolver builds a fee resolver with the configured fallback schedule.
func NewResolver(repo Repository, cfg config.FeesConfig) (Resolver, error) {
	if repo == nil {
		return nil, fmt.Errorf("fees repository required")
	}
	delivery, err := decimal.NewFromString(cfg.DefaultDeliveryFee)
	if err != nil {
		return nil, fmt.Errorf("invalid default delivery fee %q: %w", cfg.DefaultDeliveryFee, err)
	}
	platform, err := decimal.NewFromString(cfg.DefaultPlatformFee)
	if err != nil {
		return nil, fmt.Errorf("invalid default platform fee %q: %w", cfg.DefaultPlatformFee, err)
	}
	return &resolver{
		repo:     repo,
		fallback: Schedule{DeliveryFee: delivery, PlatformFee: platform},
	}, nil
}

func (r *resolver) Resolve(ctx context.Context, restaurantID uuid.UUID) (Schedule, error) {
	if restaurantID != uuid.Nil {
		fee, err := r.repo.FindByRestaurant(ctx, restaurantID)
		if err == nil {
			return Schedule{DeliveryFee: fee.DeliveryFee, PlatformFee: fee.PlatformFee}, nil
		}
		if err != gorm.ErrRecordNotFound {
			return Schedule{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant fees")
		}
	}

	fee, err := r.repo.FindPlatformDefault(ctx)
	if err == nil {
		return Schedule{DeliveryFee: fee.DeliveryFee, PlatformFee: fee.PlatformFee}, nil
	}
	if err != gorm.ErrRecordNotFound {
		return Schedule{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load platform fees")
	}

	return r.fallback, nil
}
