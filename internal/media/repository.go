package media

import (
	"context"

	"gorm.io/gorm"

	"github.com/talkincode/stonecraft/internal/domain"
)

// ImageRepository handles database operations for image asset rows
type ImageRepository interface {
	// Create inserts a new image asset
	Create(ctx context.Context, asset *domain.ImageAsset) error

	// GetByID retrieves an image asset by ID
	GetByID(ctx context.Context, id int64) (*domain.ImageAsset, error)

	// Delete removes an image asset row
	Delete(ctx context.Context, id int64) error
}

// GormImageRepository is the GORM implementation of ImageRepository
type GormImageRepository struct {
	db *gorm.DB
}

func NewGormImageRepository(db *gorm.DB) *GormImageRepository {
	return &GormImageRepository{db: db}
}

func (r *GormImageRepository) Create(ctx context.Context, asset *domain.ImageAsset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

func (r *GormImageRepository) GetByID(ctx context.Context, id int64) (*domain.ImageAsset, error) {
	var asset domain.ImageAsset
	err := r.db.WithContext(ctx).First(&asset, id).Error
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *GormImageRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.ImageAsset{}, id).Error
}
