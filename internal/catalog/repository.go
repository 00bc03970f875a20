package catalog

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/talkincode/stonecraft/internal/domain"
	"github.com/talkincode/stonecraft/pkg/common"
)

// ProductRepository handles database operations for catalog products
type ProductRepository interface {
	// List retrieves all products with their images, newest first. A non-nil
	// category restricts the result to that category.
	List(ctx context.Context, category *domain.Category) ([]domain.Product, error)

	// GetByID retrieves a product with its images, or gorm.ErrRecordNotFound
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// Create persists a new product, assigning id and creation time
	Create(ctx context.Context, p *domain.Product) error

	// Update persists a full replace of the product's mutable fields
	Update(ctx context.Context, p *domain.Product) error

	// Delete removes the product and all its image rows in one transaction
	Delete(ctx context.Context, id int64) error
}

// GormProductRepository is the GORM implementation of ProductRepository
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// imagesByInsertion preloads image rows in insertion order. Snowflake ids are
// time ordered, so id order is insertion order.
func imagesByInsertion(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

func (r *GormProductRepository) List(ctx context.Context, category *domain.Category) ([]domain.Product, error) {
	query := r.db.WithContext(ctx).Preload("Images", imagesByInsertion)
	if category != nil {
		query = query.Where("category = ?", *category)
	}

	rows := make([]domain.Product, 0)
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

func (r *GormProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).
		Preload("Images", imagesByInsertion).
		First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormProductRepository) Create(ctx context.Context, p *domain.Product) error {
	// id and creation time are always server-controlled
	p.ID = common.UUIDint64()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = nil
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *GormProductRepository) Update(ctx context.Context, p *domain.Product) error {
	now := time.Now().UTC()
	p.UpdatedAt = &now
	return r.db.WithContext(ctx).Omit("Images").Save(p).Error
}

func (r *GormProductRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Product
		if err := tx.First(&p, id).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&domain.ImageAsset{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Product{}, id).Error
	})
}
