package media

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/talkincode/stonecraft/internal/domain"
	"github.com/talkincode/stonecraft/pkg/common"
)

// MaxUploadSize is the upload size ceiling (20 MiB)
const MaxUploadSize = 20 << 20

var (
	ErrEmptyFile         = errors.New("file is absent or empty")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrFileTooLarge      = errors.New("file exceeds size limit")
	ErrProductNotFound   = errors.New("product not found")
	ErrImageNotFound     = errors.New("image not found")
)

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
	".gif":  {},
}

// AttachService validates, stores and associates image files with products,
// and reverses the association on deletion. Remote removal is best effort:
// a storage backend failure during Detach is logged and never blocks the
// local delete.
type AttachService struct {
	db     *gorm.DB
	images ImageRepository
	store  Storage
}

func NewAttachService(db *gorm.DB, images ImageRepository, store Storage) *AttachService {
	return &AttachService{db: db, images: images, store: store}
}

// Attach stores one image file and links it to the product. The alt text
// defaults to the product name.
func (s *AttachService) Attach(ctx context.Context, productID int64, filename string, r io.Reader, size int64) (*domain.ImageAsset, error) {
	if r == nil || size == 0 {
		return nil, ErrEmptyFile
	}
	if size > MaxUploadSize {
		return nil, ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, ErrUnsupportedFormat
	}

	var product domain.Product
	if err := s.db.WithContext(ctx).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, errors.Wrap(err, "query product")
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "read upload")
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if len(data) > MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	obj, err := s.store.Put(ctx, filename, data)
	if err != nil {
		return nil, errors.Wrap(err, "store image")
	}

	asset := &domain.ImageAsset{
		ID:        common.UUIDint64(),
		URL:       obj.URL,
		Alt:       product.Name,
		ProductID: product.ID,
		RemoteID:  obj.RemoteID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.images.Create(ctx, asset); err != nil {
		// the object is already stored remotely; try not to leak it
		if rmErr := s.store.Remove(ctx, obj.RemoteID); rmErr != nil {
			zap.L().Warn("failed to remove stored object after db error",
				zap.String("remote_id", obj.RemoteID),
				zap.Error(rmErr))
		}
		return nil, errors.Wrap(err, "create image asset")
	}

	zap.L().Info("image attached",
		zap.Int64("image_id", asset.ID),
		zap.Int64("product_id", product.ID),
		zap.String("url", asset.URL))

	return asset, nil
}

// Detach removes an image asset. Remote removal failures are downgraded to
// warnings; the local row is deleted regardless.
func (s *AttachService) Detach(ctx context.Context, imageID int64) error {
	asset, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return errors.Wrap(err, "query image asset")
	}

	if asset.RemoteID != "" {
		if err := s.store.Remove(ctx, asset.RemoteID); err != nil {
			zap.L().Warn("remote image removal failed",
				zap.Int64("image_id", asset.ID),
				zap.String("remote_id", asset.RemoteID),
				zap.Error(err))
		}
	}

	if err := s.images.Delete(ctx, asset.ID); err != nil {
		return errors.Wrap(err, "delete image asset")
	}

	zap.L().Info("image detached", zap.Int64("image_id", asset.ID))
	return nil
}

// ReleaseRemote removes the stored objects for a set of image assets, best
// effort. Used before a product delete cascades over its image rows.
func (s *AttachService) ReleaseRemote(ctx context.Context, assets []domain.ImageAsset) {
	for i := range assets {
		if assets[i].RemoteID == "" {
			continue
		}
		if err := s.store.Remove(ctx, assets[i].RemoteID); err != nil {
			zap.L().Warn("remote image removal failed",
				zap.Int64("image_id", assets[i].ID),
				zap.String("remote_id", assets[i].RemoteID),
				zap.Error(err))
		}
	}
}
