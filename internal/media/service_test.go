package media

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/talkincode/stonecraft/internal/domain"
	"github.com/talkincode/stonecraft/pkg/common"
)

type fakeStorage struct {
	puts       int
	removed    []string
	failPut    bool
	failRemove bool
}

func (f *fakeStorage) Put(ctx context.Context, filename string, data []byte) (*StoredObject, error) {
	if f.failPut {
		return nil, errors.New("provider unavailable")
	}
	f.puts++
	return &StoredObject{
		URL:      "https://media.example.com/stonecraft/" + filename,
		RemoteID: "stonecraft/" + filename,
	}, nil
}

func (f *fakeStorage) Remove(ctx context.Context, remoteID string) error {
	f.removed = append(f.removed, remoteID)
	if f.failRemove {
		return errors.New("provider unavailable")
	}
	return nil
}

func newTestService(t *testing.T) (*AttachService, *fakeStorage, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))

	store := &fakeStorage{}
	svc := NewAttachService(db, NewGormImageRepository(db), store)
	return svc, store, db
}

func seedProduct(t *testing.T, db *gorm.DB, name string) *domain.Product {
	t.Helper()
	p := &domain.Product{
		ID:        common.UUIDint64(),
		Name:      name,
		Category:  domain.CategoryMarble,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestAttachRejectsEmptyFile(t *testing.T) {
	svc, store, db := newTestService(t)
	p := seedProduct(t, db, "m01")

	_, err := svc.Attach(context.Background(), p.ID, "photo.png", bytes.NewReader(nil), 0)
	assert.ErrorIs(t, err, ErrEmptyFile)
	assert.Zero(t, store.puts)
}

func TestAttachRejectsUnsupportedFormat(t *testing.T) {
	svc, store, db := newTestService(t)
	p := seedProduct(t, db, "m01")

	// rejected regardless of size or content
	_, err := svc.Attach(context.Background(), p.ID, "photo.bmp", bytes.NewReader([]byte("x")), 1)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Zero(t, store.puts)
}

func TestAttachRejectsOversizedFile(t *testing.T) {
	svc, store, db := newTestService(t)
	p := seedProduct(t, db, "m01")

	_, err := svc.Attach(context.Background(), p.ID, "photo.jpg", bytes.NewReader([]byte("x")), 25<<20)
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Zero(t, store.puts)
}

func TestAttachRejectsUnknownProduct(t *testing.T) {
	svc, store, _ := newTestService(t)

	_, err := svc.Attach(context.Background(), 424242, "photo.png", bytes.NewReader([]byte("x")), 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Zero(t, store.puts)
}

func TestAttachPersistsAssetWithDefaults(t *testing.T) {
	svc, store, db := newTestService(t)
	p := seedProduct(t, db, "Marble Model M01")

	asset, err := svc.Attach(context.Background(), p.ID, "Photo.PNG", bytes.NewReader([]byte("imagedata")), 9)
	require.NoError(t, err)
	assert.Equal(t, 1, store.puts)
	assert.NotZero(t, asset.ID)
	assert.Equal(t, p.ID, asset.ProductID)
	assert.Equal(t, "Marble Model M01", asset.Alt)
	assert.Equal(t, "https://media.example.com/stonecraft/Photo.PNG", asset.URL)
	assert.Equal(t, "stonecraft/Photo.PNG", asset.RemoteID)

	var stored domain.ImageAsset
	require.NoError(t, db.First(&stored, asset.ID).Error)
	assert.Equal(t, asset.RemoteID, stored.RemoteID)
}

func TestAttachPropagatesStorageFailure(t *testing.T) {
	svc, store, db := newTestService(t)
	store.failPut = true
	p := seedProduct(t, db, "m01")

	_, err := svc.Attach(context.Background(), p.ID, "photo.png", bytes.NewReader([]byte("x")), 1)
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&domain.ImageAsset{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDetachRemovesRowAndRemoteObject(t *testing.T) {
	svc, store, db := newTestService(t)
	p := seedProduct(t, db, "m01")

	asset, err := svc.Attach(context.Background(), p.ID, "photo.png", bytes.NewReader([]byte("x")), 1)
	require.NoError(t, err)

	require.NoError(t, svc.Detach(context.Background(), asset.ID))
	assert.Equal(t, []string{asset.RemoteID}, store.removed)

	var count int64
	require.NoError(t, db.Model(&domain.ImageAsset{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDetachSurvivesRemoteFailure(t *testing.T) {
	svc, store, db := newTestService(t)
	p := seedProduct(t, db, "m01")

	asset, err := svc.Attach(context.Background(), p.ID, "photo.png", bytes.NewReader([]byte("x")), 1)
	require.NoError(t, err)

	store.failRemove = true
	require.NoError(t, svc.Detach(context.Background(), asset.ID))

	var count int64
	require.NoError(t, db.Model(&domain.ImageAsset{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDetachUnknownImage(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.Detach(context.Background(), 999999)
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestReleaseRemoteBestEffort(t *testing.T) {
	svc, store, _ := newTestService(t)
	store.failRemove = true

	svc.ReleaseRemote(context.Background(), []domain.ImageAsset{
		{ID: 1, RemoteID: "a"},
		{ID: 2, RemoteID: ""},
		{ID: 3, RemoteID: "c"},
	})

	// empty remote ids are skipped; failures do not stop the sweep
	assert.Equal(t, []string{"a", "c"}, store.removed)
}
