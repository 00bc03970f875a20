package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/talkincode/stonecraft/internal/domain"
	"github.com/talkincode/stonecraft/pkg/common"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func TestCreateAssignsServerControlledFields(t *testing.T) {
	repo := NewGormProductRepository(newTestDB(t))
	ctx := context.Background()

	p1 := domain.Product{Name: "Marble Model M01", Price: 450.00, Category: domain.CategoryMarble}
	p2 := domain.Product{Name: "Granite Model G02", Price: 620.00, Category: domain.CategoryGranite}

	// client-supplied id and timestamps must be ignored
	p1.ID = 42
	p1.CreatedAt = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	before := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, &p1))
	require.NoError(t, repo.Create(ctx, &p2))

	assert.NotEqual(t, int64(42), p1.ID)
	assert.NotEqual(t, p1.ID, p2.ID)
	assert.False(t, p1.CreatedAt.Before(before.Add(-time.Second)))
	assert.Nil(t, p1.UpdatedAt)
}

func TestListOrderingAndCategoryFilter(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	oldest := domain.Product{Name: "old granite", Category: domain.CategoryGranite}
	middle := domain.Product{Name: "mid marble", Category: domain.CategoryMarble}
	newest := domain.Product{Name: "new granite", Category: domain.CategoryGranite}
	require.NoError(t, repo.Create(ctx, &oldest))
	require.NoError(t, repo.Create(ctx, &middle))
	require.NoError(t, repo.Create(ctx, &newest))

	now := time.Now().UTC()
	require.NoError(t, db.Model(&domain.Product{}).Where("id = ?", oldest.ID).
		Update("created_at", now.Add(-2*time.Hour)).Error)
	require.NoError(t, db.Model(&domain.Product{}).Where("id = ?", middle.ID).
		Update("created_at", now.Add(-time.Hour)).Error)

	all, err := repo.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, newest.ID, all[0].ID)
	assert.Equal(t, middle.ID, all[1].ID)
	assert.Equal(t, oldest.ID, all[2].ID)

	granite := domain.CategoryGranite
	filtered, err := repo.List(ctx, &granite)
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	for _, p := range filtered {
		assert.Equal(t, domain.CategoryGranite, p.Category)
	}
}

func TestListTieBreakOnEqualCreationTime(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	a := domain.Product{Name: "a", Category: domain.CategoryMarble}
	b := domain.Product{Name: "b", Category: domain.CategoryMarble}
	require.NoError(t, repo.Create(ctx, &a))
	require.NoError(t, repo.Create(ctx, &b))

	same := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, db.Model(&domain.Product{}).Where("id IN ?", []int64{a.ID, b.ID}).
		Update("created_at", same).Error)

	rows, err := repo.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// higher (newer) id first when creation times are equal
	assert.Equal(t, b.ID, rows[0].ID)
	assert.Equal(t, a.ID, rows[1].ID)
}

func TestGetByIDPreloadsImagesInInsertionOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p := domain.Product{Name: "with images", Category: domain.CategoryTriplex}
	require.NoError(t, repo.Create(ctx, &p))

	first := domain.ImageAsset{ID: common.UUIDint64(), URL: "/uploads/a.png", ProductID: p.ID, CreatedAt: time.Now().UTC()}
	second := domain.ImageAsset{ID: common.UUIDint64(), URL: "/uploads/b.png", ProductID: p.ID, CreatedAt: time.Now().UTC()}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Images, 2)
	assert.Equal(t, first.ID, got.Images[0].ID)
	assert.Equal(t, second.ID, got.Images[1].ID)
}

func TestGetByIDNotFound(t *testing.T) {
	repo := NewGormProductRepository(newTestDB(t))

	_, err := repo.GetByID(context.Background(), 12345)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateReplacesFieldsAndSetsUpdatedAt(t *testing.T) {
	repo := NewGormProductRepository(newTestDB(t))
	ctx := context.Background()

	p := domain.Product{Name: "before", Price: 100, Category: domain.CategoryMarble}
	require.NoError(t, repo.Create(ctx, &p))
	created := p.CreatedAt

	p.Name = "after"
	p.Price = 200
	p.Category = domain.CategoryGranite
	require.NoError(t, repo.Update(ctx, &p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Name)
	assert.Equal(t, 200.0, got.Price)
	assert.Equal(t, domain.CategoryGranite, got.Category)
	assert.Equal(t, created.Unix(), got.CreatedAt.Unix())
	require.NotNil(t, got.UpdatedAt)
}

func TestDeleteCascadesImageRows(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p := domain.Product{Name: "doomed", Category: domain.CategoryMarble}
	require.NoError(t, repo.Create(ctx, &p))
	img := domain.ImageAsset{ID: common.UUIDint64(), URL: "/uploads/x.png", ProductID: p.ID, CreatedAt: time.Now().UTC()}
	require.NoError(t, db.Create(&img).Error)

	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err := repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var imageCount int64
	require.NoError(t, db.Model(&domain.ImageAsset{}).Where("product_id = ?", p.ID).Count(&imageCount).Error)
	assert.Zero(t, imageCount)
}

func TestDeleteMissingProduct(t *testing.T) {
	repo := NewGormProductRepository(newTestDB(t))

	err := repo.Delete(context.Background(), 99999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
