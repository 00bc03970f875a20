package app

import (
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/talkincode/stonecraft/internal/domain"
	"github.com/talkincode/stonecraft/pkg/common"
)

// checkStorageDir ensures the local upload directory exists
func (a *Application) checkStorageDir() {
	dir := filepath.Join(a.appConfig.System.Workdir, "uploads")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		zap.L().Error("failed to create uploads dir", zap.String("dir", dir), zap.Error(err))
	}
}

// checkDemoProducts seeds a starter catalog when the product table is empty
func (a *Application) checkDemoProducts() {
	var count int64
	a.gormDB.Model(&domain.Product{}).Count(&count)
	if count > 0 {
		return
	}

	defaultProducts := []domain.Product{
		{Name: "Marble Model M01", Description: "Classic white marble monument", Price: 450.00, Category: domain.CategoryMarble},
		{Name: "Granite Model G02", Description: "Polished dark granite monument", Price: 620.00, Category: domain.CategoryGranite},
		{Name: "Triplex Model T01", Description: "Three-piece triplex monument", Price: 980.00, Category: domain.CategoryTriplex},
	}

	for _, p := range defaultProducts {
		p.ID = common.UUIDint64()
		p.CreatedAt = time.Now().UTC()
		if err := a.gormDB.Create(&p).Error; err != nil {
			zap.L().Error("failed to create default product", zap.String("name", p.Name), zap.Error(err))
		} else {
			zap.L().Info("initialized default product", zap.String("name", p.Name))
		}
	}
}
