package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/talkincode/stonecraft/config"
	"github.com/talkincode/stonecraft/internal/api"
	"github.com/talkincode/stonecraft/internal/app"
	"github.com/talkincode/stonecraft/internal/auth"
	"github.com/talkincode/stonecraft/internal/catalog"
	"github.com/talkincode/stonecraft/internal/media"
	"github.com/talkincode/stonecraft/internal/webserver"
)

var (
	h        = flag.Bool("h", false, "help usage")
	conffile = flag.String("c", "stonecraft.yml", "config file")
	initdb   = flag.Bool("initdb", false, "drop and recreate database schema")
)

func main() {
	flag.Parse()
	if *h {
		flag.Usage()
		os.Exit(0)
	}

	_ = godotenv.Load()

	cfg := config.LoadConfig(*conffile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	store := newStorage(cfg)
	imageRepo := media.NewGormImageRepository(application.DB())
	attachSvc := media.NewAttachService(application.DB(), imageRepo, store)
	productRepo := catalog.NewGormProductRepository(application.DB())
	issuer := auth.NewTokenIssuer(cfg.Web.Secret, cfg.Web.JwtIssuer, cfg.Web.JwtAudience,
		time.Duration(cfg.Web.TokenTTL)*time.Hour)
	verifier := auth.NewStaticVerifier(cfg.Admin.Username, cfg.Admin.Password)

	webserver.Init(application, issuer)
	api.Init(application, productRepo, attachSvc, issuer, verifier)

	errChan := make(chan error, 1)
	go func() {
		errChan <- webserver.Listen()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			zap.S().Fatalf("web server error: %v", err)
		}
	case sig := <-quit:
		zap.S().Infof("received signal %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := webserver.Shutdown(ctx); err != nil {
			zap.S().Errorf("web server shutdown error: %v", err)
		}
	}
}

func newStorage(cfg *config.AppConfig) media.Storage {
	switch cfg.Storage.Type {
	case "cloudinary":
		return media.NewCloudinaryStorage(cfg.Storage.Cloudinary)
	default:
		return media.NewLocalStorage(filepath.Join(cfg.System.Workdir, "uploads"))
	}
}
