package webserver

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo-contrib/echoprometheus"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/talkincode/stonecraft/internal/app"
	"github.com/talkincode/stonecraft/internal/auth"
)

// DBContextKey is the echo context key under which the gorm handle is stored
const DBContextKey = "stonecraft_db"

var server *WebServer

// WebServer wraps the echo engine with the public and admin route groups.
// Admin routes require a valid bearer credential; public routes do not.
type WebServer struct {
	root   *echo.Echo
	appctx app.AppContext
	pub    *echo.Group
	adm    *echo.Group
}

// Init builds the web server singleton: middleware stack, JWT-gated admin
// group and static upload serving for the local storage backend.
func Init(appctx app.AppContext, issuer *auth.TokenIssuer) {
	cfg := appctx.Config()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.Validator = NewWebValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Web.CorsOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				zap.L().Warn("request", fields...)
			} else {
				zap.L().Info("request", fields...)
			}
			return nil
		},
	}))
	e.Use(echoprometheus.NewMiddleware("stonecraft"))
	e.GET("/metrics", echoprometheus.NewHandler())

	// expose the database handle to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(DBContextKey, appctx.DB())
			return next(c)
		}
	})

	if cfg.Storage.Type == "local" {
		e.Static("/uploads", filepath.Join(cfg.System.Workdir, "uploads"))
	}

	pub := e.Group("/api")
	adm := e.Group("/api", echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			claims, err := issuer.Parse(tokenString)
			if err != nil {
				return nil, err
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, map[string]interface{}{
				"code":    "UNAUTHORIZED",
				"message": "Missing or invalid credential",
			})
		},
	}))

	server = &WebServer{root: e, appctx: appctx, pub: pub, adm: adm}
}

// Engine returns the underlying echo instance (used by tests)
func Engine() *echo.Echo {
	return server.root
}

// Listen starts the HTTP listener and blocks until shutdown
func Listen() error {
	cfg := server.appctx.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	zap.S().Infof("Starting web server on %s", addr)
	return server.root.Start(addr)
}

// Shutdown gracefully stops the HTTP listener
func Shutdown(ctx context.Context) error {
	return server.root.Shutdown(ctx)
}

// PubGET registers a public GET route under /api
func PubGET(path string, h echo.HandlerFunc) {
	server.pub.GET(path, h)
}

// PubPOST registers a public POST route under /api
func PubPOST(path string, h echo.HandlerFunc) {
	server.pub.POST(path, h)
}

// ApiGET registers a credential-gated GET route under /api
func ApiGET(path string, h echo.HandlerFunc) {
	server.adm.GET(path, h)
}

// ApiPOST registers a credential-gated POST route under /api
func ApiPOST(path string, h echo.HandlerFunc) {
	server.adm.POST(path, h)
}

// ApiPUT registers a credential-gated PUT route under /api
func ApiPUT(path string, h echo.HandlerFunc) {
	server.adm.PUT(path, h)
}

// ApiDELETE registers a credential-gated DELETE route under /api
func ApiDELETE(path string, h echo.HandlerFunc) {
	server.adm.DELETE(path, h)
}
