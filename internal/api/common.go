package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/talkincode/stonecraft/internal/app"
	"github.com/talkincode/stonecraft/internal/auth"
	"github.com/talkincode/stonecraft/internal/catalog"
	"github.com/talkincode/stonecraft/internal/media"
	"github.com/talkincode/stonecraft/internal/webserver"
)

var (
	appctx   app.AppContext
	products catalog.ProductRepository
	attach   *media.AttachService
	issuer   *auth.TokenIssuer
	verifier auth.CredentialVerifier
)

// Init wires handler dependencies and registers all routes on the web server
func Init(
	ctx app.AppContext,
	productRepo catalog.ProductRepository,
	attachSvc *media.AttachService,
	tokenIssuer *auth.TokenIssuer,
	credVerifier auth.CredentialVerifier,
) {
	appctx = ctx
	products = productRepo
	attach = attachSvc
	issuer = tokenIssuer
	verifier = credVerifier

	registerStatusRoutes()
	registerAuthRoutes()
	registerProductRoutes()
	registerUploadRoutes()
}

// GetDB returns the request-scoped gorm handle installed by the web server
func GetDB(c echo.Context) *gorm.DB {
	return c.Get(webserver.DBContextKey).(*gorm.DB)
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	body := map[string]interface{}{
		"code":    code,
		"message": message,
	}
	if details != nil {
		body["details"] = details
	}
	return c.JSON(status, body)
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func handleValidationError(c echo.Context, err error) error {
	return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Request validation failed", err.Error())
}
