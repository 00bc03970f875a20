package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/stonecraft/internal/webserver"
)

func registerStatusRoutes() {
	webserver.PubGET("/status", getStatus)
}

func getStatus(c echo.Context) error {
	sqlDB, err := GetDB(c).DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		return fail(c, http.StatusServiceUnavailable, "DATABASE_ERROR", "Database unavailable", nil)
	}
	return ok(c, map[string]string{"status": "ok"})
}
