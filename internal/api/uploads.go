package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/talkincode/stonecraft/internal/media"
	"github.com/talkincode/stonecraft/internal/webserver"
)

func registerUploadRoutes() {
	webserver.ApiPOST("/uploads", uploadImage)
	webserver.ApiDELETE("/uploads/:id", deleteImage)
}

func uploadImage(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "FILE_REQUIRED", "No file selected", nil)
	}

	pidValue := c.FormValue("product_id")
	if pidValue == "" {
		pidValue = c.FormValue("productId")
	}
	productID, err := strconv.ParseInt(pidValue, 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	src, err := fh.Open()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read upload", nil)
	}
	defer src.Close()

	asset, err := attach.Attach(c.Request().Context(), productID, fh.Filename, src, fh.Size)
	switch {
	case err == nil:
	case errors.Is(err, media.ErrEmptyFile):
		return fail(c, http.StatusBadRequest, "FILE_REQUIRED", "No file selected", nil)
	case errors.Is(err, media.ErrUnsupportedFormat):
		return fail(c, http.StatusBadRequest, "UNSUPPORTED_FORMAT", "Unsupported file format. Allowed: JPG, PNG, WEBP, GIF", nil)
	case errors.Is(err, media.ErrFileTooLarge):
		return fail(c, http.StatusBadRequest, "FILE_TOO_LARGE", "File is too large. Maximum 20MB", nil)
	case errors.Is(err, media.ErrProductNotFound):
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	default:
		zap.L().Error("image upload failed",
			zap.Int64("product_id", productID),
			zap.String("filename", fh.Filename),
			zap.Error(err))
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Internal server error", nil)
	}

	return ok(c, map[string]string{
		"id":  strconv.FormatInt(asset.ID, 10),
		"url": asset.URL,
	})
}

func deleteImage(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid image ID", nil)
	}

	if err := attach.Detach(c.Request().Context(), id); err != nil {
		if errors.Is(err, media.ErrImageNotFound) {
			return fail(c, http.StatusNotFound, "IMAGE_NOT_FOUND", "Image not found", nil)
		}
		zap.L().Error("image delete failed", zap.Int64("image_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Internal server error", nil)
	}

	return ok(c, map[string]interface{}{"id": strconv.FormatInt(id, 10)})
}
