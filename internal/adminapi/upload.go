package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/otjiningirua/owfarm/internal/domain"
	"github.com/otjiningirua/owfarm/internal/store"
	"github.com/otjiningirua/owfarm/internal/webserver"
)

type uploadPayload struct {
	ParentType string `json:"parentType" validate:"required,oneof=ram bean"`
	ParentID   string `json:"parentId" validate:"required"`
	Base64     string `json:"base64" validate:"required"`
	Filename   string `json:"filename" validate:"required"`
	MediaType  string `json:"mediaType" validate:"omitempty,oneof=image video"`
}

func registerUploadRoutes(s *webserver.AdminServer) {
	s.ApiPOST("/upload", uploadMedia)
}

// uploadMedia stores the file, then attaches it to the parent product. An
// unknown parent leaves the file in place without a media record.
func uploadMedia(c echo.Context) error {
	var payload uploadPayload
	if _, err := bindPayload(c, &payload); err != nil {
		return handleValidationError(c, err, &payload)
	}
	appCtx := GetAppContext(c)
	saved, err := appCtx.Uploads().Save(payload.Filename, payload.Base64, payload.MediaType)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_UPLOAD", err.Error(), nil)
	}

	coll, _ := domain.ProductCollection(payload.ParentType)
	ctx := c.Request().Context()
	appended, err := appCtx.Store().AppendMedia(ctx, coll, payload.ParentID, store.Document{
		"type":     saved.Kind,
		"url":      saved.URL,
		"filename": saved.Filename,
	})
	if err != nil {
		return storeError(c, err, "Failed to attach media")
	}
	if appended {
		appCtx.Activity().Record(ctx, domain.ActionUpload, payload.ParentType+"_media", payload.ParentID,
			map[string]interface{}{"url": saved.URL, "filename": saved.Filename})
	} else {
		zap.L().Info("upload parent not found",
			zap.String("namespace", "api"),
			zap.String("parent_type", payload.ParentType),
			zap.String("parent_id", payload.ParentID))
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"ok": true, "url": saved.URL})
}
