package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/otjiningirua/owfarm/internal/domain"
	"github.com/otjiningirua/owfarm/internal/webserver"
)

type settingsPayload struct {
	ContactPhone   *string `json:"contactPhone" validate:"omitempty,max=64"`
	ContactEmail   *string `json:"contactEmail" validate:"omitempty,email"`
	Location       *string `json:"location" validate:"omitempty,max=255"`
	WhatsappNumber *string `json:"whatsappNumber" validate:"omitempty,max=64"`
}

func registerSettingsRoutes(s *webserver.AdminServer) {
	s.PubGET("/settings", getSettings)
	s.ApiGET("/settings", getSettings)
	s.ApiPUT("/settings", updateSettings)
}

func getSettings(c echo.Context) error {
	doc, err := GetStore(c).Settings(c.Request().Context())
	if err != nil {
		return storeError(c, err, "Failed to query settings")
	}
	return ok(c, doc)
}

func updateSettings(c echo.Context) error {
	var payload settingsPayload
	doc, err := bindPayload(c, &payload)
	if err != nil {
		return handleValidationError(c, err, &payload)
	}
	appCtx := GetAppContext(c)
	if _, err := appCtx.Store().SaveSettings(c.Request().Context(), doc); err != nil {
		return storeError(c, err, "Failed to save settings")
	}
	appCtx.Activity().Record(c.Request().Context(), domain.ActionUpdate, "settings", "settings", doc)
	return okTrue(c, http.StatusOK)
}
