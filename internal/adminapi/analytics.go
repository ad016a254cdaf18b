package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/otjiningirua/owfarm/internal/domain"
	"github.com/otjiningirua/owfarm/internal/webserver"
)

const analyticsListLimit = 500

type analyticsPayload struct {
	EventName string      `json:"eventName" validate:"required,max=100"`
	Path      string      `json:"path" validate:"max=255"`
	Metadata  interface{} `json:"metadata"`
}

func registerAnalyticsRoutes(s *webserver.AdminServer) {
	s.PubPOST("/analytics", trackAnalytics)
	s.ApiGET("/analytics", listAnalytics)
}

func trackAnalytics(c echo.Context) error {
	var payload analyticsPayload
	if _, err := bindPayload(c, &payload); err != nil {
		return handleValidationError(c, err, &payload)
	}
	_, err := GetStore(c).Insert(c.Request().Context(), domain.AnalyticsEvents, map[string]interface{}{
		"eventName": payload.EventName,
		"path":      payload.Path,
		"metadata":  payload.Metadata,
	})
	if err != nil {
		return storeError(c, err, "Failed to save analytics event")
	}
	return okTrue(c, http.StatusCreated)
}

func listAnalytics(c echo.Context) error {
	docs, err := GetStore(c).List(c.Request().Context(), domain.AnalyticsEvents, analyticsListLimit)
	if err != nil {
		return storeError(c, err, "Failed to query analytics events")
	}
	return ok(c, docs)
}
