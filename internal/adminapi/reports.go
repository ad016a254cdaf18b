package adminapi

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/otjiningirua/owfarm/internal/report"
	"github.com/otjiningirua/owfarm/internal/webserver"
	"github.com/otjiningirua/owfarm/pkg/metrics"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func registerReportRoutes(s *webserver.AdminServer) {
	s.ApiGET("/reports/overview", reportOverview)
	s.ApiGET("/reports/overview/export", exportReportOverview)
	s.ApiGET("/reports/metrics", reportMetrics)
}

func computeOverview(c echo.Context) (report.Overview, error) {
	snap, err := report.Load(c.Request().Context(), GetStore(c))
	if err != nil {
		return report.Overview{}, err
	}
	return report.Compute(snap, time.Now()), nil
}

func reportOverview(c echo.Context) error {
	ov, err := computeOverview(c)
	if err != nil {
		return storeError(c, err, "Failed to compute report")
	}
	return ok(c, ov)
}

func exportReportOverview(c echo.Context) error {
	ov, err := computeOverview(c)
	if err != nil {
		return storeError(c, err, "Failed to compute report")
	}
	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, ov); err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to export report", err.Error())
	}
	filename := "overview-" + time.Now().Format("20060102") + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

// reportMetrics returns one runtime series, minutes defaults to 60 and is
// capped at one day.
func reportMetrics(c echo.Context) error {
	name := strings.TrimSpace(c.QueryParam("name"))
	if name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "name is required", nil)
	}
	minutes := cast.ToInt(c.QueryParam("minutes"))
	if minutes <= 0 {
		minutes = 60
	}
	if minutes > 1440 {
		minutes = 1440
	}
	points, err := metrics.Series(name, time.Duration(minutes)*time.Minute)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "METRICS_ERROR", "Failed to query metrics", err.Error())
	}
	return ok(c, map[string]interface{}{"name": name, "minutes": minutes, "points": points})
}
