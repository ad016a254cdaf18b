package adminapi

import (
	"net/http"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/otjiningirua/owfarm/internal/webserver"
)

type logRow struct {
	ID        string `csv:"id"`
	CreatedAt string `csv:"created_at"`
	Actor     string `csv:"actor"`
	Action    string `csv:"action"`
	Entity    string `csv:"entity"`
	EntityID  string `csv:"entity_id"`
	Details   string `csv:"details"`
}

func registerLogRoutes(s *webserver.AdminServer) {
	s.ApiGET("/logs", listLogs)
	s.ApiGET("/logs/export", exportLogs)
}

func listLogs(c echo.Context) error {
	docs, err := GetAppContext(c).Activity().Recent(c.Request().Context())
	if err != nil {
		return storeError(c, err, "Failed to query activity logs")
	}
	return ok(c, docs)
}

func exportLogs(c echo.Context) error {
	docs, err := GetAppContext(c).Activity().Recent(c.Request().Context())
	if err != nil {
		return storeError(c, err, "Failed to query activity logs")
	}
	rows := make([]*logRow, 0, len(docs))
	for _, d := range docs {
		details, _ := json.MarshalToString(d["details"])
		rows = append(rows, &logRow{
			ID:        d.ID(),
			CreatedAt: cast.ToString(d["createdAt"]),
			Actor:     cast.ToString(d["actor"]),
			Action:    cast.ToString(d["action"]),
			Entity:    cast.ToString(d["entity"]),
			EntityID:  cast.ToString(d["entityId"]),
			Details:   details,
		})
	}
	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to export activity logs", err.Error())
	}
	filename := "activity-logs-" + time.Now().Format("20060102") + ".csv"
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
}
