package adminapi

import (
	"math"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/otjiningirua/owfarm/internal/domain"
	"github.com/otjiningirua/owfarm/internal/stock"
	"github.com/otjiningirua/owfarm/internal/webserver"
)

type stockMovementPayload struct {
	ProductType    string   `json:"productType" validate:"required,oneof=ram bean"`
	ProductID      string   `json:"productId" validate:"required"`
	QuantityChange *float64 `json:"quantityChange" validate:"required,ne=0"`
	Note           string   `json:"note" validate:"max=500"`
}

func registerStockRoutes(s *webserver.AdminServer) {
	s.ApiGET("/stock/movements", listStockMovements)
	s.ApiPOST("/stock/movements", createStockMovement)
	s.ApiGET("/stock/summary", stockSummary)
}

func listStockMovements(c echo.Context) error {
	docs, err := GetStore(c).List(c.Request().Context(), domain.StockMovements, 0)
	if err != nil {
		return storeError(c, err, "Failed to query stock movements")
	}
	return ok(c, docs)
}

// createStockMovement appends to the ledger. Movements are never updated or
// deleted.
func createStockMovement(c echo.Context) error {
	var payload stockMovementPayload
	doc, err := bindPayload(c, &payload)
	if err != nil {
		return handleValidationError(c, err, &payload)
	}
	qty := *payload.QuantityChange
	if qty != math.Trunc(qty) || math.Abs(qty) > math.MaxInt32 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "quantityChange must be a whole number", nil)
	}
	doc["quantityChange"] = int64(qty)
	doc["productId"] = cast.ToString(doc["productId"])

	appCtx := GetAppContext(c)
	rec, err := appCtx.Store().Insert(c.Request().Context(), domain.StockMovements, doc)
	if err != nil {
		return storeError(c, err, "Failed to create stock movement")
	}
	appCtx.Activity().Record(c.Request().Context(), domain.ActionCreate, "stock_movement", rec.ID(), rec)
	return created(c, rec)
}

func stockSummary(c echo.Context) error {
	productType := c.QueryParam("type")
	if !stock.ValidType(productType) {
		return fail(c, http.StatusBadRequest, "INVALID_TYPE", "type must be ram or bean", nil)
	}
	ctx := c.Request().Context()
	s := GetStore(c)
	rams, err := s.List(ctx, domain.Rams, 0)
	if err != nil {
		return storeError(c, err, "Failed to query rams")
	}
	beans, err := s.List(ctx, domain.Beans, 0)
	if err != nil {
		return storeError(c, err, "Failed to query beans")
	}
	movements, err := s.List(ctx, domain.StockMovements, 0)
	if err != nil {
		return storeError(c, err, "Failed to query stock movements")
	}
	return ok(c, stock.Summarize(rams, beans, movements, productType))
}
