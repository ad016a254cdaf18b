package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/otjiningirua/owfarm/internal/domain"
	"github.com/otjiningirua/owfarm/internal/store"
)

// resource implements list/get/create/update/delete for one collection.
// Payload factories return pointers to the typed create and update
// payloads the request body is validated against; the stored document is
// the request body itself.
type resource struct {
	coll          domain.Collection
	entity        string
	createPayload func() interface{}
	updatePayload func() interface{}
	defaults      store.Document
	// prepare may normalize the body after validation
	prepare func(payload interface{}, doc store.Document)
}

func (r *resource) list(c echo.Context) error {
	docs, err := GetStore(c).List(c.Request().Context(), r.coll, 0)
	if err != nil {
		return storeError(c, err, "Failed to query "+string(r.coll))
	}
	return ok(c, docs)
}

func (r *resource) get(c echo.Context) error {
	doc, err := GetStore(c).Get(c.Request().Context(), r.coll, c.Param("id"))
	if err != nil {
		return storeError(c, err, "Failed to query "+r.entity)
	}
	return ok(c, doc)
}

func (r *resource) create(c echo.Context) error {
	payload := r.createPayload()
	doc, err := bindPayload(c, payload)
	if err != nil {
		return handleValidationError(c, err, payload)
	}
	for k, v := range r.defaults {
		if _, exists := doc[k]; !exists {
			doc[k] = v
		}
	}
	if r.prepare != nil {
		r.prepare(payload, doc)
	}

	appCtx := GetAppContext(c)
	rec, err := appCtx.Store().Insert(c.Request().Context(), r.coll, doc)
	if err != nil {
		return storeError(c, err, "Failed to create "+r.entity)
	}
	appCtx.Activity().Record(c.Request().Context(), domain.ActionCreate, r.entity, rec.ID(), rec)
	return created(c, rec)
}

func (r *resource) update(c echo.Context) error {
	payload := r.updatePayload()
	doc, err := bindPayload(c, payload)
	if err != nil {
		return handleValidationError(c, err, payload)
	}
	if r.prepare != nil {
		r.prepare(payload, doc)
	}

	id := c.Param("id")
	appCtx := GetAppContext(c)
	rec, err := appCtx.Store().Update(c.Request().Context(), r.coll, id, doc)
	if err != nil {
		return storeError(c, err, "Failed to update "+r.entity)
	}
	appCtx.Activity().Record(c.Request().Context(), domain.ActionUpdate, r.entity, id, doc)
	return ok(c, rec)
}

// delete is idempotent: an unknown id still answers ok and is audited
func (r *resource) delete(c echo.Context) error {
	id := c.Param("id")
	appCtx := GetAppContext(c)
	if err := appCtx.Store().Delete(c.Request().Context(), r.coll, id); err != nil {
		return storeError(c, err, "Failed to delete "+r.entity)
	}
	appCtx.Activity().Record(c.Request().Context(), domain.ActionDelete, r.entity, id, nil)
	return okTrue(c, http.StatusOK)
}
