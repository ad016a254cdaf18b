package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/otjiningirua/owfarm/internal/domain"
	"github.com/otjiningirua/owfarm/internal/notify"
	"github.com/otjiningirua/owfarm/internal/webserver"
)

type inquiryPayload struct {
	Product  string `json:"product" validate:"max=255"`
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required_without=Phone,omitempty,email"`
	Phone    string `json:"phone" validate:"required_without=Email,max=64"`
	Quantity string `json:"quantity" validate:"max=64"`
	Message  string `json:"message"`
}

type inquiryUpdatePayload struct {
	Status *string `json:"status" validate:"omitempty,oneof=new contacted closed"`
}

var inquiryResource = &resource{
	coll:          domain.Inquiries,
	entity:        "inquiry",
	updatePayload: func() interface{} { return &inquiryUpdatePayload{} },
}

func registerInquiryRoutes(s *webserver.AdminServer) {
	s.PubPOST("/inquiries", createInquiry)

	s.ApiGET("/inquiries", inquiryResource.list)
	s.ApiPUT("/inquiries/:id", inquiryResource.update)
	s.ApiDELETE("/inquiries/:id", inquiryResource.delete)
}

// createInquiry is the public contact form intake. It answers {ok:true}
// and hands the stored inquiry to the notifier.
func createInquiry(c echo.Context) error {
	var payload inquiryPayload
	doc, err := bindPayload(c, &payload)
	if err != nil {
		return handleValidationError(c, err, &payload)
	}
	doc["status"] = "new"

	appCtx := GetAppContext(c)
	rec, err := appCtx.Store().Insert(c.Request().Context(), domain.Inquiries, doc)
	if err != nil {
		return storeError(c, err, "Failed to save inquiry")
	}
	appCtx.Bus().Publish(notify.TopicInquiryCreated, rec)
	return okTrue(c, http.StatusCreated)
}
