package adminapi

import (
	"github.com/otjiningirua/owfarm/internal/domain"
	"github.com/otjiningirua/owfarm/internal/webserver"
)

type orderPayload struct {
	UserID      string        `json:"userId"`
	Status      string        `json:"status" validate:"max=32"`
	TotalAmount *float64      `json:"totalAmount" validate:"required,gte=0"`
	Items       []interface{} `json:"items"`
	Notes       string        `json:"notes"`
}

type orderUpdatePayload struct {
	Status      *string       `json:"status" validate:"omitempty,max=32"`
	TotalAmount *float64      `json:"totalAmount" validate:"omitempty,gte=0"`
	Items       []interface{} `json:"items"`
}

var orderResource = &resource{
	coll:          domain.Orders,
	entity:        "order",
	createPayload: func() interface{} { return &orderPayload{} },
	updatePayload: func() interface{} { return &orderUpdatePayload{} },
	defaults: map[string]interface{}{
		"status": "pending",
		"items":  []interface{}{},
	},
}

func registerOrderRoutes(s *webserver.AdminServer) {
	s.ApiGET("/orders", orderResource.list)
	s.ApiPOST("/orders", orderResource.create)
	s.ApiPUT("/orders/:id", orderResource.update)
	s.ApiDELETE("/orders/:id", orderResource.delete)
}
