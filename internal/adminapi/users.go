package adminapi

import (
	"github.com/otjiningirua/owfarm/internal/domain"
	"github.com/otjiningirua/owfarm/internal/webserver"
)

type userPayload struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"max=64"`
	Location string `json:"location"`
	Type     string `json:"type" validate:"omitempty,oneof=individual business unknown"`
	Status   string `json:"status" validate:"omitempty,oneof=active inactive"`
}

type userUpdatePayload struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Type   *string `json:"type" validate:"omitempty,oneof=individual business unknown"`
	Status *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

var userResource = &resource{
	coll:          domain.Users,
	entity:        "user",
	createPayload: func() interface{} { return &userPayload{} },
	updatePayload: func() interface{} { return &userUpdatePayload{} },
	defaults: map[string]interface{}{
		"type":   "unknown",
		"status": "active",
	},
}

func registerUserRoutes(s *webserver.AdminServer) {
	s.ApiGET("/users", userResource.list)
	s.ApiPOST("/users", userResource.create)
	s.ApiPUT("/users/:id", userResource.update)
	s.ApiDELETE("/users/:id", userResource.delete)
}
