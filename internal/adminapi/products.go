package adminapi

import (
	"github.com/otjiningirua/owfarm/internal/domain"
	"github.com/otjiningirua/owfarm/internal/webserver"
)

type ramPayload struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Description string   `json:"description"`
	Breed       string   `json:"breed" validate:"max=100"`
	BornDate    string   `json:"bornDate"`
	Weight      *float64 `json:"weight" validate:"omitempty,gte=0"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Status      string   `json:"status" validate:"omitempty,oneof=available sold reserved"`
}

type ramUpdatePayload struct {
	Name   *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Breed  *string  `json:"breed" validate:"omitempty,max=100"`
	Weight *float64 `json:"weight" validate:"omitempty,gte=0"`
	Price  *float64 `json:"price" validate:"omitempty,gte=0"`
	Status *string  `json:"status" validate:"omitempty,oneof=available sold reserved"`
}

type beanPayload struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Description string   `json:"description"`
	Variety     string   `json:"variety" validate:"max=100"`
	PricePerKg  *float64 `json:"pricePerKg" validate:"omitempty,gte=0"`
	Status      string   `json:"status" validate:"omitempty,oneof=available sold reserved"`
}

type beanUpdatePayload struct {
	Name       *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Variety    *string  `json:"variety" validate:"omitempty,max=100"`
	PricePerKg *float64 `json:"pricePerKg" validate:"omitempty,gte=0"`
	Status     *string  `json:"status" validate:"omitempty,oneof=available sold reserved"`
}

var (
	ramResource = &resource{
		coll:          domain.Rams,
		entity:        domain.ProductRam,
		createPayload: func() interface{} { return &ramPayload{} },
		updatePayload: func() interface{} { return &ramUpdatePayload{} },
	}
	beanResource = &resource{
		coll:          domain.Beans,
		entity:        domain.ProductBean,
		createPayload: func() interface{} { return &beanPayload{} },
		updatePayload: func() interface{} { return &beanUpdatePayload{} },
	}
)

// registerProductRoutes registers the catalog routes, public listing included
func registerProductRoutes(s *webserver.AdminServer) {
	s.PubGET("/rams", ramResource.list)
	s.PubGET("/beans", beanResource.list)

	for path, r := range map[string]*resource{"/rams": ramResource, "/beans": beanResource} {
		s.ApiGET(path, r.list)
		s.ApiGET(path+"/:id", r.get)
		s.ApiPOST(path, r.create)
		s.ApiPUT(path+"/:id", r.update)
		s.ApiDELETE(path+"/:id", r.delete)
	}
}
