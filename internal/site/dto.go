package site

import (
	"github.com/nattapongw/fieldservice/internal/core/common/validation"
	siteDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/site"
)

type CreateSiteDTO struct {
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Province  string   `json:"province"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	IsActive  *bool    `json:"is_active"`
}

func (d *CreateSiteDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("code", d.Code).Required().MaxLength(50)
	validator.Field("name", d.Name).Required().MaxLength(255)
	validator.Field("province", d.Province).MaxLength(100)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func (d *CreateSiteDTO) ToModel() *siteDatamodel.Site {
	s := &siteDatamodel.Site{
		Code:      d.Code,
		Name:      d.Name,
		Province:  d.Province,
		Address:   d.Address,
		Latitude:  d.Latitude,
		Longitude: d.Longitude,
		IsActive:  true,
	}
	if d.IsActive != nil {
		s.IsActive = *d.IsActive
	}
	return s
}

type Filters struct {
	IsActive *bool
	Province string
}
