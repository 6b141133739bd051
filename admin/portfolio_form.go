package admin

import (
	"net/url"
	"strings"

	"github.com/rpupo63/virtuality-fashion-backend/errs"
	"github.com/rpupo63/virtuality-fashion-backend/models"
)

// PortfolioForm is the add/edit portfolio item form.
type PortfolioForm struct {
	Title       string
	Description string
	Category    string
	ImageURL    string
}

func DecodePortfolioForm(v url.Values) PortfolioForm {
	return PortfolioForm{
		Title:       strings.TrimSpace(v.Get("title")),
		Description: strings.TrimSpace(v.Get("description")),
		Category:    strings.TrimSpace(v.Get("category")),
		ImageURL:    strings.TrimSpace(v.Get("image_url")),
	}
}

func PortfolioFormFrom(item models.PortfolioItem) PortfolioForm {
	return PortfolioForm{
		Title:       item.Title,
		Description: models.Deref(item.Description),
		Category:    models.Deref(item.Category),
		ImageURL:    models.Deref(item.ImageURL),
	}
}

func (f PortfolioForm) Validate() errs.FieldErrors {
	return ValidatePortfolioItem(f.ToFields())
}

func ValidatePortfolioItem(p models.PortfolioItemFields) errs.FieldErrors {
	fe := errs.FieldErrors{}
	if strings.TrimSpace(p.Title) == "" {
		fe.Add("title", "Title is required")
	}
	return fe
}

func (f PortfolioForm) ToFields() models.PortfolioItemFields {
	return models.PortfolioItemFields{
		Title:       f.Title,
		Description: models.StringPtr(f.Description),
		Category:    models.StringPtr(f.Category),
		ImageURL:    models.StringPtr(f.ImageURL),
	}
}
