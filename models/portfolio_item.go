package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PortfolioItem is a piece of work owned by exactly one TeamMember.
type PortfolioItem struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	TeamMemberID uuid.UUID `json:"team_member_id" db:"team_member_id" gorm:"type:uuid;not null;index:idx_portfolio_items_team_member_id"`
	Title        string    `json:"title" db:"title" gorm:"type:text;not null"`
	Description  *string   `json:"description" db:"description" gorm:"type:text"`
	ImageURL     *string   `json:"image_url" db:"image_url" gorm:"type:text"`
	Category     *string   `json:"category" db:"category" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at" db:"created_at" gorm:"type:timestamptz;not null;default:now()"`

	TeamMember *TeamMember `json:"team_member,omitempty" gorm:"foreignKey:TeamMemberID;references:ID"`
}

func (PortfolioItem) TableName() string {
	return "portfolio_items"
}

func (p *PortfolioItem) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PortfolioItemFields holds the client-editable columns of a PortfolioItem.
type PortfolioItemFields struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	Category    *string `json:"category"`
}

// NewPortfolioItem builds an unsaved item owned by memberID.
func NewPortfolioItem(memberID uuid.UUID, f PortfolioItemFields) *PortfolioItem {
	p := &PortfolioItem{TeamMemberID: memberID}
	p.Apply(f)
	return p
}

// Apply overwrites the editable columns; blank optional strings become NULL.
func (p *PortfolioItem) Apply(f PortfolioItemFields) {
	p.Title = f.Title
	p.Description = NullableString(f.Description)
	p.ImageURL = NullableString(f.ImageURL)
	p.Category = NullableString(f.Category)
}

func (p PortfolioItem) Fields() PortfolioItemFields {
	return PortfolioItemFields{
		Title:       p.Title,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Category:    p.Category,
	}
}
