package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TeamMember is a designer profile shown on the public roster.
type TeamMember struct {
	ID              uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name            string                      `json:"name" db:"name" gorm:"type:text;not null"`
	Role            string                      `json:"role" db:"role" gorm:"type:text;not null"`
	Location        string                      `json:"location" db:"location" gorm:"type:text;not null"`
	Bio             string                      `json:"bio" db:"bio" gorm:"type:text;not null"`
	Portrait        *string                     `json:"portrait" db:"portrait" gorm:"type:text"`
	Languages       datatypes.JSONSlice[string] `json:"languages" db:"languages" gorm:"type:jsonb;not null;default:'[]'"`
	Specialties     datatypes.JSONSlice[string] `json:"specialties" db:"specialties" gorm:"type:jsonb;not null;default:'[]'"`
	Tools           datatypes.JSONSlice[string] `json:"tools" db:"tools" gorm:"type:jsonb;not null;default:'[]'"`
	YearsExperience int                         `json:"years_experience" db:"years_experience" gorm:"type:integer;not null;default:0;check:years_experience >= 0"`
	CreatedAt       time.Time                   `json:"created_at" db:"created_at" gorm:"type:timestamptz;not null;default:now();index:idx_team_members_created_at,sort:desc"`
	UpdatedAt       time.Time                   `json:"updated_at" db:"updated_at" gorm:"type:timestamptz;not null;default:now()"`

	PortfolioItems []PortfolioItem `json:"portfolio_items,omitempty" gorm:"foreignKey:TeamMemberID;references:ID;constraint:OnDelete:CASCADE"`
}

func (TeamMember) TableName() string {
	return "team_members"
}

// BeforeCreate assigns the id client-side so the row can be reloaded without RETURNING.
func (m *TeamMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TeamMemberFields holds every client-editable column of a TeamMember.
// Identity and timestamps are never accepted from callers.
type TeamMemberFields struct {
	Name            string   `json:"name"`
	Role            string   `json:"role"`
	Location        string   `json:"location"`
	Bio             string   `json:"bio"`
	Portrait        *string  `json:"portrait"`
	Languages       []string `json:"languages"`
	Specialties     []string `json:"specialties"`
	Tools           []string `json:"tools"`
	YearsExperience int      `json:"years_experience"`
}

// NewTeamMember builds an unsaved member from fields.
func NewTeamMember(f TeamMemberFields) *TeamMember {
	m := &TeamMember{}
	m.Apply(f)
	return m
}

// Apply overwrites every editable column with f. Blank portraits become NULL,
// nil lists become empty lists and negative experience becomes 0.
func (m *TeamMember) Apply(f TeamMemberFields) {
	m.Name = f.Name
	m.Role = f.Role
	m.Location = f.Location
	m.Bio = f.Bio
	m.Portrait = NullableString(f.Portrait)
	m.Languages = datatypes.JSONSlice[string](NonNil(f.Languages))
	m.Specialties = datatypes.JSONSlice[string](NonNil(f.Specialties))
	m.Tools = datatypes.JSONSlice[string](NonNil(f.Tools))
	m.YearsExperience = max(f.YearsExperience, 0)
}

// Fields returns the editable columns of m.
func (m TeamMember) Fields() TeamMemberFields {
	return TeamMemberFields{
		Name:            m.Name,
		Role:            m.Role,
		Location:        m.Location,
		Bio:             m.Bio,
		Portrait:        m.Portrait,
		Languages:       NonNil(m.Languages),
		Specialties:     NonNil(m.Specialties),
		Tools:           NonNil(m.Tools),
		YearsExperience: m.YearsExperience,
	}
}

// Normalize makes list fields non-nil so they encode as [] rather than null.
func (m *TeamMember) Normalize() {
	m.Languages = datatypes.JSONSlice[string](NonNil(m.Languages))
	m.Specialties = datatypes.JSONSlice[string](NonNil(m.Specialties))
	m.Tools = datatypes.JSONSlice[string](NonNil(m.Tools))
	if m.PortfolioItems == nil {
		m.PortfolioItems = []PortfolioItem{}
	}
}

// Initials is used when a member has no portrait.
func (m TeamMember) Initials() string {
	var out []rune
	start := true
	for _, r := range m.Name {
		if r == ' ' {
			start = true
			continue
		}
		if start {
			out = append(out, r)
			start = false
		}
	}
	return string(out)
}
