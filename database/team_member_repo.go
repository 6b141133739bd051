package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/virtuality-fashion-backend/errs"
	"github.com/rpupo63/virtuality-fashion-backend/models"
	"gorm.io/gorm"
)

// teamMemberColumns are written on every update; created_at is never touched.
var teamMemberColumns = []string{
	"name", "role", "location", "bio", "portrait",
	"languages", "specialties", "tools", "years_experience", "updated_at",
}

type TeamMemberRepo struct {
	db *gorm.DB
}

func NewTeamMemberRepo(db *gorm.DB) *TeamMemberRepo {
	return &TeamMemberRepo{db}
}

func preloadPortfolio(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

// FindAll returns every team member, newest first, with portfolio items embedded
func (r *TeamMemberRepo) FindAll(ctx context.Context) ([]*models.TeamMember, error) {
	var members []*models.TeamMember
	err := r.db.WithContext(ctx).
		Preload("PortfolioItems", preloadPortfolio).
		Order("created_at DESC").
		Find(&members).Error
	return members, err
}

// FindByID returns a team member by its ID
func (r *TeamMemberRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.TeamMember, error) {
	var member models.TeamMember
	err := r.db.WithContext(ctx).
		Preload("PortfolioItems", preloadPortfolio).
		First(&member, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("team member")
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Add inserts a new team member
func (r *TeamMemberRepo) Add(ctx context.Context, member *models.TeamMember) error {
	return r.db.WithContext(ctx).Omit("PortfolioItems").Create(member).Error
}

// Update overwrites every editable column of an existing team member
func (r *TeamMemberRepo) Update(ctx context.Context, member *models.TeamMember) error {
	res := r.db.WithContext(ctx).
		Model(&models.TeamMember{ID: member.ID}).
		Select(teamMemberColumns).
		Updates(member)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("team member")
	}
	return nil
}

// Delete removes a team member; portfolio items go with it through ON DELETE CASCADE
func (r *TeamMemberRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.TeamMember{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("team member")
	}
	return nil
}

// Count returns the number of team members
func (r *TeamMemberRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.TeamMember{}).Count(&n).Error
	return n, err
}
