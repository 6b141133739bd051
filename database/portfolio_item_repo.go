package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/virtuality-fashion-backend/errs"
	"github.com/rpupo63/virtuality-fashion-backend/models"
	"gorm.io/gorm"
)

var portfolioItemColumns = []string{"title", "description", "image_url", "category"}

type PortfolioItemRepo struct {
	db *gorm.DB
}

func NewPortfolioItemRepo(db *gorm.DB) *PortfolioItemRepo {
	return &PortfolioItemRepo{db}
}

// FindAll returns every portfolio item, newest first, with the owning member embedded
func (r *PortfolioItemRepo) FindAll(ctx context.Context) ([]*models.PortfolioItem, error) {
	var items []*models.PortfolioItem
	err := r.db.WithContext(ctx).
		Preload("TeamMember").
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// FindByMember returns the portfolio of one team member, newest first
func (r *PortfolioItemRepo) FindByMember(ctx context.Context, memberID uuid.UUID) ([]*models.PortfolioItem, error) {
	var items []*models.PortfolioItem
	err := r.db.WithContext(ctx).
		Where("team_member_id = ?", memberID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// FindByID returns a portfolio item with its owner
func (r *PortfolioItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.PortfolioItem, error) {
	var item models.PortfolioItem
	err := r.db.WithContext(ctx).Preload("TeamMember").First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("portfolio item")
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Add inserts a new portfolio item
func (r *PortfolioItemRepo) Add(ctx context.Context, item *models.PortfolioItem) error {
	return r.db.WithContext(ctx).Omit("TeamMember").Create(item).Error
}

// Update overwrites the editable columns of a portfolio item
func (r *PortfolioItemRepo) Update(ctx context.Context, item *models.PortfolioItem) error {
	res := r.db.WithContext(ctx).
		Model(&models.PortfolioItem{ID: item.ID}).
		Select(portfolioItemColumns).
		Updates(item)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("portfolio item")
	}
	return nil
}

// Delete removes a portfolio item by id
func (r *PortfolioItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.PortfolioItem{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("portfolio item")
	}
	return nil
}

// Count returns the number of portfolio items
func (r *PortfolioItemRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.PortfolioItem{}).Count(&n).Error
	return n, err
}
