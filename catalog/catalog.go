// Package catalog is the data access layer for team members and their
// portfolio items. It wraps the record store repositories and owns the
// decision of when the static sample roster stands in for real data.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rpupo63/virtuality-fashion-backend/errs"
	"github.com/rpupo63/virtuality-fashion-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ErrUnavailable wraps any failure to read from the record store.
var ErrUnavailable = errors.New("record store unavailable")

type TeamMemberRepo interface {
	FindAll(ctx context.Context) ([]*models.TeamMember, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.TeamMember, error)
	Add(ctx context.Context, member *models.TeamMember) error
	Update(ctx context.Context, member *models.TeamMember) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type PortfolioItemRepo interface {
	FindAll(ctx context.Context) ([]*models.PortfolioItem, error)
	FindByMember(ctx context.Context, memberID uuid.UUID) ([]*models.PortfolioItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.PortfolioItem, error)
	Add(ctx context.Context, item *models.PortfolioItem) error
	Update(ctx context.Context, item *models.PortfolioItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// Source says where a listing came from.
type Source string

const (
	SourceStore    Source = "store"
	SourceFallback Source = "fallback"
)

// Listing is the result of ListTeamMembers. Cause is set when the store
// failed and the fallback roster was served instead.
type Listing struct {
	Members []models.TeamMember
	Source  Source
	Cause   error
}

// Stats backs the admin dashboard.
type Stats struct {
	TeamMembers    int64 `json:"teamMembers"`
	PortfolioItems int64 `json:"portfolioItems"`
}

type Catalog struct {
	members   TeamMemberRepo
	portfolio PortfolioItemRepo
	policy    FallbackPolicy
	fallback  func() []models.TeamMember
	logger    zerolog.Logger
}

type Option func(*Catalog)

func WithFallbackPolicy(p FallbackPolicy) Option {
	return func(c *Catalog) { c.policy = p }
}

// WithFallbackMembers replaces the built-in sample roster.
func WithFallbackMembers(fn func() []models.TeamMember) Option {
	return func(c *Catalog) { c.fallback = fn }
}

func New(members TeamMemberRepo, portfolio PortfolioItemRepo, opts ...Option) *Catalog {
	c := &Catalog{
		members:   members,
		portfolio: portfolio,
		policy:    FallbackAlways,
		fallback:  SampleMembers,
		logger:    log.With().Str("component", "catalog").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Catalog) Policy() FallbackPolicy {
	return c.policy
}

// FetchTeamMembers reads the store only: newest first, portfolio embedded.
func (c *Catalog) FetchTeamMembers(ctx context.Context) ([]models.TeamMember, error) {
	rows, err := c.members.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	members := make([]models.TeamMember, 0, len(rows))
	for _, m := range rows {
		m.Normalize()
		members = append(members, *m)
	}
	return members, nil
}

// ListTeamMembers reads the store and applies the fallback policy. An error is
// returned only when the store is unavailable and the policy forbids fallback.
func (c *Catalog) ListTeamMembers(ctx context.Context) (Listing, error) {
	members, err := c.FetchTeamMembers(ctx)
	switch {
	case err != nil:
		if !c.policy.onUnavailable() {
			return Listing{}, err
		}
		c.logger.Warn().Err(err).Msg("record store unavailable, serving sample roster")
		return Listing{Members: c.fallback(), Source: SourceFallback, Cause: err}, nil
	case len(members) == 0 && c.policy.onEmpty():
		c.logger.Info().Msg("record store empty, serving sample roster")
		return Listing{Members: c.fallback(), Source: SourceFallback}, nil
	default:
		return Listing{Members: members, Source: SourceStore}, nil
	}
}

// GetTeamMember looks id up in the store, then in the sample roster when the
// policy allows it. The id need not be a UUID; non-UUID ids skip the store.
func (c *Catalog) GetTeamMember(ctx context.Context, id string) (*models.TeamMember, Source, error) {
	var storeErr error
	if memberID, err := uuid.Parse(id); err == nil {
		member, err := c.members.FindByID(ctx, memberID)
		if err == nil {
			member.Normalize()
			return member, SourceStore, nil
		}
		storeErr = err
	} else {
		storeErr = errs.NewNotFound("team member")
	}

	notFound := errs.IsNotFound(storeErr)
	if (notFound && c.policy.onEmpty()) || (!notFound && c.policy.onUnavailable()) {
		for _, m := range c.fallback() {
			if m.ID.String() == id {
				return &m, SourceFallback, nil
			}
		}
		return nil, "", errs.NewNotFound("team member")
	}
	if notFound {
		return nil, "", storeErr
	}
	return nil, "", fmt.Errorf("%w: %w", ErrUnavailable, storeErr)
}

// FindTeamMember reads a member from the store only.
func (c *Catalog) FindTeamMember(ctx context.Context, id uuid.UUID) (*models.TeamMember, error) {
	member, err := c.members.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	member.Normalize()
	return member, nil
}

func (c *Catalog) CreateTeamMember(ctx context.Context, fields models.TeamMemberFields) (*models.TeamMember, error) {
	member := models.NewTeamMember(fields)
	if err := c.members.Add(ctx, member); err != nil {
		return nil, err
	}
	member.Normalize()
	return member, nil
}

// UpdateTeamMember overwrites every editable field. Concurrent edits are last-write-wins.
func (c *Catalog) UpdateTeamMember(ctx context.Context, id uuid.UUID, fields models.TeamMemberFields) (*models.TeamMember, error) {
	member := &models.TeamMember{ID: id}
	member.Apply(fields)
	if err := c.members.Update(ctx, member); err != nil {
		return nil, err
	}
	return c.FindTeamMember(ctx, id)
}

func (c *Catalog) DeleteTeamMember(ctx context.Context, id uuid.UUID) error {
	return c.members.Delete(ctx, id)
}

// ListPortfolioItems returns every item with its owner, newest first.
func (c *Catalog) ListPortfolioItems(ctx context.Context) ([]models.PortfolioItem, error) {
	rows, err := c.portfolio.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return derefItems(rows), nil
}

func (c *Catalog) ListMemberPortfolio(ctx context.Context, memberID uuid.UUID) ([]models.PortfolioItem, error) {
	rows, err := c.portfolio.FindByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return derefItems(rows), nil
}

func (c *Catalog) GetPortfolioItem(ctx context.Context, id uuid.UUID) (*models.PortfolioItem, error) {
	return c.portfolio.FindByID(ctx, id)
}

func (c *Catalog) CreatePortfolioItem(ctx context.Context, memberID uuid.UUID, fields models.PortfolioItemFields) (*models.PortfolioItem, error) {
	item := models.NewPortfolioItem(memberID, fields)
	if err := c.portfolio.Add(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (c *Catalog) UpdatePortfolioItem(ctx context.Context, id uuid.UUID, fields models.PortfolioItemFields) (*models.PortfolioItem, error) {
	item := &models.PortfolioItem{ID: id}
	item.Apply(fields)
	if err := c.portfolio.Update(ctx, item); err != nil {
		return nil, err
	}
	return c.portfolio.FindByID(ctx, id)
}

func (c *Catalog) DeletePortfolioItem(ctx context.Context, id uuid.UUID) error {
	return c.portfolio.Delete(ctx, id)
}

// Stats counts members and items concurrently.
func (c *Catalog) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := c.members.Count(gctx)
		stats.TeamMembers = n
		return err
	})
	g.Go(func() error {
		n, err := c.portfolio.Count(gctx)
		stats.PortfolioItems = n
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

func derefItems(rows []*models.PortfolioItem) []models.PortfolioItem {
	items := make([]models.PortfolioItem, 0, len(rows))
	for _, it := range rows {
		items = append(items, *it)
	}
	return items
}
