// Package mock holds in-memory repositories for tests.
package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/virtuality-fashion-backend/errs"
	"github.com/rpupo63/virtuality-fashion-backend/models"
)

// Store is a shared in-memory record store. Deleting a member removes its
// portfolio items, like the ON DELETE CASCADE rule in Postgres.
type Store struct {
	mu      sync.Mutex
	members map[uuid.UUID]models.TeamMember
	items   map[uuid.UUID]models.PortfolioItem
	clock   time.Time

	// Err, when set, is returned by every call.
	Err error
}

type Mocks struct {
	Store          *Store
	TeamMembers    *TeamMemberRepo
	PortfolioItems *PortfolioItemRepo
}

func NewMocks() *Mocks {
	s := &Store{
		members: map[uuid.UUID]models.TeamMember{},
		items:   map[uuid.UUID]models.PortfolioItem{},
		clock:   time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
	return &Mocks{
		Store:          s,
		TeamMembers:    &TeamMemberRepo{s},
		PortfolioItems: &PortfolioItemRepo{s},
	}
}

// SetErr makes every subsequent call fail with err; nil restores normal behaviour.
func (s *Store) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Err = err
}

// tick returns a strictly increasing timestamp so created_at ordering is stable.
func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *Store) memberItems(id uuid.UUID) []models.PortfolioItem {
	items := []models.PortfolioItem{}
	for _, it := range s.items {
		if it.TeamMemberID == id {
			items = append(items, it)
		}
	}
	sortItems(items)
	return items
}

func sortItems(items []models.PortfolioItem) {
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
}

type TeamMemberRepo struct {
	s *Store
}

func (r *TeamMemberRepo) FindAll(ctx context.Context) ([]*models.TeamMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := make([]*models.TeamMember, 0, len(r.s.members))
	for id, m := range r.s.members {
		m.PortfolioItems = r.s.memberItems(id)
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *TeamMemberRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.TeamMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	m, ok := r.s.members[id]
	if !ok {
		return nil, errs.NewNotFound("team member")
	}
	m.PortfolioItems = r.s.memberItems(id)
	return &m, nil
}

func (r *TeamMemberRepo) Add(ctx context.Context, member *models.TeamMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}
	now := r.s.tick()
	member.CreatedAt, member.UpdatedAt = now, now
	stored := *member
	stored.PortfolioItems = nil
	r.s.members[member.ID] = stored
	return nil
}

func (r *TeamMemberRepo) Update(ctx context.Context, member *models.TeamMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	old, ok := r.s.members[member.ID]
	if !ok {
		return errs.NewNotFound("team member")
	}
	updated := *member
	updated.CreatedAt = old.CreatedAt
	updated.UpdatedAt = r.s.tick()
	updated.PortfolioItems = nil
	r.s.members[member.ID] = updated
	return nil
}

func (r *TeamMemberRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.members[id]; !ok {
		return errs.NewNotFound("team member")
	}
	delete(r.s.members, id)
	for itemID, it := range r.s.items {
		if it.TeamMemberID == id {
			delete(r.s.items, itemID)
		}
	}
	return nil
}

func (r *TeamMemberRepo) Count(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	return int64(len(r.s.members)), nil
}

type PortfolioItemRepo struct {
	s *Store
}

func (r *PortfolioItemRepo) withOwner(it models.PortfolioItem) *models.PortfolioItem {
	if m, ok := r.s.members[it.TeamMemberID]; ok {
		m.PortfolioItems = nil
		it.TeamMember = &m
	}
	return &it
}

func (r *PortfolioItemRepo) FindAll(ctx context.Context) ([]*models.PortfolioItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	items := make([]models.PortfolioItem, 0, len(r.s.items))
	for _, it := range r.s.items {
		items = append(items, it)
	}
	sortItems(items)
	out := make([]*models.PortfolioItem, 0, len(items))
	for _, it := range items {
		out = append(out, r.withOwner(it))
	}
	return out, nil
}

func (r *PortfolioItemRepo) FindByMember(ctx context.Context, memberID uuid.UUID) ([]*models.PortfolioItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	items := r.s.memberItems(memberID)
	out := make([]*models.PortfolioItem, 0, len(items))
	for i := range items {
		out = append(out, &items[i])
	}
	return out, nil
}

func (r *PortfolioItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.PortfolioItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	it, ok := r.s.items[id]
	if !ok {
		return nil, errs.NewNotFound("portfolio item")
	}
	return r.withOwner(it), nil
}

// Add enforces the team_member_id foreign key.
func (r *PortfolioItemRepo) Add(ctx context.Context, item *models.PortfolioItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.members[item.TeamMemberID]; !ok {
		return errs.NewDatabaseError("create", "portfolio item", errForeignKey)
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.CreatedAt = r.s.tick()
	stored := *item
	stored.TeamMember = nil
	r.s.items[item.ID] = stored
	return nil
}

func (r *PortfolioItemRepo) Update(ctx context.Context, item *models.PortfolioItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	old, ok := r.s.items[item.ID]
	if !ok {
		return errs.NewNotFound("portfolio item")
	}
	old.Apply(item.Fields())
	r.s.items[item.ID] = old
	return nil
}

func (r *PortfolioItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.items[id]; !ok {
		return errs.NewNotFound("portfolio item")
	}
	delete(r.s.items, id)
	return nil
}

func (r *PortfolioItemRepo) Count(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	return int64(len(r.s.items)), nil
}

type fkErr struct{}

func (fkErr) Error() string {
	return `insert or update on table "portfolio_items" violates foreign key constraint "fk_team_members_portfolio_items"`
}

var errForeignKey error = fkErr{}
