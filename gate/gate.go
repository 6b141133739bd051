// Package gate models the lead gate in front of the public team roster.
//
// The gate is a convenience for lead capture, not access control: the flag
// lives with the visitor (a cookie), never expires and is not verified by the
// server. Anyone can set it by hand.
package gate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpupo63/virtuality-fashion-backend/leads"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// AccessState is where a visitor is in the unlock flow.
type AccessState int

const (
	Locked AccessState = iota
	Unlocking
	Unlocked
)

func (s AccessState) String() string {
	switch s {
	case Locked:
		return "locked"
	case Unlocking:
		return "unlocking"
	case Unlocked:
		return "unlocked"
	default:
		return fmt.Sprintf("AccessState(%d)", int(s))
	}
}

// Storage keys and the granted marker.
const (
	KeyTeamAccess = "teamAccess"
	KeyClientData = "clientData"
	Granted       = "granted"
)

// Storage is the visitor-held key-value store the gate persists into.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// LeadSubmitter relays the unlock form.
type LeadSubmitter interface {
	Submit(ctx context.Context, form leads.Form) error
}

type Gate struct {
	storage   Storage
	submitter LeadSubmitter
	state     AccessState
	onChange  func(from, to AccessState)
	logger    zerolog.Logger
}

type Option func(*Gate)

// WithTransitionHook is called on every state change.
func WithTransitionHook(fn func(from, to AccessState)) Option {
	return func(g *Gate) { g.onChange = fn }
}

// New restores the state from storage: Unlocked when the granted flag is
// present, Locked otherwise.
func New(storage Storage, submitter LeadSubmitter, opts ...Option) *Gate {
	g := &Gate{
		storage:   storage,
		submitter: submitter,
		state:     Locked,
		logger:    log.With().Str("component", "gate").Logger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if v, ok := storage.Get(KeyTeamAccess); ok && v == Granted {
		g.state = Unlocked
	}
	return g
}

func (g *Gate) State() AccessState {
	return g.state
}

func (g *Gate) transition(to AccessState) {
	from := g.state
	g.state = to
	if g.onChange != nil && from != to {
		g.onChange(from, to)
	}
}

// Unlock runs the unlock flow. A form that fails validation leaves the gate
// Locked without any network call. A relay failure returns to Locked with the
// relay error; the caller keeps the submitted values. Unlocking an already
// unlocked gate does nothing.
func (g *Gate) Unlock(ctx context.Context, form leads.UnlockForm) error {
	if g.state == Unlocked {
		return nil
	}
	if err := form.Validate().Err(); err != nil {
		return err
	}

	g.transition(Unlocking)
	if err := g.submitter.Submit(ctx, form); err != nil {
		g.transition(Locked)
		return err
	}

	data, err := json.Marshal(form)
	if err != nil {
		g.transition(Locked)
		return fmt.Errorf("encode client data: %w", err)
	}
	if err := g.storage.Set(KeyTeamAccess, Granted); err != nil {
		g.transition(Locked)
		return fmt.Errorf("persist %s: %w", KeyTeamAccess, err)
	}
	if err := g.storage.Set(KeyClientData, string(data)); err != nil {
		// the flag is persisted; the payload copy is optional
		g.logger.Warn().Err(err).Msg("failed to persist client data")
	}
	g.transition(Unlocked)
	g.logger.Info().Str("company", form.Company).Msg("team roster unlocked")
	return nil
}

// ClientData returns the unlock payload kept from a previous unlock.
func (g *Gate) ClientData() (leads.UnlockForm, bool) {
	raw, ok := g.storage.Get(KeyClientData)
	if !ok {
		return leads.UnlockForm{}, false
	}
	var form leads.UnlockForm
	if err := json.Unmarshal([]byte(raw), &form); err != nil {
		return leads.UnlockForm{}, false
	}
	return form, true
}
