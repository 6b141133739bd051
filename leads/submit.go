package leads

import (
	"context"
	"errors"

	"github.com/rpupo63/virtuality-fashion-backend/errs"
	"github.com/rpupo63/virtuality-fashion-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	MsgSomethingWrong  = "Something went wrong. Please try again."
	MsgConnectionError = "Connection error. Please try again."
)

type Relay interface {
	Submit(ctx context.Context, subject string, fields map[string]any) error
}

type Notifier interface {
	NotifyLead(ctx context.Context, subject string, fields map[string]any) error
}

// RelayError carries the message shown to the visitor when relaying failed.
type RelayError struct {
	Message string
	Err     error
}

func (e *RelayError) Error() string { return e.Message + " (" + e.Err.Error() + ")" }

func (e *RelayError) Unwrap() error { return e.Err }

type Submitter struct {
	relay    Relay
	notifier Notifier
	logger   zerolog.Logger
}

// NewSubmitter builds a Submitter; notifier may be nil.
func NewSubmitter(relay Relay, notifier Notifier) *Submitter {
	return &Submitter{
		relay:    relay,
		notifier: notifier,
		logger:   log.With().Str("component", "leads").Logger(),
	}
}

// Submit validates form and relays it. Invalid forms return an
// *errs.ValidationError without touching the network. After a successful
// relay the internal notification is attempted; its failure is only logged.
func (s *Submitter) Submit(ctx context.Context, form Form) error {
	if err := form.Validate().Err(); err != nil {
		return err
	}

	subject, fields := form.Subject(), form.Fields()
	if err := s.relay.Submit(ctx, subject, fields); err != nil {
		msg := MsgConnectionError
		if errors.Is(err, services.ErrRelayRejected) {
			msg = MsgSomethingWrong
		}
		s.logger.Error().Err(err).Str("subject", subject).Msg("lead relay failed")
		return &RelayError{Message: msg, Err: err}
	}
	s.logger.Info().Str("subject", subject).Msg("lead relayed")

	if s.notifier != nil {
		if err := s.notifier.NotifyLead(ctx, subject, fields); err != nil {
			s.logger.Warn().Err(err).Str("subject", subject).Msg("lead notification failed")
		}
	}
	return nil
}

// UserMessage is the form-level message for err. Validation failures have
// none because their messages sit next to each field.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if _, ok := errs.AsValidation(err); ok {
		return ""
	}
	var rerr *RelayError
	if errors.As(err, &rerr) {
		return rerr.Message
	}
	return MsgSomethingWrong
}
