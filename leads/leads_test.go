package leads

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/rpupo63/virtuality-fashion-backend/errs"
	"github.com/rpupo63/virtuality-fashion-backend/services"
)

var adaEmail = "ada" + "@example.com"

type fakeRelay struct {
	calls   int
	subject string
	fields  map[string]any
	err     error
}

func (f *fakeRelay) Submit(ctx context.Context, subject string, fields map[string]any) error {
	f.calls++
	f.subject, f.fields = subject, fields
	return f.err
}

type fakeNotifier struct {
	calls int
	err   error
}

func (f *fakeNotifier) NotifyLead(ctx context.Context, subject string, fields map[string]any) error {
	f.calls++
	return f.err
}

func TestContactInvalidEmail_NoNetwork(t *testing.T) {
	relay := &fakeRelay{}
	s := NewSubmitter(relay, nil)

	form := DecodeContact(url.Values{
		"name":    {"Ada"},
		"email":   {"not-an-email"},
		"company": {"Acme"},
		"message": {"Hello"},
	})
	err := s.Submit(context.Background(), form)

	fields, ok := errs.AsValidation(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if fields["email"] != "Please enter a valid email" {
		t.Fatalf("email message = %q", fields["email"])
	}
	if relay.calls != 0 {
		t.Fatalf("relay called %d times", relay.calls)
	}
	if UserMessage(err) != "" {
		t.Fatalf("validation errors have no form message, got %q", UserMessage(err))
	}
}

func TestValidationMessages(t *testing.T) {
	tests := []struct {
		name string
		form Form
		want errs.FieldErrors
	}{
		{"contact empty", ContactForm{}, errs.FieldErrors{
			"name": MsgNameRequired, "email": MsgEmailRequired,
			"company": MsgCompanyNameRequired, "message": MsgMessageRequired,
		}},
		{"enterprise empty", EnterpriseForm{}, errs.FieldErrors{
			"company": MsgCompanyRequired, "name": MsgNameRequired, "email": MsgEmailRequired,
		}},
		{"join bad url", JoinTeamForm{FullName: "A", Email: adaEmail, PortfolioLink: "behance profile"}, errs.FieldErrors{
			"portfolioLink": MsgURLInvalid,
		}},
		{"join empty", JoinTeamForm{}, errs.FieldErrors{
			"fullName": MsgFullNameRequired, "email": MsgEmailRequired,
		}},
		{"unlock empty", UnlockForm{}, errs.FieldErrors{
			"name": MsgNameRequired, "email": MsgEmailRequired, "company": MsgCompanyNameRequired,
			"projectType": MsgProjectTypeRequired, "consent": MsgConsentRequired,
		}},
		{"unlock ok", UnlockForm{Name: "A", Email: adaEmail, Company: "C", ProjectType: "tech-packs", Consent: true}, errs.FieldErrors{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.form.Validate()
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s: got %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestValidEmailAndURL(t *testing.T) {
	for in, want := range map[string]bool{
		adaEmail:       true,
		"a@b":          false,
		"a b@c.d":      false,
		"not-an-email": false,
		"@b.co":        false,
	} {
		if got := ValidEmail(in); got != want {
			t.Errorf("ValidEmail(%q) = %v", in, got)
		}
	}
	for in, want := range map[string]bool{
		"https://behance.net/ada":   true,
		"mailto:ada" + "@example.com": true,
		"behance.net/ada":           false,
		"":                          false,
	} {
		if got := ValidURL(in); got != want {
			t.Errorf("ValidURL(%q) = %v", in, got)
		}
	}
}

func TestContactSubjectAndDesigner(t *testing.T) {
	f := NewContactForm("Marco Rossi")
	if f.Message != "I'm interested in working with Marco Rossi.\n\n" {
		t.Fatalf("prefill = %q", f.Message)
	}
	if f.Subject() != "Quote Request for Marco Rossi - Virtuality Fashion" {
		t.Fatalf("subject = %q", f.Subject())
	}
	plain := ContactForm{}
	if plain.Subject() != SubjectContact || plain.Fields()["designer"] != "Not specified" {
		t.Fatalf("unexpected defaults %q %v", plain.Subject(), plain.Fields()["designer"])
	}
}

func TestEnterpriseDeliverablesOrder(t *testing.T) {
	f := DecodeEnterprise(url.Values{
		"deliverables": {"productVisuals", "bogus", "techPacks"},
	})
	if got := f.Fields()["deliverables"]; got != "techPacks, productVisuals" {
		t.Fatalf("deliverables = %q", got)
	}
	if !f.Ticked("techPacks") || f.Ticked("prototyping") {
		t.Fatal("Ticked mismatch")
	}
}

func TestSubmit_RelayOutcomes(t *testing.T) {
	valid := JoinTeamForm{FullName: "Ada", Email: adaEmail}

	tests := []struct {
		name       string
		relayErr   error
		notifyErr  error
		wantMsg    string
		wantNotify int
	}{
		{"success", nil, nil, "", 1},
		{"notify failure is not fatal", nil, errors.New("smtp down"), "", 1},
		{"rejected", fmt.Errorf("%w: bad key", services.ErrRelayRejected), nil, MsgSomethingWrong, 0},
		{"unreachable", fmt.Errorf("%w: dial", services.ErrRelayUnreachable), nil, MsgConnectionError, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relay := &fakeRelay{err: tt.relayErr}
			notifier := &fakeNotifier{err: tt.notifyErr}
			err := NewSubmitter(relay, notifier).Submit(context.Background(), valid)

			if UserMessage(err) != tt.wantMsg {
				t.Fatalf("message = %q, want %q (err %v)", UserMessage(err), tt.wantMsg, err)
			}
			if (tt.wantMsg == "") != (err == nil) {
				t.Fatalf("unexpected err %v", err)
			}
			if relay.calls != 1 || relay.subject != SubjectJoinTeam {
				t.Fatalf("relay calls=%d subject=%q", relay.calls, relay.subject)
			}
			if notifier.calls != tt.wantNotify {
				t.Fatalf("notify calls = %d, want %d", notifier.calls, tt.wantNotify)
			}
		})
	}
}

func TestDecodeUnlockConsent(t *testing.T) {
	if !DecodeUnlock(url.Values{"consent": {"on"}}).Consent {
		t.Fatal("checkbox value on should grant consent")
	}
	if DecodeUnlock(url.Values{}).Consent {
		t.Fatal("missing checkbox should not grant consent")
	}
}
