package services

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"
)

type emailSender interface {
	SendEmail(ctx context.Context, subject, body string, recipients []string) error
}

// LeadNotifier emails an internal copy of each relayed lead.
type LeadNotifier struct {
	mailer     emailSender
	recipients []string
}

func NewLeadNotifier(mailer emailSender, recipients []string) *LeadNotifier {
	return &LeadNotifier{mailer: mailer, recipients: recipients}
}

// NotifyLead is a no-op without recipients.
func (n *LeadNotifier) NotifyLead(ctx context.Context, subject string, fields map[string]any) error {
	if len(n.recipients) == 0 {
		log.Debug().Str("subject", subject).Msg("no lead recipients configured, skipping notification")
		return nil
	}
	if err := n.mailer.SendEmail(ctx, subject, FormatLeadEmail(subject, fields), n.recipients); err != nil {
		return fmt.Errorf("notify lead %q: %w", subject, err)
	}
	return nil
}

// FormatLeadEmail renders fields as an HTML table, keys sorted, values escaped.
func FormatLeadEmail(subject string, fields map[string]any) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "<h2>%s</h2>\n<table>\n", html.EscapeString(subject))
	for _, k := range keys {
		fmt.Fprintf(&b, "<tr><th align=\"left\">%s</th><td>%s</td></tr>\n",
			html.EscapeString(FieldLabel(k)),
			strings.ReplaceAll(html.EscapeString(fmt.Sprint(fields[k])), "\n", "<br>"))
	}
	b.WriteString("</table>\n")
	return b.String()
}

// FieldLabel turns a payload key such as "projectType" or "years_experience"
// into "Project Type" / "Years Experience".
func FieldLabel(key string) string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			cur[0] = unicode.ToUpper(cur[0])
			words = append(words, string(cur))
			cur = nil
		}
	}
	for _, r := range key {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
		case unicode.IsUpper(r):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return strings.Join(words, " ")
}
