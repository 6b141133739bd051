// Package leads holds the lead-capture forms: their fields, validation rules
// and the subject line each one is relayed under.
package leads

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/rpupo63/virtuality-fashion-backend/errs"
)

const (
	MsgNameRequired        = "Name is required"
	MsgFullNameRequired    = "Full name is required"
	MsgEmailRequired       = "Email is required"
	MsgEmailInvalid        = "Please enter a valid email"
	MsgCompanyNameRequired = "Company name is required"
	MsgCompanyRequired     = "Company is required"
	MsgMessageRequired     = "Message is required"
	MsgURLInvalid          = "Please enter a valid URL"
	MsgProjectTypeRequired = "Please select a project type"
	MsgConsentRequired     = "You must agree to the privacy policy"
)

const (
	SubjectContact       = "New Contact Form Submission - Virtuality Fashion"
	SubjectEnterprise    = "Enterprise Quote Request - Virtuality Fashion"
	SubjectJoinTeam      = "New Team Application - Virtuality Fashion"
	SubjectTeamAccess    = "Team Access Request - Virtuality Fashion"
	designerNotSpecified = "Not specified"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Form is a lead-capture form that can be relayed.
type Form interface {
	Validate() errs.FieldErrors
	Subject() string
	Fields() map[string]any
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidURL accepts anything that parses as an absolute URL.
func ValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}

func checkEmail(fe errs.FieldErrors, email string) {
	switch {
	case email == "":
		fe.Add("email", MsgEmailRequired)
	case !ValidEmail(email):
		fe.Add("email", MsgEmailInvalid)
	}
}

func required(fe errs.FieldErrors, field, value, msg string) {
	if value == "" {
		fe.Add(field, msg)
	}
}

func value(v url.Values, key string) string {
	return strings.TrimSpace(v.Get(key))
}

// ContactForm is the quote request / general contact form.
type ContactForm struct {
	Name     string
	Email    string
	Company  string
	Message  string
	Designer string
}

func DecodeContact(v url.Values) ContactForm {
	return ContactForm{
		Name:     value(v, "name"),
		Email:    value(v, "email"),
		Company:  value(v, "company"),
		Message:  value(v, "message"),
		Designer: value(v, "designer"),
	}
}

// NewContactForm pre-fills the form for a quote request about designer.
func NewContactForm(designer string) ContactForm {
	designer = strings.TrimSpace(designer)
	if designer == "" {
		return ContactForm{}
	}
	return ContactForm{Designer: designer, Message: "I'm interested in working with " + designer + ".\n\n"}
}

func (f ContactForm) Validate() errs.FieldErrors {
	fe := errs.FieldErrors{}
	required(fe, "name", f.Name, MsgNameRequired)
	checkEmail(fe, f.Email)
	required(fe, "company", f.Company, MsgCompanyNameRequired)
	required(fe, "message", f.Message, MsgMessageRequired)
	return fe
}

func (f ContactForm) Subject() string {
	if f.Designer != "" {
		return "Quote Request for " + f.Designer + " - Virtuality Fashion"
	}
	return SubjectContact
}

func (f ContactForm) Fields() map[string]any {
	designer := f.Designer
	if designer == "" {
		designer = designerNotSpecified
	}
	return map[string]any{
		"name":     f.Name,
		"email":    f.Email,
		"company":  f.Company,
		"message":  f.Message,
		"designer": designer,
	}
}

// Deliverables an enterprise client can tick, in display order.
var Deliverables = []Option{
	{"techPacks", "Tech Packs"},
	{"prototyping", "3D Prototyping"},
	{"productVisuals", "Product Visuals"},
}

// EnterpriseForm is the enterprise quote request.
type EnterpriseForm struct {
	Company      string
	Name         string
	Email        string
	Role         string
	ProjectType  string
	Category     string
	Deliverables []string
	Timeline     string
	Notes        string
}

func DecodeEnterprise(v url.Values) EnterpriseForm {
	ticked := map[string]bool{}
	for _, d := range v["deliverables"] {
		ticked[strings.TrimSpace(d)] = true
	}
	var deliverables []string
	for _, d := range Deliverables {
		if ticked[d.Value] {
			deliverables = append(deliverables, d.Value)
		}
	}
	return EnterpriseForm{
		Company:      value(v, "company"),
		Name:         value(v, "name"),
		Email:        value(v, "email"),
		Role:         value(v, "role"),
		ProjectType:  value(v, "projectType"),
		Category:     value(v, "category"),
		Deliverables: deliverables,
		Timeline:     value(v, "timeline"),
		Notes:        value(v, "notes"),
	}
}

func (f EnterpriseForm) Validate() errs.FieldErrors {
	fe := errs.FieldErrors{}
	required(fe, "company", f.Company, MsgCompanyRequired)
	required(fe, "name", f.Name, MsgNameRequired)
	checkEmail(fe, f.Email)
	return fe
}

func (f EnterpriseForm) Subject() string { return SubjectEnterprise }

func (f EnterpriseForm) Fields() map[string]any {
	return map[string]any{
		"company":      f.Company,
		"name":         f.Name,
		"email":        f.Email,
		"role":         f.Role,
		"projectType":  f.ProjectType,
		"category":     f.Category,
		"deliverables": strings.Join(f.Deliverables, ", "),
		"timeline":     f.Timeline,
		"notes":        f.Notes,
	}
}

// Ticked reports whether deliverable d was selected; used by templates.
func (f EnterpriseForm) Ticked(d string) bool {
	for _, x := range f.Deliverables {
		if x == d {
			return true
		}
	}
	return false
}

// JoinTeamForm is a designer's application to join the marketplace.
type JoinTeamForm struct {
	FullName      string
	Email         string
	RoleSpecialty string
	PortfolioLink string
	Message       string
}

func DecodeJoinTeam(v url.Values) JoinTeamForm {
	return JoinTeamForm{
		FullName:      value(v, "fullName"),
		Email:         value(v, "email"),
		RoleSpecialty: value(v, "roleSpecialty"),
		PortfolioLink: value(v, "portfolioLink"),
		Message:       value(v, "message"),
	}
}

func (f JoinTeamForm) Validate() errs.FieldErrors {
	fe := errs.FieldErrors{}
	required(fe, "fullName", f.FullName, MsgFullNameRequired)
	checkEmail(fe, f.Email)
	if f.PortfolioLink != "" && !ValidURL(f.PortfolioLink) {
		fe.Add("portfolioLink", MsgURLInvalid)
	}
	return fe
}

func (f JoinTeamForm) Subject() string { return SubjectJoinTeam }

func (f JoinTeamForm) Fields() map[string]any {
	return map[string]any{
		"fullName":      f.FullName,
		"email":         f.Email,
		"roleSpecialty": f.RoleSpecialty,
		"portfolioLink": f.PortfolioLink,
		"message":       f.Message,
	}
}

// UnlockForm is submitted to open the team roster. Its JSON form is what the
// browser keeps as clientData.
type UnlockForm struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Company     string `json:"company"`
	ProjectType string `json:"projectType"`
	Volume      string `json:"volume"`
	Timeline    string `json:"timeline"`
	Message     string `json:"message"`
	Consent     bool   `json:"consent"`
}

func DecodeUnlock(v url.Values) UnlockForm {
	consent := value(v, "consent")
	return UnlockForm{
		Name:        value(v, "name"),
		Email:       value(v, "email"),
		Company:     value(v, "company"),
		ProjectType: value(v, "projectType"),
		Volume:      value(v, "volume"),
		Timeline:    value(v, "timeline"),
		Message:     value(v, "message"),
		Consent:     consent == "on" || consent == "true" || consent == "1",
	}
}

func (f UnlockForm) Validate() errs.FieldErrors {
	fe := errs.FieldErrors{}
	required(fe, "name", f.Name, MsgNameRequired)
	checkEmail(fe, f.Email)
	required(fe, "company", f.Company, MsgCompanyNameRequired)
	required(fe, "projectType", f.ProjectType, MsgProjectTypeRequired)
	if !f.Consent {
		fe.Add("consent", MsgConsentRequired)
	}
	return fe
}

func (f UnlockForm) Subject() string { return SubjectTeamAccess }

func (f UnlockForm) Fields() map[string]any {
	return map[string]any{
		"name":        f.Name,
		"email":       f.Email,
		"company":     f.Company,
		"projectType": f.ProjectType,
		"volume":      f.Volume,
		"timeline":    f.Timeline,
		"message":     f.Message,
		"consent":     f.Consent,
	}
}
