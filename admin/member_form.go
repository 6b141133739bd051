// Package admin holds the form state and rules behind the admin panel pages.
package admin

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/rpupo63/virtuality-fashion-backend/errs"
	"github.com/rpupo63/virtuality-fashion-backend/models"
)

// Tag list fields of a member form.
const (
	FieldLanguages   = "languages"
	FieldSpecialties = "specialties"
	FieldTools       = "tools"
)

var TagFields = []string{FieldLanguages, FieldSpecialties, FieldTools}

// TagList is an ordered list of tags. Add and Remove return new lists.
type TagList []string

// Add appends the trimmed value; blank values leave the list unchanged.
func (l TagList) Add(value string) TagList {
	value = strings.TrimSpace(value)
	if value == "" {
		return l
	}
	out := make(TagList, len(l), len(l)+1)
	copy(out, l)
	return append(out, value)
}

// Remove drops the entry at i; out-of-range indexes are ignored.
func (l TagList) Remove(i int) TagList {
	if i < 0 || i >= len(l) {
		return l
	}
	out := make(TagList, 0, len(l)-1)
	out = append(out, l[:i]...)
	return append(out, l[i+1:]...)
}

// ParseYears reads years of experience; anything that is not a
// non-negative integer becomes 0.
func ParseYears(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// MemberForm is the create/edit member form, including the pending text in
// each tag input.
type MemberForm struct {
	Name            string
	Role            string
	Location        string
	Bio             string
	Portrait        string
	Languages       TagList
	Specialties     TagList
	Tools           TagList
	YearsExperience int
	Pending         map[string]string
}

func NewMemberForm() MemberForm {
	return MemberForm{
		Languages:   TagList{},
		Specialties: TagList{},
		Tools:       TagList{},
		Pending:     map[string]string{},
	}
}

// MemberFormFrom fills the form from a stored member.
func MemberFormFrom(m models.TeamMember) MemberForm {
	f := NewMemberForm()
	f.Name = m.Name
	f.Role = m.Role
	f.Location = m.Location
	f.Bio = m.Bio
	f.Portrait = models.Deref(m.Portrait)
	f.Languages = TagList(models.NonNil(m.Languages))
	f.Specialties = TagList(models.NonNil(m.Specialties))
	f.Tools = TagList(models.NonNil(m.Tools))
	f.YearsExperience = m.YearsExperience
	return f
}

// DecodeMemberForm reads a posted form. Tag entries arrive as repeated
// values (languages=English&languages=Italian); pending inputs as new_<field>.
func DecodeMemberForm(v url.Values) MemberForm {
	f := NewMemberForm()
	f.Name = strings.TrimSpace(v.Get("name"))
	f.Role = strings.TrimSpace(v.Get("role"))
	f.Location = strings.TrimSpace(v.Get("location"))
	f.Bio = strings.TrimSpace(v.Get("bio"))
	f.Portrait = strings.TrimSpace(v.Get("portrait"))
	f.YearsExperience = ParseYears(v.Get("years_experience"))
	for _, field := range TagFields {
		list := TagList{}
		for _, tag := range v[field] {
			list = list.Add(tag)
		}
		f.setTags(field, list)
		if p := v.Get("new_" + field); p != "" {
			f.Pending[field] = p
		}
	}
	return f
}

// Tags returns the list for a tag field name.
func (f MemberForm) Tags(field string) TagList {
	switch field {
	case FieldLanguages:
		return f.Languages
	case FieldSpecialties:
		return f.Specialties
	case FieldTools:
		return f.Tools
	default:
		return nil
	}
}

func (f *MemberForm) setTags(field string, list TagList) {
	switch field {
	case FieldLanguages:
		f.Languages = list
	case FieldSpecialties:
		f.Specialties = list
	case FieldTools:
		f.Tools = list
	}
}

// AddTag moves the pending input of field into its list.
func (f *MemberForm) AddTag(field string) {
	f.setTags(field, f.Tags(field).Add(f.Pending[field]))
	delete(f.Pending, field)
}

func (f *MemberForm) RemoveTag(field string, i int) {
	f.setTags(field, f.Tags(field).Remove(i))
}

func (f MemberForm) hasPending() bool {
	for _, field := range TagFields {
		if strings.TrimSpace(f.Pending[field]) != "" {
			return true
		}
	}
	return false
}

// Apply performs a form action and reports whether the form should now be
// saved.
func (f *MemberForm) Apply(a Action) (save bool) {
	switch a.Kind {
	case ActionEnter:
		// Enter inside a tag input adds it; Enter anywhere else submits.
		if !f.hasPending() {
			return true
		}
		for _, field := range TagFields {
			f.AddTag(field)
		}
		return false
	case ActionAdd:
		f.AddTag(a.Field)
		return false
	case ActionRemove:
		f.RemoveTag(a.Field, a.Index)
		return false
	default:
		return true
	}
}

func (f MemberForm) Validate() errs.FieldErrors {
	return ValidateMember(f.ToFields())
}

// ValidateMember checks the required member columns. The JSON API uses it too.
func ValidateMember(m models.TeamMemberFields) errs.FieldErrors {
	fe := errs.FieldErrors{}
	if strings.TrimSpace(m.Name) == "" {
		fe.Add("name", "Name is required")
	}
	if strings.TrimSpace(m.Role) == "" {
		fe.Add("role", "Role is required")
	}
	if strings.TrimSpace(m.Location) == "" {
		fe.Add("location", "Location is required")
	}
	if strings.TrimSpace(m.Bio) == "" {
		fe.Add("bio", "Bio is required")
	}
	return fe
}

func (f MemberForm) ToFields() models.TeamMemberFields {
	return models.TeamMemberFields{
		Name:            f.Name,
		Role:            f.Role,
		Location:        f.Location,
		Bio:             f.Bio,
		Portrait:        models.StringPtr(f.Portrait),
		Languages:       models.NonNil(f.Languages),
		Specialties:     models.NonNil(f.Specialties),
		Tools:           models.NonNil(f.Tools),
		YearsExperience: f.YearsExperience,
	}
}
