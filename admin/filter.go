package admin

import (
	"strings"

	"github.com/rpupo63/virtuality-fashion-backend/models"
)

// FilterMembers keeps members whose name, role or location contains q,
// ignoring case. A blank q keeps everything.
func FilterMembers(members []models.TeamMember, q string) []models.TeamMember {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return members
	}
	out := make([]models.TeamMember, 0, len(members))
	for _, m := range members {
		if strings.Contains(strings.ToLower(m.Name), q) ||
			strings.Contains(strings.ToLower(m.Role), q) ||
			strings.Contains(strings.ToLower(m.Location), q) {
			out = append(out, m)
		}
	}
	return out
}
