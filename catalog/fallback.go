package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/virtuality-fashion-backend/models"
	"gorm.io/datatypes"
)

const placeholderImage = "/placeholder.jpg"

// Sample roster ids are fixed so detail links keep working across restarts.
var (
	SampleSarahChenID  = uuid.MustParse("5a3f8c1e-0000-4000-8000-000000000001")
	SampleMarcoRossiID = uuid.MustParse("5a3f8c1e-0000-4000-8000-000000000002")
	SampleAishaKumarID = uuid.MustParse("5a3f8c1e-0000-4000-8000-000000000003")
)

type sampleWork struct {
	id    string
	title string
}

// SampleMembers returns a fresh copy of the static roster shown when the
// record store has nothing to offer.
func SampleMembers() []models.TeamMember {
	epoch := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	return []models.TeamMember{
		sample(SampleSarahChenID, epoch, "Sarah Chen", "3D Fashion Designer", "United States",
			"Senior 3D fashion designer with 5+ years of experience in virtual prototyping and digital sampling. Specialized in sportswear and activewear categories with expertise in fit simulation and materials visualization.",
			"/images/team/sarah-chen.jpg", 5,
			[]string{"English", "Mandarin"},
			[]string{"Womenswear", "Sportswear", "Activewear"},
			[]string{"CLO3D", "Browzwear", "Adobe Illustrator"},
			[]sampleWork{
				{"5a3f8c1e-0000-4000-9000-000000000001", "Summer Collection 2024"},
				{"5a3f8c1e-0000-4000-9000-000000000002", "Athleisure Line"},
				{"5a3f8c1e-0000-4000-9000-000000000003", "Activewear Range"},
			}),
		sample(SampleMarcoRossiID, epoch.Add(-time.Hour), "Marco Rossi", "Technical Designer", "Italy",
			"Technical designer specialized in menswear and tailoring. Expert in creating production-ready tech packs with precise measurements and construction details for high-end fashion brands.",
			"/images/team/marco-rossi.jpg", 0,
			[]string{"English", "Italian"},
			[]string{"Menswear", "Tailoring", "Outerwear"},
			[]string{"Optitex", "Adobe Illustrator", "Gerber"},
			[]sampleWork{
				{"5a3f8c1e-0000-4000-9000-000000000004", "Outerwear Tech Packs"},
				{"5a3f8c1e-0000-4000-9000-000000000005", "Tailored Suiting Line"},
				{"5a3f8c1e-0000-4000-9000-000000000006", "Formal Wear Patterns"},
			}),
		sample(SampleAishaKumarID, epoch.Add(-2*time.Hour), "Aisha Kumar", "3D Visualization Specialist", "India",
			"Visualization specialist focused on creating photorealistic renders and e-commerce visuals. Expertise in materials simulation and virtual model imagery for product pages.",
			"/images/team/aisha-kumar.jpg", 0,
			[]string{"English", "Hindi"},
			[]string{"Womenswear", "Lingerie", "Swimwear"},
			[]string{"Browzwear", "Style3D", "Adobe Photoshop"},
			[]sampleWork{
				{"5a3f8c1e-0000-4000-9000-000000000007", "Luxury Brand Renders"},
				{"5a3f8c1e-0000-4000-9000-000000000008", "E-commerce Visuals"},
				{"5a3f8c1e-0000-4000-9000-000000000009", "Material Studies"},
			}),
	}
}

func sample(id uuid.UUID, created time.Time, name, role, location, bio, portrait string, years int,
	languages, specialties, tools []string, work []sampleWork) models.TeamMember {
	items := make([]models.PortfolioItem, 0, len(work))
	for i, w := range work {
		items = append(items, models.PortfolioItem{
			ID:           uuid.MustParse(w.id),
			TeamMemberID: id,
			Title:        w.title,
			ImageURL:     models.StringPtr(placeholderImage),
			CreatedAt:    created.Add(-time.Duration(i) * time.Minute),
		})
	}
	return models.TeamMember{
		ID:              id,
		Name:            name,
		Role:            role,
		Location:        location,
		Bio:             bio,
		Portrait:        models.StringPtr(portrait),
		Languages:       datatypes.JSONSlice[string](languages),
		Specialties:     datatypes.JSONSlice[string](specialties),
		Tools:           datatypes.JSONSlice[string](tools),
		YearsExperience: years,
		CreatedAt:       created,
		UpdatedAt:       created,
		PortfolioItems:  items,
	}
}
