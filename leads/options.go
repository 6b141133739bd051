package leads

// Option is a value/label pair for a select or checkbox group.
type Option struct {
	Value string
	Label string
}

var UnlockProjectTypes = []Option{
	{"2d-flats", "2D Technical Flats"},
	{"3d-simulation", "3D Fashion Simulation"},
	{"digital-samples", "Digital Sample Creation"},
	{"collection-dev", "Collection Development"},
	{"tech-packs", "Tech Pack Preparation"},
	{"full-service", "Full Service Design"},
}

var EnterpriseProjectTypes = []Option{
	{"ongoing", "Ongoing Partnership"},
	{"project", "Single Project"},
	{"trial", "Trial Period"},
}

var Categories = []Option{
	{"womenswear", "Womenswear"},
	{"menswear", "Menswear"},
	{"kidswear", "Kidswear"},
	{"sportswear", "Sportswear"},
	{"outerwear", "Outerwear"},
	{"denim", "Denim"},
	{"knitwear", "Knitwear"},
	{"accessories", "Accessories"},
	{"multiple", "Multiple Categories"},
}

var Timelines = []Option{
	{"asap", "ASAP"},
	{"1month", "Within 1 month"},
	{"3months", "1-3 months"},
	{"6months", "3-6 months"},
	{"flexible", "Flexible"},
}

var Specialties = []Option{
	{"technical-designer", "Technical Designer"},
	{"3d-fashion-designer", "3D Fashion Designer"},
	{"patternmaker", "Patternmaker"},
	{"collection-developer", "Collection Developer"},
	{"3d-visualization-specialist", "3D Visualization Specialist"},
	{"knitwear-specialist", "Knitwear Specialist"},
	{"footwear-designer", "Footwear Designer"},
	{"accessories-designer", "Accessories Designer"},
	{"other", "Other"},
}
