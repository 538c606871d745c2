package models

// ServiceCode identifies a service offering (e.g., "blog", "graphics")
type ServiceCode string

// String returns the code as a plain string
func (c ServiceCode) String() string {
	return string(c)
}

// ServiceOffering is one content-generation product shown on the page
type ServiceOffering struct {
	Code        ServiceCode `yaml:"code" json:"code"`
	Name        string      `yaml:"name" json:"name"`
	Icon        string      `yaml:"icon" json:"icon"` // symbolic icon name, e.g. "file-text"
	Description string      `yaml:"description" json:"description"`
	Features    []string    `yaml:"features" json:"features"`
	Price       string      `yaml:"price" json:"price"` // display only, never parsed
	Color       string      `yaml:"color" json:"color"` // accent color token
}

// StatisticEntry is one figure in the statistics strip
type StatisticEntry struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"` // display string, may contain "+" or "%"
	Icon  string `yaml:"icon" json:"icon"`
}

// Testimonial is a customer quote with a star rating
type Testimonial struct {
	Name    string `yaml:"name" json:"name"`
	Role    string `yaml:"role" json:"role"`
	Company string `yaml:"company" json:"company"`
	Content string `yaml:"content" json:"content"`
	Rating  int    `yaml:"rating" json:"rating"` // 1..5
}

// Rating bounds for testimonials
const (
	MinRating = 1
	MaxRating = 5
)

// CatalogResponse is the JSON view of the whole content catalog
type CatalogResponse struct {
	Services     []ServiceOffering `json:"services"`
	Stats        []StatisticEntry  `json:"stats"`
	Testimonials []Testimonial     `json:"testimonials"`
}

// SelectionRequest asks to change the highlighted service
type SelectionRequest struct {
	Code ServiceCode `json:"code"`
}

// SelectionResponse reports the highlighted service after a request
type SelectionResponse struct {
	Selected ServiceCode `json:"selected"`
	Changed  bool        `json:"changed"`
}
