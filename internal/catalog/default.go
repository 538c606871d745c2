package catalog

import "github.com/terra-clan/agency-site/internal/models"

// Service codes of the built-in catalog
const (
	CodeBlog      models.ServiceCode = "blog"
	CodeGraphics  models.ServiceCode = "graphics"
	CodeVideo     models.ServiceCode = "video"
	CodeVoiceover models.ServiceCode = "voiceover"
)

// Default returns the built-in catalog
func Default() *Catalog {
	c, err := New(defaultServices(), defaultStats(), defaultTestimonials())
	if err != nil {
		// The literal tables below are fixed; a failure here is a programming error.
		panic(err)
	}
	return c
}

func defaultServices() []models.ServiceOffering {
	return []models.ServiceOffering{
		{
			Code:        CodeBlog,
			Name:        "Blog Writing",
			Icon:        "file-text",
			Description: "AI-powered blog posts and articles that engage your audience",
			Features:    []string{"SEO Optimized", "Custom Topics", "Multiple Formats", "Fast Delivery"},
			Price:       "Starting at $25",
			Color:       "text-blue-600",
		},
		{
			Code:        CodeGraphics,
			Name:        "Graphic Design",
			Icon:        "image",
			Description: "Stunning visuals and graphics created with AI technology",
			Features:    []string{"Custom Designs", "Multiple Styles", "High Resolution", "Commercial Use"},
			Price:       "Starting at $15",
			Color:       "text-green-600",
		},
		{
			Code:        CodeVideo,
			Name:        "Video Production",
			Icon:        "video",
			Description: "Professional video content generated with cutting-edge AI",
			Features:    []string{"Script to Video", "Multiple Formats", "HD Quality", "Custom Branding"},
			Price:       "Starting at $50",
			Color:       "text-purple-600",
		},
		{
			Code:        CodeVoiceover,
			Name:        "Voiceover Services",
			Icon:        "mic",
			Description: "Natural-sounding AI voiceovers in multiple languages",
			Features:    []string{"Multiple Voices", "Any Language", "Studio Quality", "Fast Turnaround"},
			Price:       "Starting at $20",
			Color:       "text-orange-600",
		},
	}
}

func defaultStats() []models.StatisticEntry {
	return []models.StatisticEntry{
		{Label: "Happy Clients", Value: "1,000+", Icon: "users"},
		{Label: "Projects Completed", Value: "5,000+", Icon: "check-circle"},
		{Label: "Average Delivery", Value: "24 Hours", Icon: "clock"},
		{Label: "Success Rate", Value: "99%", Icon: "star"},
	}
}

func defaultTestimonials() []models.Testimonial {
	return []models.Testimonial{
		{
			Name:    "Sarah Johnson",
			Role:    "Marketing Director",
			Company: "TechCorp",
			Content: "The AI-generated content exceeded our expectations. Quality is outstanding and delivery is lightning fast.",
			Rating:  5,
		},
		{
			Name:    "Michael Chen",
			Role:    "Content Creator",
			Company: "Digital Media Co.",
			Content: "Amazing service! The blog posts are well-researched and perfectly match our brand voice.",
			Rating:  5,
		},
		{
			Name:    "Emily Rodriguez",
			Role:    "Small Business Owner",
			Company: "Local Bakery",
			Content: "Affordable, professional, and quick. Exactly what my business needed for social media content.",
			Rating:  5,
		},
	}
}
