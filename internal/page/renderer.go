// Package page composes the landing page from the content catalog and a
// visitor's selection state. Rendering uses gomponents.
package page

import (
	"bytes"
	"io"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/terra-clan/agency-site/internal/catalog"
	"github.com/terra-clan/agency-site/internal/models"
)

const (
	pageTitle       = "AI Digital Agency - Professional AI Content Creation Services"
	pageDescription = "Transform your business with AI-powered content creation. " +
		"Get high-quality blogs, graphics, videos, and voiceovers delivered fast."
	contactEmail = "contact@aidigitalagency.com"
)

// SectionID names a page section
type SectionID string

const (
	SectionHero         SectionID = "hero"
	SectionStats        SectionID = "stats"
	SectionServices     SectionID = "services"
	SectionHowItWorks   SectionID = "how-it-works"
	SectionTestimonials SectionID = "testimonials"
	SectionCTA          SectionID = "cta"
	SectionContact      SectionID = "contact"
)

// Order is the fixed top-to-bottom section order
var Order = []SectionID{
	SectionHero,
	SectionStats,
	SectionServices,
	SectionHowItWorks,
	SectionTestimonials,
	SectionCTA,
	SectionContact,
}

// Links holds the navigation targets emitted on the page. They are passed
// through as-is; nothing here resolves or validates them.
type Links struct {
	Signup      string
	Services    string
	Contact     string
	Select      string
	ContactForm string
	Live        string
}

// DefaultLinks returns the standard link targets
func DefaultLinks() Links {
	return Links{
		Signup:      "/signup",
		Services:    "#services",
		Contact:     "#contact",
		Select:      "/services/select",
		ContactForm: "/contact",
		Live:        LivePath,
	}
}

func (l Links) withDefaults() Links {
	d := DefaultLinks()
	if l.Signup == "" {
		l.Signup = d.Signup
	}
	if l.Services == "" {
		l.Services = d.Services
	}
	if l.Contact == "" {
		l.Contact = d.Contact
	}
	if l.Select == "" {
		l.Select = d.Select
	}
	if l.ContactForm == "" {
		l.ContactForm = d.ContactForm
	}
	if l.Live == "" {
		l.Live = d.Live
	}
	return l
}

// FlashKind classifies a flash message
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is a one-line status shown at the top of the contact section
type Flash struct {
	Kind    FlashKind
	Message string
}

// Renderer owns the catalog-derived sections. Everything except the
// services grid is rendered once, in NewRenderer, and reused for every page.
type Renderer struct {
	catalog *catalog.Catalog
	links   Links

	head         []byte
	hero         []byte
	stats        []byte
	howItWorks   []byte
	testimonials []byte
	cta          []byte
	contactBody  []byte
	script       []byte
}

// NewRenderer renders the static sections for cat
func NewRenderer(cat *catalog.Catalog, links Links) *Renderer {
	links = links.withDefaults()

	return &Renderer{
		catalog:      cat,
		links:        links,
		head:         renderBytes(headNode()),
		hero:         renderBytes(heroSection(links)),
		stats:        renderBytes(statsSection(cat.Stats())),
		howItWorks:   renderBytes(howItWorksSection()),
		testimonials: renderBytes(testimonialsSection(cat.Testimonials())),
		cta:          renderBytes(ctaSection(links)),
		contactBody:  renderBytes(contactBody(links)),
		script:       renderBytes(enhanceScript(links)),
	}
}

// Catalog returns the catalog the renderer was built from
func (r *Renderer) Catalog() *catalog.Catalog {
	return r.catalog
}

// Links returns the link targets in use
func (r *Renderer) Links() Links {
	return r.links
}

func (r *Renderer) renderServices(w io.Writer, selected models.ServiceCode) error {
	return servicesSection(r.links, r.catalog.Services(), selected).Render(w)
}

func (r *Renderer) document(services []byte, flash *Flash) g.Node {
	return h.Doctype(
		h.HTML(h.Lang("en"),
			g.Raw(string(r.head)),
			h.Body(
				g.Raw(string(r.hero)),
				g.Raw(string(r.stats)),
				g.Raw(string(services)),
				g.Raw(string(r.howItWorks)),
				g.Raw(string(r.testimonials)),
				g.Raw(string(r.cta)),
				contactSection(r.contactBody, flash),
				g.Raw(string(r.script)),
			),
		),
	)
}

// renderBytes renders n into memory; writes to a bytes.Buffer cannot fail.
func renderBytes(n g.Node) []byte {
	var buf bytes.Buffer
	_ = n.Render(&buf)
	return buf.Bytes()
}
