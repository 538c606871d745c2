package page

import (
	"fmt"
	"strconv"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/terra-clan/agency-site/internal/models"
)

const (
	container = "max-w-7xl mx-auto px-4 sm:px-6 lg:px-8"

	cardClass     = "bg-white rounded-lg shadow-lg p-6 cursor-pointer transition-all hover:shadow-xl"
	selectedClass = "ring-2 ring-primary-500"

	primaryButton   = "bg-yellow-400 text-primary-900 px-8 py-4 rounded-lg font-semibold text-lg hover:bg-yellow-300 transition-colors"
	secondaryButton = "border-2 border-white text-white px-8 py-4 rounded-lg font-semibold text-lg hover:bg-white hover:text-primary-900 transition-colors"

	starGlyph = "★"
)

func sectionAttr(id SectionID) g.Node {
	return g.Attr("data-section", string(id))
}

func icon(name, color string) g.Node {
	return h.Span(h.Class("icon icon-"+name+" "+color), g.Attr("aria-hidden", "true"))
}

func sectionHeader(title, subtitle string) g.Node {
	return h.Div(h.Class("text-center mb-16"),
		h.H2(h.Class("text-3xl md:text-4xl font-bold text-gray-900 mb-4"), g.Text(title)),
		h.P(h.Class("text-xl text-gray-600 max-w-3xl mx-auto"), g.Text(subtitle)),
	)
}

func headNode() g.Node {
	return h.Head(
		h.Meta(h.Charset("utf-8")),
		g.El("title", g.Text(pageTitle)),
		h.Meta(h.Name("description"), h.Content(pageDescription)),
		h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
		h.Link(h.Rel("icon"), h.Href("/favicon.ico")),
	)
}

func heroSection(links Links) g.Node {
	return h.Section(sectionAttr(SectionHero),
		h.Class("bg-gradient-to-br from-primary-600 via-primary-700 to-primary-800 text-white"),
		h.Div(h.Class(container+" py-20"),
			h.Div(h.Class("text-center"),
				h.H1(h.Class("text-4xl md:text-6xl font-bold mb-6 animate-fade-in"),
					g.Text("Transform Your Business with"),
					h.Span(h.Class("block text-yellow-300"), g.Text("AI-Powered Content")),
				),
				h.P(h.Class("text-xl md:text-2xl mb-8 text-primary-100 max-w-3xl mx-auto animate-slide-up"),
					g.Text("Get professional blogs, stunning graphics, engaging videos, and natural voiceovers "+
						"created by advanced AI technology in minutes, not days."),
				),
				h.Div(h.Class("flex flex-col sm:flex-row gap-4 justify-center animate-slide-up"),
					h.A(h.Href(links.Signup), h.Class(primaryButton), g.Text("Get Started Free")),
					h.A(h.Href(links.Services), h.Class(secondaryButton), g.Text("View Services")),
				),
			),
		),
	)
}

func statsSection(stats []models.StatisticEntry) g.Node {
	items := make([]g.Node, 0, len(stats))
	for _, st := range stats {
		items = append(items, h.Div(h.Class("text-center"), g.Attr("data-stat", st.Label),
			h.Div(h.Class("flex justify-center mb-4"), icon(st.Icon, "w-8 h-8 text-primary-600")),
			h.Div(h.Class("stat-value text-3xl font-bold text-gray-900 mb-2"), g.Text(st.Value)),
			h.Div(h.Class("stat-label text-gray-600"), g.Text(st.Label)),
		))
	}

	return h.Section(sectionAttr(SectionStats), h.Class("py-16 bg-white"),
		h.Div(h.Class(container),
			h.Div(append([]g.Node{h.Class("grid grid-cols-2 md:grid-cols-4 gap-8")}, items...)...),
		),
	)
}

func servicesSection(links Links, services []models.ServiceOffering, selected models.ServiceCode) g.Node {
	cards := make([]g.Node, 0, len(services))
	for _, svc := range services {
		cards = append(cards, serviceCard(links, svc, svc.Code == selected))
	}

	return h.Section(h.ID("services"), sectionAttr(SectionServices), h.Class("py-20 bg-gray-50"),
		h.Div(h.Class(container),
			sectionHeader("Our AI-Powered Services",
				"Choose from our range of professional content creation services, "+
					"all powered by cutting-edge artificial intelligence."),
			h.Div(append([]g.Node{h.Class("grid grid-cols-1 md:grid-cols-2 lg:grid-cols-4 gap-8 mb-16")}, cards...)...),
		),
	)
}

func serviceCard(links Links, svc models.ServiceOffering, selected bool) g.Node {
	class := cardClass
	if selected {
		class += " " + selectedClass
	}

	features := make([]g.Node, 0, len(svc.Features)+1)
	features = append(features, h.Class("space-y-2 mb-4"))
	for _, f := range svc.Features {
		features = append(features, h.Div(h.Class("feature flex items-center space-x-2"),
			icon("check-circle", "w-4 h-4 text-green-500"),
			h.Span(h.Class("text-sm text-gray-600"), g.Text(f)),
		))
	}

	return h.Div(h.Class(class),
		g.Attr("data-service", svc.Code.String()),
		g.If(selected, g.Attr("data-selected", "true")),
		g.El("form", h.Method("post"), h.Action(links.Select), h.Class("card-select"),
			h.Input(h.Type("hidden"), h.Name("code"), h.Value(svc.Code.String())),
			h.Button(h.Type("submit"), h.Class("w-full text-left"),
				g.Attr("aria-pressed", strconv.FormatBool(selected)),
				h.Div(h.Class("flex items-center justify-center w-12 h-12 bg-primary-100 rounded-lg mb-4"),
					icon(svc.Icon, "w-6 h-6 "+svc.Color),
				),
				h.H3(h.Class("text-xl font-semibold text-gray-900 mb-2"), g.Text(svc.Name)),
				h.P(h.Class("text-gray-600 mb-4"), g.Text(svc.Description)),
			),
		),
		h.Div(features...),
		h.Div(h.Class("price text-lg font-semibold text-primary-600 mb-4"), g.Text(svc.Price)),
		h.A(h.Href(links.Signup), h.Class("w-full btn-primary text-center block"), g.Text("Get Started")),
	)
}

type step struct {
	title string
	text  string
}

// The explainer is fixed copy, independent of the catalog.
var steps = []step{
	{"Choose Your Service", "Select from blog writing, graphics, video, or voiceover services based on your needs."},
	{"Provide Details", "Fill out a simple form with your requirements, preferences, and any specific instructions."},
	{"Get Your Content", "Receive your high-quality, AI-generated content within 24 hours or less."},
}

func howItWorksSection() g.Node {
	items := []g.Node{h.Class("grid grid-cols-1 md:grid-cols-3 gap-8")}
	for i, st := range steps {
		items = append(items, h.Div(h.Class("step text-center"),
			h.Div(h.Class("w-16 h-16 bg-primary-600 text-white rounded-full flex items-center justify-center text-2xl font-bold mx-auto mb-4"),
				g.Text(strconv.Itoa(i+1)),
			),
			h.H3(h.Class("text-xl font-semibold text-gray-900 mb-2"), g.Text(st.title)),
			h.P(h.Class("text-gray-600"), g.Text(st.text)),
		))
	}

	return h.Section(sectionAttr(SectionHowItWorks), h.Class("py-20 bg-white"),
		h.Div(h.Class(container),
			sectionHeader("How It Works", "Get professional content in just 3 simple steps"),
			h.Div(items...),
		),
	)
}

func testimonialsSection(testimonials []models.Testimonial) g.Node {
	items := []g.Node{h.Class("grid grid-cols-1 md:grid-cols-3 gap-8")}
	for _, tm := range testimonials {
		items = append(items, testimonialCard(tm))
	}

	return h.Section(sectionAttr(SectionTestimonials), h.Class("py-20 bg-gray-50"),
		h.Div(h.Class(container),
			sectionHeader("What Our Clients Say",
				"Join thousands of satisfied customers who trust us with their content needs"),
			h.Div(items...),
		),
	)
}

func testimonialCard(tm models.Testimonial) g.Node {
	stars := []g.Node{
		h.Class("stars flex items-center mb-4"),
		g.Attr("aria-label", fmt.Sprintf("%d out of %d stars", tm.Rating, models.MaxRating)),
	}
	for i := 0; i < tm.Rating; i++ {
		stars = append(stars, h.Span(h.Class("star w-5 h-5 text-yellow-400 fill-current"),
			g.Attr("aria-hidden", "true"), g.Text(starGlyph)))
	}

	return h.Div(h.Class("testimonial bg-white rounded-lg shadow-lg p-6"),
		g.Attr("data-testimonial", tm.Name),
		h.Div(stars...),
		h.P(h.Class("text-gray-600 mb-4"), g.Text(`"`+tm.Content+`"`)),
		h.Div(
			h.Div(h.Class("font-semibold text-gray-900"), g.Text(tm.Name)),
			h.Div(h.Class("text-sm text-gray-500"), g.Text(tm.Role+", "+tm.Company)),
		),
	)
}

func ctaSection(links Links) g.Node {
	return h.Section(sectionAttr(SectionCTA), h.Class("py-20 bg-primary-600 text-white"),
		h.Div(h.Class(container+" text-center"),
			h.H2(h.Class("text-3xl md:text-4xl font-bold mb-4"), g.Text("Ready to Transform Your Content Strategy?")),
			h.P(h.Class("text-xl mb-8 text-primary-100 max-w-2xl mx-auto"),
				g.Text("Join thousands of businesses already using AI to create amazing content. "+
					"Get started today with our free trial."),
			),
			h.Div(h.Class("flex flex-col sm:flex-row gap-4 justify-center"),
				h.A(h.Href(links.Signup), h.Class(primaryButton), g.Text("Start Free Trial")),
				h.A(h.Href(links.Contact), h.Class(secondaryButton), g.Text("Contact Sales")),
			),
		),
	)
}

func contactInfoRow(iconName, label, value string) g.Node {
	return h.Div(h.Class("flex items-center space-x-3"),
		h.Div(h.Class("w-10 h-10 bg-primary-100 rounded-lg flex items-center justify-center"),
			icon(iconName, "w-5 h-5 text-primary-600"),
		),
		h.Div(
			h.Div(h.Class("font-medium text-gray-900"), g.Text(label)),
			h.Div(h.Class("text-gray-600"), g.Text(value)),
		),
	)
}

func formField(label string, input g.Node) g.Node {
	return h.Div(
		g.El("label", h.Class("block text-sm font-medium text-gray-700 mb-1"), g.Text(label), input),
	)
}

// contactBody is everything inside the contact section except the flash line.
func contactBody(links Links) g.Node {
	return g.Group([]g.Node{
		sectionHeader("Get In Touch", "Have questions? We're here to help you succeed."),
		h.Div(h.Class("grid grid-cols-1 md:grid-cols-2 gap-12"),
			h.Div(
				h.H3(h.Class("text-2xl font-semibold text-gray-900 mb-6"), g.Text("Contact Information")),
				h.Div(h.Class("space-y-4"),
					contactInfoRow("shield", "Email", contactEmail),
					contactInfoRow("clock", "Response Time", "Within 2 hours"),
				),
			),
			h.Div(
				g.El("form", h.Method("post"), h.Action(links.ContactForm), h.Class("contact-form space-y-6"),
					formField("Name", h.Input(h.Type("text"), h.Name("name"), h.Class("input-field"), h.Placeholder("Your name"))),
					formField("Email", h.Input(h.Type("email"), h.Name("email"), h.Class("input-field"), h.Placeholder("your@email.com"))),
					formField("Message", h.Textarea(h.Name("message"), h.Class("input-field"), g.Attr("rows", "4"), h.Placeholder("How can we help you?"))),
					h.Button(h.Type("submit"), h.Class("w-full btn-primary"), g.Text("Send Message")),
				),
			),
		),
	})
}

func contactSection(body []byte, flash *Flash) g.Node {
	flashNode := g.Node(g.Group(nil))
	if flash != nil {
		flashNode = h.Div(h.Class("flash flash-"+string(flash.Kind)), g.Attr("role", "status"), g.Text(flash.Message))
	}

	return h.Section(h.ID("contact"), sectionAttr(SectionContact), h.Class("py-20 bg-white"),
		h.Div(h.Class(container),
			flashNode,
			g.Raw(string(body)),
		),
	)
}
