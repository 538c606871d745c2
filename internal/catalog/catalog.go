// Package catalog holds the landing page content: service offerings,
// headline statistics and testimonials. A Catalog is built once and never
// modified; every accessor hands out copies.
package catalog

import (
	"errors"
	"fmt"

	"github.com/terra-clan/agency-site/internal/models"
)

// Expected entry counts
const (
	ServiceCount     = 4
	StatCount        = 4
	TestimonialCount = 3
)

// ErrInvalidCatalog is returned when catalog content breaks an invariant
var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is the immutable content catalog
type Catalog struct {
	services     []models.ServiceOffering
	stats        []models.StatisticEntry
	testimonials []models.Testimonial
	index        map[models.ServiceCode]int
}

// New builds a catalog from the given entries and validates it
func New(services []models.ServiceOffering, stats []models.StatisticEntry, testimonials []models.Testimonial) (*Catalog, error) {
	c := &Catalog{
		services:     cloneServices(services),
		stats:        append([]models.StatisticEntry(nil), stats...),
		testimonials: append([]models.Testimonial(nil), testimonials...),
		index:        make(map[models.ServiceCode]int, len(services)),
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	for i, svc := range c.services {
		c.index[svc.Code] = i
	}

	return c, nil
}

// Validate checks the catalog invariants
func (c *Catalog) Validate() error {
	if len(c.services) != ServiceCount {
		return fmt.Errorf("%w: expected %d services, got %d", ErrInvalidCatalog, ServiceCount, len(c.services))
	}

	seen := make(map[models.ServiceCode]bool, len(c.services))
	for i, svc := range c.services {
		if svc.Code == "" {
			return fmt.Errorf("%w: service %d has no code", ErrInvalidCatalog, i)
		}
		if seen[svc.Code] {
			return fmt.Errorf("%w: duplicate service code %q", ErrInvalidCatalog, svc.Code)
		}
		seen[svc.Code] = true

		if svc.Name == "" {
			return fmt.Errorf("%w: service %q has no name", ErrInvalidCatalog, svc.Code)
		}
		if len(svc.Features) == 0 {
			return fmt.Errorf("%w: service %q has no features", ErrInvalidCatalog, svc.Code)
		}
	}

	if len(c.stats) != StatCount {
		return fmt.Errorf("%w: expected %d stats, got %d", ErrInvalidCatalog, StatCount, len(c.stats))
	}

	if len(c.testimonials) != TestimonialCount {
		return fmt.Errorf("%w: expected %d testimonials, got %d", ErrInvalidCatalog, TestimonialCount, len(c.testimonials))
	}
	for i, t := range c.testimonials {
		if t.Rating < models.MinRating || t.Rating > models.MaxRating {
			return fmt.Errorf("%w: testimonial %d rating %d out of range %d-%d",
				ErrInvalidCatalog, i, t.Rating, models.MinRating, models.MaxRating)
		}
	}

	return nil
}

// Services returns the service offerings in display order
func (c *Catalog) Services() []models.ServiceOffering {
	return cloneServices(c.services)
}

// Stats returns the statistics in display order
func (c *Catalog) Stats() []models.StatisticEntry {
	return append([]models.StatisticEntry(nil), c.stats...)
}

// Testimonials returns the testimonials in display order
func (c *Catalog) Testimonials() []models.Testimonial {
	return append([]models.Testimonial(nil), c.testimonials...)
}

// Service returns the offering with the given code
func (c *Catalog) Service(code models.ServiceCode) (models.ServiceOffering, bool) {
	i, ok := c.index[code]
	if !ok {
		return models.ServiceOffering{}, false
	}
	svc := c.services[i]
	svc.Features = append([]string(nil), svc.Features...)
	return svc, true
}

// Has reports whether code names a service in the catalog
func (c *Catalog) Has(code models.ServiceCode) bool {
	_, ok := c.index[code]
	return ok
}

// Codes returns the service codes in display order
func (c *Catalog) Codes() []models.ServiceCode {
	codes := make([]models.ServiceCode, len(c.services))
	for i, svc := range c.services {
		codes[i] = svc.Code
	}
	return codes
}

// DefaultCode is the code selected before any interaction
func (c *Catalog) DefaultCode() models.ServiceCode {
	return c.services[0].Code
}

func cloneServices(in []models.ServiceOffering) []models.ServiceOffering {
	out := make([]models.ServiceOffering, len(in))
	for i, svc := range in {
		svc.Features = append([]string(nil), svc.Features...)
		out[i] = svc
	}
	return out
}
