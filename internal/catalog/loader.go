package catalog

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/terra-clan/agency-site/internal/models"
)

// contentFile represents the YAML structure of a content file
type contentFile struct {
	Services     []models.ServiceOffering `yaml:"services"`
	Stats        []models.StatisticEntry  `yaml:"stats"`
	Testimonials []models.Testimonial     `yaml:"testimonials"`
}

// LoadFromFile loads a catalog from a YAML content file
func LoadFromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, err
	}

	slog.Info("catalog loaded",
		"file", path,
		"services", len(c.services),
		"stats", len(c.stats),
		"testimonials", len(c.testimonials),
	)
	return c, nil
}

// Parse builds a catalog from YAML content
func Parse(data []byte) (*Catalog, error) {
	var cf contentFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return New(cf.Services, cf.Stats, cf.Testimonials)
}

// LoadOrDefault loads the content file at path, falling back to the
// built-in catalog when path is empty or the file is unusable
func LoadOrDefault(path string) *Catalog {
	if path == "" {
		return Default()
	}

	c, err := LoadFromFile(path)
	if err != nil {
		slog.Warn("failed to load content file, using built-in catalog", "file", path, "error", err)
		return Default()
	}
	return c
}

// MarshalYAML encodes the catalog in content file form
func (c *Catalog) MarshalYAML() (interface{}, error) {
	return contentFile{
		Services:     c.Services(),
		Stats:        c.Stats(),
		Testimonials: c.Testimonials(),
	}, nil
}
