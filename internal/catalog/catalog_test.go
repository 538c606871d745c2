package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/terra-clan/agency-site/internal/models"
)

func TestDefaultServicesOrder(t *testing.T) {
	c := Default()

	assert.Equal(t, []models.ServiceCode{CodeBlog, CodeGraphics, CodeVideo, CodeVoiceover}, c.Codes())
	assert.Equal(t, CodeBlog, c.DefaultCode())

	for _, svc := range c.Services() {
		assert.NotEmpty(t, svc.Features, "service %s should have features", svc.Code)
		assert.True(t, strings.HasPrefix(svc.Price, "Starting at $"), "unexpected price %q", svc.Price)
	}
}

func TestDefaultStats(t *testing.T) {
	want := []models.StatisticEntry{
		{Label: "Happy Clients", Value: "1,000+", Icon: "users"},
		{Label: "Projects Completed", Value: "5,000+", Icon: "check-circle"},
		{Label: "Average Delivery", Value: "24 Hours", Icon: "clock"},
		{Label: "Success Rate", Value: "99%", Icon: "star"},
	}

	if diff := cmp.Diff(want, Default().Stats()); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultTestimonials(t *testing.T) {
	testimonials := Default().Testimonials()
	require.Len(t, testimonials, TestimonialCount)

	names := []string{"Sarah Johnson", "Michael Chen", "Emily Rodriguez"}
	for i, tm := range testimonials {
		assert.Equal(t, names[i], tm.Name)
		assert.Equal(t, 5, tm.Rating)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	c := Default()

	services := c.Services()
	services[0].Name = "changed"
	services[0].Features[0] = "changed"

	stats := c.Stats()
	stats[0].Value = "0"

	svc, ok := c.Service(CodeBlog)
	require.True(t, ok)
	svc.Features[1] = "changed"

	fresh, _ := c.Service(CodeBlog)
	assert.Equal(t, "Blog Writing", fresh.Name)
	assert.Equal(t, []string{"SEO Optimized", "Custom Topics", "Multiple Formats", "Fast Delivery"}, fresh.Features)
	assert.Equal(t, "1,000+", c.Stats()[0].Value)
}

func TestServiceLookup(t *testing.T) {
	c := Default()

	svc, ok := c.Service(CodeGraphics)
	require.True(t, ok)
	assert.Equal(t, "Graphic Design", svc.Name)

	_, ok = c.Service("podcast")
	assert.False(t, ok)
	assert.False(t, c.Has("podcast"))
	assert.False(t, c.Has(""))
	assert.True(t, c.Has(CodeVoiceover))
}

func TestNewRejectsBrokenContent(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s []models.ServiceOffering, st []models.StatisticEntry, tm []models.Testimonial) ([]models.ServiceOffering, []models.StatisticEntry, []models.Testimonial)
		substr string
	}{
		{
			name: "too few services",
			mutate: func(s []models.ServiceOffering, st []models.StatisticEntry, tm []models.Testimonial) ([]models.ServiceOffering, []models.StatisticEntry, []models.Testimonial) {
				return s[:3], st, tm
			},
			substr: "expected 4 services",
		},
		{
			name: "duplicate code",
			mutate: func(s []models.ServiceOffering, st []models.StatisticEntry, tm []models.Testimonial) ([]models.ServiceOffering, []models.StatisticEntry, []models.Testimonial) {
				s[3].Code = s[0].Code
				return s, st, tm
			},
			substr: "duplicate service code",
		},
		{
			name: "empty features",
			mutate: func(s []models.ServiceOffering, st []models.StatisticEntry, tm []models.Testimonial) ([]models.ServiceOffering, []models.StatisticEntry, []models.Testimonial) {
				s[1].Features = nil
				return s, st, tm
			},
			substr: "has no features",
		},
		{
			name: "missing stat",
			mutate: func(s []models.ServiceOffering, st []models.StatisticEntry, tm []models.Testimonial) ([]models.ServiceOffering, []models.StatisticEntry, []models.Testimonial) {
				return s, st[:3], tm
			},
			substr: "expected 4 stats",
		},
		{
			name: "rating too high",
			mutate: func(s []models.ServiceOffering, st []models.StatisticEntry, tm []models.Testimonial) ([]models.ServiceOffering, []models.StatisticEntry, []models.Testimonial) {
				tm[2].Rating = 6
				return s, st, tm
			},
			substr: "out of range",
		},
		{
			name: "rating zero",
			mutate: func(s []models.ServiceOffering, st []models.StatisticEntry, tm []models.Testimonial) ([]models.ServiceOffering, []models.StatisticEntry, []models.Testimonial) {
				tm[0].Rating = 0
				return s, st, tm
			},
			substr: "out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, st, tm := tt.mutate(defaultServices(), defaultStats(), defaultTestimonials())
			_, err := New(s, st, tm)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidCatalog))
			assert.Contains(t, err.Error(), tt.substr)
		})
	}
}

func TestLoadFromFileRoundTrip(t *testing.T) {
	data, err := yaml.Marshal(Default())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "content.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)

	if diff := cmp.Diff(Default().Services(), loaded.Services()); diff != "" {
		t.Errorf("services mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, Default().Testimonials(), loaded.Testimonials())
}

func TestLoadOrDefaultFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("services: [}"), 0o644))

	_, err := LoadFromFile(path)
	require.Error(t, err)

	c := LoadOrDefault(path)
	assert.Equal(t, Default().Codes(), c.Codes())

	c = LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, CodeBlog, c.DefaultCode())

	assert.Equal(t, CodeBlog, LoadOrDefault("").DefaultCode())
}
