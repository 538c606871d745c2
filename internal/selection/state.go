// Package selection tracks which service card is highlighted on a page.
package selection

import "github.com/terra-clan/agency-site/internal/models"

// Catalog is the subset of the content catalog the state needs
type Catalog interface {
	Has(code models.ServiceCode) bool
	DefaultCode() models.ServiceCode
}

// Listener is called after the selection changes
type Listener func(selected models.ServiceCode)

// State holds the selected service code for one page.
// It is not safe for concurrent use; the owner serializes events.
type State struct {
	catalog   Catalog
	selected  models.ServiceCode
	listeners []Listener
}

// New creates a state selecting the catalog's default service
func New(cat Catalog) *State {
	return &State{
		catalog:  cat,
		selected: cat.DefaultCode(),
	}
}

// Restore creates a state from a previously saved code.
// Codes no longer in the catalog fall back to the default.
func Restore(cat Catalog, code models.ServiceCode) *State {
	s := New(cat)
	if cat.Has(code) {
		s.selected = code
	}
	return s
}

// Selected returns the current selection
func (s *State) Selected() models.ServiceCode {
	return s.selected
}

// Select highlights code. Unknown codes leave the state untouched and
// return false. Listeners run only when the selection actually changes.
func (s *State) Select(code models.ServiceCode) bool {
	if !s.catalog.Has(code) {
		return false
	}
	if code == s.selected {
		return true
	}

	s.selected = code
	for _, fn := range s.listeners {
		fn(code)
	}
	return true
}

// OnChange registers a listener for selection changes
func (s *State) OnChange(fn Listener) {
	s.listeners = append(s.listeners, fn)
}
