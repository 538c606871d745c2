package page

import (
	"bytes"
	"io"

	"github.com/terra-clan/agency-site/internal/models"
	"github.com/terra-clan/agency-site/internal/selection"
)

// View is one visitor's page: shared static sections plus a services grid
// kept in sync with the visitor's selection state. A View inherits the
// state's concurrency rules and must not be shared across goroutines.
type View struct {
	renderer *Renderer
	state    *selection.State
	flash    *Flash

	services        []byte
	servicesRenders int
}

// NewView composes a page for state and re-renders the services grid
// whenever the selection changes
func NewView(r *Renderer, state *selection.State) *View {
	v := &View{
		renderer: r,
		state:    state,
	}
	v.refreshServices()
	state.OnChange(func(models.ServiceCode) {
		v.refreshServices()
	})
	return v
}

func (v *View) refreshServices() {
	var buf bytes.Buffer
	_ = v.renderer.renderServices(&buf, v.state.Selected())
	v.services = buf.Bytes()
	v.servicesRenders++
}

// State returns the selection state backing the view
func (v *View) State() *selection.State {
	return v.state
}

// Selected returns the highlighted service code
func (v *View) Selected() models.ServiceCode {
	return v.state.Selected()
}

// Select forwards to the selection state; see selection.State.Select
func (v *View) Select(code models.ServiceCode) bool {
	return v.state.Select(code)
}

// SetFlash shows f above the contact form on the next Render
func (v *View) SetFlash(f Flash) {
	v.flash = &f
}

// ServicesRenders reports how many times the services grid was rendered
func (v *View) ServicesRenders() int {
	return v.servicesRenders
}

// Render writes the full HTML document
func (v *View) Render(w io.Writer) error {
	return v.renderer.document(v.services, v.flash).Render(w)
}

// RenderServices writes the services section alone
func (v *View) RenderServices(w io.Writer) error {
	_, err := w.Write(v.services)
	return err
}

// ServicesHTML returns the current services section markup
func (v *View) ServicesHTML() string {
	return string(v.services)
}
