package api

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/terra-clan/agency-site/internal/contact"
	"github.com/terra-clan/agency-site/internal/models"
	"github.com/terra-clan/agency-site/internal/page"
)

const (
	contactSent    = "sent"
	contactError   = "error"
	contactLimited = "limited"
)

var contactFlashes = map[string]page.Flash{
	contactSent:    {Kind: page.FlashSuccess, Message: "Thanks for reaching out! We'll get back to you within one business day."},
	contactError:   {Kind: page.FlashError, Message: "Please fill in your name, a valid email and a message."},
	contactLimited: {Kind: page.FlashError, Message: "You've sent several messages already. Please try again in a few minutes."},
}

func respondHTML(w http.ResponseWriter, status int, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		slog.Error("failed to render page", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Debug("failed to write page", "error", err)
	}
}

// anchor keeps only in-page fragment links for redirects back to the page
func anchor(link string) string {
	if strings.HasPrefix(link, "#") {
		return link
	}
	return ""
}

func wantsFragment(r *http.Request) bool {
	return r.Header.Get(page.FragmentHeader) == page.FragmentServices ||
		r.URL.Query().Get("fragment") == page.FragmentServices
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	visitorID := VisitorFromContext(r.Context())
	unlock := s.locker.Lock(visitorID)
	defer unlock()

	v := s.openView(r.Context(), visitorID)
	if code := r.URL.Query().Get("service"); code != "" {
		s.selectAndSave(r.Context(), visitorID, v, models.ServiceCode(code))
	}
	if flash, ok := contactFlashes[r.URL.Query().Get("contact")]; ok {
		v.SetFlash(flash)
	}

	respondHTML(w, http.StatusOK, func(buf *bytes.Buffer) error {
		return v.Render(buf)
	})
}

func (s *Server) handleServicesFragment(w http.ResponseWriter, r *http.Request) {
	visitorID := VisitorFromContext(r.Context())
	unlock := s.locker.Lock(visitorID)
	defer unlock()

	v := s.openView(r.Context(), visitorID)
	respondHTML(w, http.StatusOK, func(buf *bytes.Buffer) error {
		return v.RenderServices(buf)
	})
}

func (s *Server) handleSelectForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	visitorID := VisitorFromContext(r.Context())
	unlock := s.locker.Lock(visitorID)
	defer unlock()

	v := s.openView(r.Context(), visitorID)
	s.selectAndSave(r.Context(), visitorID, v, models.ServiceCode(r.PostForm.Get("code")))

	if wantsFragment(r) {
		respondHTML(w, http.StatusOK, func(buf *bytes.Buffer) error {
			return v.RenderServices(buf)
		})
		return
	}

	http.Redirect(w, r, "/"+anchor(s.renderer.Links().Services), http.StatusSeeOther)
}

func (s *Server) handleContactForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	_, err := s.contact.Submit(r.Context(), models.ContactRequest{
		Name:    r.PostForm.Get("name"),
		Email:   r.PostForm.Get("email"),
		Message: r.PostForm.Get("message"),
	}, contact.Meta{
		RemoteAddr: clientIP(r),
		UserAgent:  r.UserAgent(),
	})

	outcome := contactSent
	switch {
	case err == nil:
	case errors.Is(err, contact.ErrInvalidSubmission):
		outcome = contactError
	case errors.Is(err, contact.ErrRateLimited):
		outcome = contactLimited
	default:
		slog.Error("failed to submit contact form", "error", err)
		outcome = contactError
	}

	http.Redirect(w, r, "/?contact="+outcome+anchor(s.renderer.Links().Contact), http.StatusSeeOther)
}
