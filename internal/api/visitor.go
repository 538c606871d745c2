package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/google/uuid"

	"github.com/terra-clan/agency-site/internal/models"
	"github.com/terra-clan/agency-site/internal/page"
	"github.com/terra-clan/agency-site/internal/selection"
)

// VisitorCookie carries the visitor id that selections are saved under
const VisitorCookie = "agency_visitor"

type contextKey string

const visitorContextKey contextKey = "visitor_id"

// VisitorFromContext extracts the visitor id from context
func VisitorFromContext(ctx context.Context) string {
	id, _ := ctx.Value(visitorContextKey).(string)
	return id
}

// ContextWithVisitor adds the visitor id to context
func ContextWithVisitor(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, visitorContextKey, id)
}

// visitorMiddleware reads the visitor cookie, issuing a new id when it is
// missing or malformed
func (s *Server) visitorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(VisitorCookie); err == nil {
			if parsed, err := uuid.Parse(c.Value); err == nil {
				id = parsed.String()
			}
		}

		if id == "" {
			id = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     VisitorCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   int(s.visitorTTL.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			slog.Debug("issued visitor id", "visitor", id)
		}

		next.ServeHTTP(w, r.WithContext(ContextWithVisitor(r.Context(), id)))
	})
}

// openView builds the visitor's page from the saved selection. A store
// failure is logged and the page falls back to the default selection.
// Callers hold the visitor's lock.
func (s *Server) openView(ctx context.Context, visitorID string) *page.View {
	code, ok, err := s.sessions.Load(ctx, visitorID)
	if err != nil {
		slog.Error("failed to load selection", "error", err, "visitor", visitorID)
	}

	var state *selection.State
	if ok {
		state = selection.Restore(s.catalog, code)
	} else {
		state = selection.New(s.catalog)
	}
	return page.NewView(s.renderer, state)
}

// selectAndSave applies code to v and saves the selection when it changed.
// Callers hold the visitor's lock.
func (s *Server) selectAndSave(ctx context.Context, visitorID string, v *page.View, code models.ServiceCode) models.SelectionResponse {
	before := v.Selected()
	v.Select(code)

	resp := models.SelectionResponse{
		Selected: v.Selected(),
		Changed:  v.Selected() != before,
	}

	if resp.Changed {
		if err := s.sessions.Save(ctx, visitorID, resp.Selected); err != nil {
			slog.Error("failed to save selection", "error", err, "visitor", visitorID)
		}
	}
	return resp
}

// clientIP is the address contact submissions are rate limited by
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
