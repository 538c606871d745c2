package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/terra-clan/agency-site/internal/catalog"
	"github.com/terra-clan/agency-site/internal/config"
	"github.com/terra-clan/agency-site/internal/contact"
	"github.com/terra-clan/agency-site/internal/health"
	"github.com/terra-clan/agency-site/internal/models"
	"github.com/terra-clan/agency-site/internal/page"
	"github.com/terra-clan/agency-site/internal/session"
	"github.com/terra-clan/agency-site/internal/storage"
)

type testEnv struct {
	server   *Server
	ts       *httptest.Server
	repo     *storage.MemoryRepository
	sessions *session.MemoryStore
	health   *health.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithConfig(t, config.ServerConfig{Host: "127.0.0.1", Port: 8080})
}

func newTestEnvWithConfig(t *testing.T, cfg config.ServerConfig) *testEnv {
	t.Helper()

	repo := storage.NewMemoryRepository()
	sessions := session.NewMemoryStore(time.Hour)
	registry := health.NewRegistry()
	registry.Register("storage", repo)
	registry.Register("sessions", sessions)

	srv := NewServer(cfg, Dependencies{
		Renderer: page.NewRenderer(catalog.Default(), page.DefaultLinks()),
		Sessions: sessions,
		Contact:  contact.NewService(repo, contact.NewLimiter(60, 3, time.Minute)),
		Health:   registry,
	})

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	return &testEnv{server: srv, ts: ts, repo: repo, sessions: sessions, health: registry}
}

// client returns a browser-like client with its own cookie jar that does
// not follow redirects
func (e *testEnv) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar:     jar,
		Timeout: 5 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, resp *http.Response, data interface{}) envelope {
	t.Helper()
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func doJSON(t *testing.T, c *http.Client, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Do(req)
	require.NoError(t, err)
	return resp
}

func selectedCards(t *testing.T, markup string) (all, selected []string) {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(markup))
	require.NoError(t, err)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			var code, sel string
			for _, a := range n.Attr {
				switch a.Key {
				case "data-service":
					code = a.Val
				case "data-selected":
					sel = a.Val
				}
			}
			if code != "" {
				all = append(all, code)
				if sel == "true" {
					selected = append(selected, code)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return all, selected
}

func getPage(t *testing.T, c *http.Client, url string) string {
	t.Helper()
	resp, err := c.Get(url)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	return readBody(t, resp)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.ts.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var data map[string]string
	e := decodeEnvelope(t, resp, &data)
	assert.True(t, e.Success)
	assert.Equal(t, "healthy", data["status"])
	assert.Empty(t, resp.Header.Values("Set-Cookie"))
}

func TestReady(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.ts.URL + "/ready")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	env.health.Register("redis", health.CheckerFunc(func(context.Context) error {
		return errors.New("dial tcp: connection refused")
	}))

	resp, err = http.Get(env.ts.URL + "/ready")
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	e := decodeEnvelope(t, resp, nil)
	require.NotNil(t, e.Error)
	assert.Equal(t, "not_ready", e.Error.Code)
	assert.Contains(t, e.Error.Message, "redis")
}

func TestPageIssuesVisitorAndDefaultsToBlog(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	resp, err := c.Get(env.ts.URL + "/")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var visitor *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == VisitorCookie {
			visitor = ck
		}
	}
	require.NotNil(t, visitor)
	assert.True(t, visitor.HttpOnly)

	all, selected := selectedCards(t, readBody(t, resp))
	assert.Equal(t, []string{"blog", "graphics", "video", "voiceover"}, all)
	assert.Equal(t, []string{"blog"}, selected)

	// A returning visitor keeps its id.
	resp, err = c.Get(env.ts.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, resp.Header.Values("Set-Cookie"))
}

func TestSelectFormPersistsSelection(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)
	getPage(t, c, env.ts.URL+"/")

	resp, err := c.PostForm(env.ts.URL+"/services/select", url.Values{"code": {"video"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/#services", resp.Header.Get("Location"))

	_, selected := selectedCards(t, getPage(t, c, env.ts.URL+"/"))
	assert.Equal(t, []string{"video"}, selected)

	// Unknown codes leave the highlight alone.
	resp, err = c.PostForm(env.ts.URL+"/services/select", url.Values{"code": {"podcast"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, selected = selectedCards(t, getPage(t, c, env.ts.URL+"/"))
	assert.Equal(t, []string{"video"}, selected)
}

func TestSelectFormReturnsFragment(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	req, err := http.NewRequest(http.MethodPost, env.ts.URL+"/services/select",
		strings.NewReader(url.Values{"code": {"graphics"}}.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(page.FragmentHeader, "services")

	resp, err := c.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	assert.NotContains(t, strings.ToLower(body), "<!doctype")
	assert.Contains(t, body, `id="services"`)

	all, selected := selectedCards(t, body)
	assert.Len(t, all, 4)
	assert.Equal(t, []string{"graphics"}, selected)

	body = getPage(t, c, env.ts.URL+"/fragments/services")
	_, selected = selectedCards(t, body)
	assert.Equal(t, []string{"graphics"}, selected)
}

func TestServiceQueryParameter(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	_, selected := selectedCards(t, getPage(t, c, env.ts.URL+"/?service=voiceover"))
	assert.Equal(t, []string{"voiceover"}, selected)

	_, selected = selectedCards(t, getPage(t, c, env.ts.URL+"/?service=nope"))
	assert.Equal(t, []string{"voiceover"}, selected)
}

func TestVisitorsAreIsolated(t *testing.T) {
	env := newTestEnv(t)
	alice, bob := env.client(t), env.client(t)
	getPage(t, alice, env.ts.URL+"/")
	getPage(t, bob, env.ts.URL+"/")

	resp, err := alice.PostForm(env.ts.URL+"/services/select", url.Values{"code": {"video"}})
	require.NoError(t, err)
	resp.Body.Close()

	_, selected := selectedCards(t, getPage(t, bob, env.ts.URL+"/"))
	assert.Equal(t, []string{"blog"}, selected)
	_, selected = selectedCards(t, getPage(t, alice, env.ts.URL+"/"))
	assert.Equal(t, []string{"video"}, selected)
}

func TestCatalogAPI(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.ts.URL + "/api/v1/catalog")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var cat models.CatalogResponse
	e := decodeEnvelope(t, resp, &cat)
	assert.True(t, e.Success)
	assert.Len(t, cat.Services, 4)
	assert.Len(t, cat.Stats, 4)
	assert.Len(t, cat.Testimonials, 3)

	resp, err = http.Get(env.ts.URL + "/api/v1/services/graphics")
	require.NoError(t, err)
	var svc models.ServiceOffering
	decodeEnvelope(t, resp, &svc)
	assert.Equal(t, "Graphic Design", svc.Name)

	resp, err = http.Get(env.ts.URL + "/api/v1/services/podcast")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	e = decodeEnvelope(t, resp, nil)
	assert.False(t, e.Success)
	assert.Equal(t, "not_found", e.Error.Code)

	resp, err = http.Get(env.ts.URL + "/api/v1/services")
	require.NoError(t, err)
	var list struct {
		Services []models.ServiceOffering `json:"services"`
		Total    int                      `json:"total"`
	}
	decodeEnvelope(t, resp, &list)
	assert.Equal(t, 4, list.Total)
	assert.Equal(t, models.ServiceCode("blog"), list.Services[0].Code)
}

func TestSelectionAPI(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)
	base := env.ts.URL + "/api/v1/selection"

	resp, err := c.Get(base)
	require.NoError(t, err)
	var sel models.SelectionResponse
	decodeEnvelope(t, resp, &sel)
	assert.Equal(t, models.SelectionResponse{Selected: "blog"}, sel)

	steps := []struct {
		body string
		want models.SelectionResponse
	}{
		{`{"code":"video"}`, models.SelectionResponse{Selected: "video", Changed: true}},
		{`{"code":"video"}`, models.SelectionResponse{Selected: "video", Changed: false}},
		{`{"code":"podcast"}`, models.SelectionResponse{Selected: "video", Changed: false}},
		{`{"code":"blog"}`, models.SelectionResponse{Selected: "blog", Changed: true}},
	}
	for _, step := range steps {
		resp := doJSON(t, c, http.MethodPut, base, step.body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var got models.SelectionResponse
		decodeEnvelope(t, resp, &got)
		assert.Equal(t, step.want, got, "body %s", step.body)
	}

	resp = doJSON(t, c, http.MethodPut, base, `{"code":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	e := decodeEnvelope(t, resp, nil)
	assert.Equal(t, "invalid_request", e.Error.Code)
}

func TestContactAPI(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)
	endpoint := env.ts.URL + "/api/v1/contact"

	resp := doJSON(t, c, http.MethodPost, endpoint,
		`{"name":"Ada","email":"ada@example.com","message":"Need 10 blog posts"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var ack models.ContactAck
	decodeEnvelope(t, resp, &ack)
	require.NotEmpty(t, ack.ID)

	stored, err := env.repo.GetContactMessage(context.Background(), ack.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "ada@example.com", stored.Email)
	assert.Equal(t, "127.0.0.1", stored.RemoteAddr)

	resp = doJSON(t, c, http.MethodPost, endpoint, `{"name":"","email":"nope","message":"hi"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	e := decodeEnvelope(t, resp, nil)
	require.NotNil(t, e.Error)
	assert.Equal(t, "validation_error", e.Error.Code)
	assert.Contains(t, e.Error.Fields, "name")
	assert.Contains(t, e.Error.Fields, "email")
	assert.NotContains(t, e.Error.Fields, "message")
}

func TestContactAPIRateLimited(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)
	body := `{"name":"Ada","email":"ada@example.com","message":"hello"}`

	for i := 0; i < 3; i++ {
		resp := doJSON(t, c, http.MethodPost, env.ts.URL+"/api/v1/contact", body)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := doJSON(t, c, http.MethodPost, env.ts.URL+"/api/v1/contact", body)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	e := decodeEnvelope(t, resp, nil)
	assert.Equal(t, "rate_limited", e.Error.Code)
}

// postContactFrom posts a valid contact request claiming to come from ip
func postContactFrom(t *testing.T, c *http.Client, url, ip string) int {
	t.Helper()
	body := `{"name":"Ada","email":"ada@example.com","message":"hello"}`
	req, err := http.NewRequest(http.MethodPost, url+"/api/v1/contact", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Real-IP", ip)
	req.Header.Set("X-Forwarded-For", ip)
	resp, err := c.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestContactAPIRateLimitIgnoresForwardedHeaders(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	var statuses []int
	for i := 0; i < 10; i++ {
		statuses = append(statuses, postContactFrom(t, c, env.ts.URL, fmt.Sprintf("203.0.113.%d", i+1)))
	}

	for i, status := range statuses {
		if i < 3 {
			assert.Equal(t, http.StatusCreated, status, "request %d", i)
		} else {
			assert.Equal(t, http.StatusTooManyRequests, status, "request %d", i)
		}
	}

	messages, err := env.repo.ListContactMessages(context.Background(), 100, 0)
	require.NoError(t, err)
	assert.Len(t, messages, 3)
}

func TestContactAPITrustProxyUsesForwardedAddress(t *testing.T) {
	env := newTestEnvWithConfig(t, config.ServerConfig{Host: "127.0.0.1", Port: 8080, TrustProxy: true})
	c := env.client(t)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusCreated, postContactFrom(t, c, env.ts.URL, "203.0.113.1"))
	}
	assert.Equal(t, http.StatusTooManyRequests, postContactFrom(t, c, env.ts.URL, "203.0.113.1"))
	assert.Equal(t, http.StatusCreated, postContactFrom(t, c, env.ts.URL, "203.0.113.2"))
}

func TestContactFormRedirectsWithFlash(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	resp, err := c.PostForm(env.ts.URL+"/contact", url.Values{
		"name":    {"Ada"},
		"email":   {"ada@example.com"},
		"message": {"Please call me"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/?contact=sent#contact", resp.Header.Get("Location"))

	body := getPage(t, c, env.ts.URL+"/?contact=sent")
	assert.Contains(t, body, "flash-success")

	resp, err = c.PostForm(env.ts.URL+"/contact", url.Values{"name": {"Ada"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "/?contact=error#contact", resp.Header.Get("Location"))

	body = getPage(t, c, env.ts.URL+"/?contact=error")
	assert.Contains(t, body, "flash-error")

	assert.NotContains(t, getPage(t, c, env.ts.URL+"/?contact=bogus"), "flash-")
}

func TestServicesWebSocket(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)
	getPage(t, c, env.ts.URL+"/")

	dialer := websocket.Dialer{Jar: c.Jar, HandshakeTimeout: 5 * time.Second}
	wsURL := "ws" + strings.TrimPrefix(env.ts.URL, "http") + "/ws/services"

	conn, resp, err := dialer.Dial(wsURL, nil)
	require.NoError(t, err)
	resp.Body.Close()
	defer conn.Close()

	require.Eventually(t, func() bool { return env.server.LiveCount() == 1 }, time.Second, 10*time.Millisecond)

	var snap LiveServices
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, "services", snap.Type)
	assert.Equal(t, models.ServiceCode("blog"), snap.Selected)
	assert.False(t, snap.Changed)

	require.NoError(t, conn.WriteJSON(LiveRequest{Type: "select", Code: "graphics"}))
	require.NoError(t, conn.ReadJSON(&snap))
	assert.True(t, snap.Changed)
	assert.Equal(t, models.ServiceCode("graphics"), snap.Selected)
	_, selected := selectedCards(t, snap.HTML)
	assert.Equal(t, []string{"graphics"}, selected)

	require.NoError(t, conn.WriteJSON(LiveRequest{Type: "select", Code: "podcast"}))
	require.NoError(t, conn.ReadJSON(&snap))
	assert.False(t, snap.Changed)
	assert.Equal(t, models.ServiceCode("graphics"), snap.Selected)

	require.NoError(t, conn.WriteJSON(LiveRequest{Type: "dance"}))
	var liveErr LiveError
	require.NoError(t, conn.ReadJSON(&liveErr))
	assert.Equal(t, LiveError{Type: "error", Error: "unknown message type"}, liveErr)

	// The page served over HTTP sees the selection made over the socket.
	_, selected = selectedCards(t, getPage(t, c, env.ts.URL+"/"))
	assert.Equal(t, []string{"graphics"}, selected)

	env.server.CloseLive()
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
	assert.Zero(t, env.server.LiveCount())
}

func TestPageScriptUsesServedEndpoints(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)
	body := getPage(t, c, env.ts.URL+"/")

	assert.Contains(t, body, `"live":"`+page.LivePath+`"`)
	assert.Contains(t, body, `"header":"`+page.FragmentHeader+`"`)

	dialer := websocket.Dialer{Jar: c.Jar, HandshakeTimeout: 5 * time.Second}
	conn, resp, err := dialer.Dial("ws"+strings.TrimPrefix(env.ts.URL, "http")+page.LivePath, nil)
	require.NoError(t, err)
	resp.Body.Close()
	defer conn.Close()

	var snap LiveServices
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, "services", snap.Type)
}
