package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/terra-clan/agency-site/internal/models"
)

const liveReadLimit = 4096

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LiveRequest is sent by the browser over the services channel
type LiveRequest struct {
	Type string             `json:"type"`
	Code models.ServiceCode `json:"code,omitempty"`
}

// LiveServices carries the re-rendered services section
type LiveServices struct {
	Type     string             `json:"type"`
	Selected models.ServiceCode `json:"selected"`
	Changed  bool               `json:"changed"`
	HTML     string             `json:"html"`
}

// LiveError reports a message the server could not handle
type LiveError struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func (s *Server) handleServicesWS(w http.ResponseWriter, r *http.Request) {
	visitorID := VisitorFromContext(r.Context())

	// The visitor cookie may have just been issued; hand it to the upgrade response.
	var header http.Header
	if cookies := w.Header().Values("Set-Cookie"); len(cookies) > 0 {
		header = http.Header{"Set-Cookie": cookies}
	}

	conn, err := upgrader.Upgrade(w, r, header)
	if err != nil {
		slog.Error("failed to upgrade to websocket", "error", err)
		return
	}
	conn.SetReadLimit(liveReadLimit)

	s.trackLive(conn, true)
	defer s.trackLive(conn, false)
	defer conn.Close()

	slog.Info("services websocket connected", "visitor", visitorID)

	ctx := context.WithoutCancel(r.Context())

	if err := s.sendLive(conn, s.liveSnapshot(ctx, visitorID, "", false)); err != nil {
		return
	}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("websocket read error", "error", err)
			}
			break
		}

		var req LiveRequest
		if err := json.Unmarshal(message, &req); err != nil {
			slog.Debug("invalid message format", "error", err)
			if s.sendLive(conn, LiveError{Type: "error", Error: "invalid message"}) != nil {
				break
			}
			continue
		}

		var reply interface{}
		switch req.Type {
		case "select":
			reply = s.liveSnapshot(ctx, visitorID, req.Code, true)
		case "refresh":
			reply = s.liveSnapshot(ctx, visitorID, "", false)
		default:
			reply = LiveError{Type: "error", Error: "unknown message type"}
		}

		if s.sendLive(conn, reply) != nil {
			break
		}
	}

	slog.Info("services websocket disconnected", "visitor", visitorID)
}

// liveSnapshot optionally applies code, then renders the visitor's services section
func (s *Server) liveSnapshot(ctx context.Context, visitorID string, code models.ServiceCode, apply bool) LiveServices {
	unlock := s.locker.Lock(visitorID)
	defer unlock()

	v := s.openView(ctx, visitorID)
	resp := models.SelectionResponse{Selected: v.Selected()}
	if apply {
		resp = s.selectAndSave(ctx, visitorID, v, code)
	}

	return LiveServices{
		Type:     "services",
		Selected: resp.Selected,
		Changed:  resp.Changed,
		HTML:     v.ServicesHTML(),
	}
}

func (s *Server) trackLive(conn *websocket.Conn, open bool) {
	s.liveMu.Lock()
	defer s.liveMu.Unlock()
	if open {
		s.live[conn] = struct{}{}
	} else {
		delete(s.live, conn)
	}
}

// LiveCount returns the number of open live channels
func (s *Server) LiveCount() int {
	s.liveMu.Lock()
	defer s.liveMu.Unlock()
	return len(s.live)
}

func (s *Server) sendLive(conn *websocket.Conn, msg interface{}) error {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal live message", "error", err)
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Debug("failed to send live message", "error", err)
		return err
	}
	return nil
}
