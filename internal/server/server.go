// Package server is the WebSocket boundary: it accepts connections,
// resolves durable identities, runs the per-connection read loop and wires
// the engine's broadcasts to live connections. No game rules live here.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/jjoak3/dumptrick/internal/auth"
	"github.com/jjoak3/dumptrick/internal/engine"
	"github.com/jjoak3/dumptrick/internal/session"
)

// welcomeFrame is the first message on a fresh or resumed connection. The
// client persists the token and replays it on reconnect.
type welcomeFrame struct {
	Type     string `json:"type"`
	PlayerID string `json:"player_id"`
	Token    string `json:"token"`
}

// errorFrame acknowledges a rejected action to the offending connection.
type errorFrame struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Server ties the engine, the session registry and identity tokens together
// behind an HTTP handler.
type Server struct {
	log      *logrus.Logger
	game     *engine.Game
	registry *session.Registry
	issuer   *auth.Issuer
}

// New wires the engine's broadcast callback to the registry and returns the
// assembled server.
func New(game *engine.Game, registry *session.Registry, issuer *auth.Issuer, log *logrus.Logger) *Server {
	s := &Server{log: log, game: game, registry: registry, issuer: issuer}
	game.BroadcastToPlayerFn = s.sendState
	return s
}

// Handler returns the HTTP mux: a health probe at / and the game socket at
// /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Server running"}`))
	})
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// sendState marshals and delivers one state frame. Delivery failures are
// left to the read loop, which will observe the dead connection.
func (s *Server) sendState(playerID string, frame engine.StateFrame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		s.log.WithError(err).Error("failed marshaling state frame")
		return
	}
	if err := s.registry.Send(context.Background(), playerID, payload); err != nil &&
		!errors.Is(err, session.ErrNotConnected) {
		s.log.WithError(err).WithField("player", playerID).Debug("state frame not delivered")
	}
}

func (s *Server) sendError(ctx context.Context, playerID string, code, message string) {
	payload, err := json.Marshal(errorFrame{Type: "error", Code: code, Message: message})
	if err != nil {
		return
	}
	_ = s.registry.Send(ctx, playerID, payload)
}

// handleWS runs the full connection lifecycle: handshake, identity
// resolution, read loop, disconnect.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.log.WithError(err).Debug("websocket accept failed")
		return
	}

	playerID := s.resolveIdentity(r)
	log := s.log.WithField("player", playerID)

	if s.game.Expired() {
		s.log.Info("game expired, resetting to lobby")
		s.game.Reset()
	}

	// Attach before Join so the Join broadcast reaches this connection. A
	// replaced connection belongs to a stale session of the same identity.
	if replaced := s.registry.Attach(playerID, conn); replaced != nil {
		replaced.Close(websocket.StatusPolicyViolation, "session resumed elsewhere")
	}

	token, err := s.issuer.Issue(playerID)
	if err != nil {
		log.WithError(err).Error("failed issuing identity token")
	}
	welcome, _ := json.Marshal(welcomeFrame{Type: "welcome", PlayerID: playerID, Token: token})
	if err := s.registry.Send(r.Context(), playerID, welcome); err != nil {
		s.registry.Detach(playerID, conn)
		conn.Close(websocket.StatusInternalError, "handshake failed")
		return
	}

	if _, err := s.game.Join(playerID); err != nil {
		log.WithError(err).Info("connection rejected")
		s.sendError(r.Context(), playerID, engine.Code(err), err.Error())
		s.registry.Detach(playerID, conn)
		conn.Close(websocket.StatusPolicyViolation, "table is full")
		return
	}
	log.Info("connection established")

	s.readLoop(r.Context(), conn, playerID, log)

	// A failed Detach means a reconnect already replaced this connection;
	// the seat stays live in that case.
	if s.registry.Detach(playerID, conn) {
		s.game.Leave(playerID)
	}
	conn.Close(websocket.StatusNormalClosure, "")
	log.Info("connection closed")
}

// resolveIdentity picks the durable player id for a connection: a verified
// token wins, a raw player_id is honored only while the engine still knows
// it, anything else gets a fresh identity.
func (s *Server) resolveIdentity(r *http.Request) string {
	query := r.URL.Query()
	if token := query.Get("token"); token != "" {
		if playerID, err := s.issuer.Verify(token); err == nil {
			return playerID
		}
		s.log.Debug("ignoring invalid identity token")
	}
	if playerID := query.Get("player_id"); playerID != "" && s.game.Known(playerID) {
		return playerID
	}
	return engine.NewPlayerID()
}

// readLoop decodes inbound actions and forwards them into the engine until
// the connection drops. Malformed payloads are dropped with a diagnostic;
// rejected actions are acknowledged to this connection only.
func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, playerID string, log *logrus.Entry) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			log.WithError(err).Debug("read loop ended")
			return
		}

		var act engine.Action
		if err := json.Unmarshal(data, &act); err != nil {
			log.WithError(err).Warn("dropping undecodable message")
			s.sendError(ctx, playerID, "unknown_action", "undecodable message")
			continue
		}

		if err := s.game.HandleAction(playerID, act); err != nil {
			log.WithFields(logrus.Fields{"action": act.Action, "code": engine.Code(err)}).
				Info("action rejected")
			s.sendError(ctx, playerID, engine.Code(err), err.Error())
		}
	}
}
