// Package session maps durable player identities to live WebSocket
// connections. It knows nothing about game rules: attaching, replacing and
// detaching connections are pure side effects on the id → connection table,
// which is what lets a reconnect resume a seat without touching game state.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// ErrNotConnected is returned when sending to an identity with no live
// connection.
var ErrNotConnected = errors.New("player has no live connection")

// writeTimeout bounds a single outbound frame write.
const writeTimeout = 5 * time.Second

// binding pairs a connection with a write mutex so that frames from the
// engine broadcast path and the handshake path never interleave.
type binding struct {
	ws  *websocket.Conn
	wmu sync.Mutex
}

// Registry is the id → connection table for the single shared table.
type Registry struct {
	mu    sync.Mutex
	conns map[string]*binding
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*binding)}
}

// Attach stores the connection for an identity, returning any connection it
// replaced so the caller can close it. A reconnecting identity simply swaps
// the stored connection.
func (r *Registry) Attach(playerID string, ws *websocket.Conn) *websocket.Conn {
	r.mu.Lock()
	defer r.mu.Unlock()

	var replaced *websocket.Conn
	if old, ok := r.conns[playerID]; ok {
		replaced = old.ws
	}
	r.conns[playerID] = &binding{ws: ws}
	return replaced
}

// Detach removes the connection for an identity, but only when the given
// connection is still the stored one. A stale read loop racing a fresh
// reconnect must not evict the new connection.
func (r *Registry) Detach(playerID string, ws *websocket.Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.conns[playerID]
	if !ok || current.ws != ws {
		return false
	}
	delete(r.conns, playerID)
	return true
}

// Connected reports whether an identity has a live connection.
func (r *Registry) Connected(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.conns[playerID]
	return ok
}

// Send writes one text frame to an identity's connection.
func (r *Registry) Send(ctx context.Context, playerID string, payload []byte) error {
	r.mu.Lock()
	b, ok := r.conns[playerID]
	r.mu.Unlock()
	if !ok {
		return ErrNotConnected
	}

	b.wmu.Lock()
	defer b.wmu.Unlock()
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return b.ws.Write(ctx, websocket.MessageText, payload)
}
