package session

import (
	"context"
	"testing"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachAndConnected(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Connected("p1"))

	replaced := r.Attach("p1", &websocket.Conn{})
	assert.Nil(t, replaced, "first attach replaces nothing")
	assert.True(t, r.Connected("p1"))
	assert.False(t, r.Connected("p2"))
}

func TestAttachReplacesPreviousConnection(t *testing.T) {
	r := NewRegistry()
	first := &websocket.Conn{}
	second := &websocket.Conn{}

	require.Nil(t, r.Attach("p1", first))
	replaced := r.Attach("p1", second)
	assert.Same(t, first, replaced, "caller gets the evicted connection to close")
	assert.True(t, r.Connected("p1"))
}

func TestDetachOnlyEvictsCurrentConnection(t *testing.T) {
	r := NewRegistry()
	stale := &websocket.Conn{}
	fresh := &websocket.Conn{}

	r.Attach("p1", stale)
	r.Attach("p1", fresh)

	// The stale connection's read loop winds down after the reconnect; its
	// detach must not drop the fresh connection.
	assert.False(t, r.Detach("p1", stale))
	assert.True(t, r.Connected("p1"))

	assert.True(t, r.Detach("p1", fresh))
	assert.False(t, r.Connected("p1"))
}

func TestDetachUnknownIdentity(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Detach("ghost", &websocket.Conn{}))
}

func TestSendToUnknownIdentity(t *testing.T) {
	r := NewRegistry()
	err := r.Send(context.Background(), "ghost", []byte(`{}`))
	assert.ErrorIs(t, err, ErrNotConnected)
}
