package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithoutAddressReturnsNil(t *testing.T) {
	assert.Nil(t, New(""))
}

func TestNilHistorianIsInert(t *testing.T) {
	var h *Historian
	ctx := context.Background()

	assert.NoError(t, h.Ping(ctx))
	assert.NoError(t, h.PublishGameAction(ctx, GameActionRecord{ActionType: "play_card"}))
	assert.NoError(t, h.Close())
}

func TestGameActionRecordEncoding(t *testing.T) {
	rec := GameActionRecord{
		GameID:      uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		ActionIndex: 7,
		ActorID:     "player-1",
		ActionType:  "play_card",
		ActionPayload: map[string]interface{}{
			"card": "QS",
		},
		Timestamp: 1700000000000,
	}

	payload, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "play_card", decoded["action_type"])
	assert.Equal(t, float64(7), decoded["action_index"])
	assert.Equal(t, "player-1", decoded["actor_id"])

	// Empty optional fields stay off the wire.
	payload, err = json.Marshal(GameActionRecord{ActionType: "game_reset"})
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "actor_id")
	assert.NotContains(t, string(payload), "action_payload")
}
