package live

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func TestHub_BroadcastReachesRoomOnly(t *testing.T) {
	hub, _ := startHub(t)

	prizes := NewClient(hub, nil, RoomPrizes)
	other := NewClient(hub, nil, "other")
	require.True(t, hub.Register(prizes))
	require.True(t, hub.Register(other))
	require.Eventually(t, func() bool { return hub.RoomSize(RoomPrizes) == 1 }, time.Second, 5*time.Millisecond)

	hub.PrizeStockChanged(3, 0)

	select {
	case raw := <-prizes.send:
		var msg struct {
			Type    string      `json:"type"`
			Payload StockUpdate `json:"payload"`
			RoomID  string      `json:"room_id"`
		}
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, MessagePrizeStockUpdated, msg.Type)
		assert.Equal(t, StockUpdate{PrizeID: 3, Quantity: 0}, msg.Payload)
		assert.Equal(t, RoomPrizes, msg.RoomID)
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}

	assert.Len(t, other.send, 0)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub, _ := startHub(t)

	c := NewClient(hub, nil, RoomPrizes)
	require.True(t, hub.Register(c))
	hub.Unregister(c)

	require.Eventually(t, func() bool { return hub.RoomSize(RoomPrizes) == 0 }, time.Second, 5*time.Millisecond)
	_, ok := <-c.send
	assert.False(t, ok)
	assert.Equal(t, 0, hub.BroadcastToRoom(RoomPrizes, Message{Type: "X"}))
}

func TestHub_SlowClientDropsMessages(t *testing.T) {
	hub, _ := startHub(t)

	c := NewClient(hub, nil, RoomPrizes)
	require.True(t, hub.Register(c))
	require.Eventually(t, func() bool { return hub.RoomSize(RoomPrizes) == 1 }, time.Second, 5*time.Millisecond)

	for i := 0; i < sendBuffer; i++ {
		require.Equal(t, 1, hub.BroadcastToRoom(RoomPrizes, Message{Type: "X"}))
	}
	assert.Equal(t, 0, hub.BroadcastToRoom(RoomPrizes, Message{Type: "X"}))
}

func TestHub_StopClosesClientsAndRejectsRegister(t *testing.T) {
	hub, cancel := startHub(t)

	c := NewClient(hub, nil, RoomPrizes)
	require.True(t, hub.Register(c))
	cancel()

	select {
	case _, ok := <-c.send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("client channel not closed")
	}
	assert.False(t, hub.Register(NewClient(hub, nil, RoomPrizes)))
}
