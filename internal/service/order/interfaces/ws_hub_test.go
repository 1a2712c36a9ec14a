package interfaces

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/service/order/domain"
)

func TestHub_BroadcastsStatusChanges(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &wsClient{hub: hub, send: make(chan []byte, 1), userID: "admin-1"}
	hub.register <- client

	event := &domain.OrderStatusChanged{
		EventID:   "evt-1",
		OrderID:   "64a1f0c2e5b4a3d2c1b0a9f8",
		Buyer:     "user-1",
		OldStatus: domain.StatusNotProcessed,
		NewStatus: domain.StatusShipped,
	}
	hub.Publish(event)

	select {
	case payload := <-client.send:
		var got domain.OrderStatusChanged
		require.NoError(t, json.Unmarshal(payload, &got))
		assert.Equal(t, event.OrderID, got.OrderID)
		assert.Equal(t, domain.StatusShipped, got.NewStatus)
	case <-time.After(time.Second):
		t.Fatal("broadcast never reached the client")
	}
}

func TestHub_PublishNeverBlocks(t *testing.T) {
	// 没有 Run goroutine 在消费，队列填满后 Publish 仍须立即返回
	hub := NewHub()
	event := &domain.OrderStatusChanged{EventID: "evt-1", OrderID: "x"}

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.Publish(event)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked")
	}
}
