package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/pastelhq/pastel/internal/data"
)

// bridgeEnvelope wraps a room event for the cross-process channel. Origin
// lets each process skip events it published itself.
type bridgeEnvelope struct {
	Origin string          `json:"origin"`
	Event  json.RawMessage `json:"event"`
}

// AttachRedis wires the hub to a Redis pub/sub bridge: every broadcast is
// also published to the project's channel, and events published by other
// server processes are re-fanned-out to local sockets. Run until ctx ends.
func (h *Hub) AttachRedis(ctx context.Context, rdb *redis.Client) {
	h.publish = func(ctx context.Context, projectID string, payload []byte) error {
		return data.PublishEvent(ctx, rdb, projectID, payload)
	}

	go func() {
		pubsub := data.SubscribeEvents(ctx, rdb)
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var env bridgeEnvelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					log.Printf("realtime: bridge payload: %v", err)
					continue
				}
				if env.Origin == h.processID {
					continue
				}
				projectID := data.ProjectIDFromChannel(msg.Channel)
				if projectID == "" {
					continue
				}
				h.broadcastLocal(projectID, env.Event, nil)
			}
		}
	}()
}
