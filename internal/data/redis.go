package data

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

const eventChannelPrefix = "pastel.events."

func MustRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}

// PublishEvent pushes a serialized room event onto the project's pub/sub
// channel so other server processes can fan it out to their own sockets.
func PublishEvent(ctx context.Context, rdb *redis.Client, projectID string, payload []byte) error {
	return rdb.Publish(ctx, eventChannelPrefix+projectID, payload).Err()
}

// SubscribeEvents subscribes to every project event channel. Callers receive
// raw payloads plus the project ID extracted from the channel name.
func SubscribeEvents(ctx context.Context, rdb *redis.Client) *redis.PubSub {
	return rdb.PSubscribe(ctx, eventChannelPrefix+"*")
}

// ProjectIDFromChannel recovers the project ID from a pub/sub channel name.
func ProjectIDFromChannel(channel string) string {
	if len(channel) <= len(eventChannelPrefix) {
		return ""
	}
	return channel[len(eventChannelPrefix):]
}
