package publish

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"

	"github.com/JoshuaPothen/SleepTrackerV2/internal"
)

// RedisPublisher pushes each new reading to a single pub/sub channel.
// Subscribers (live dashboards) get the full reading as JSON. There is no
// delivery guarantee and no backpressure back to the ingest path.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	logger  internal.Logger
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewRedisPublisher(client *redis.Client, channel string, logger internal.Logger) (*RedisPublisher, error) {
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisPublisher{client: client, channel: channel, logger: logger}, nil
}

func (p *RedisPublisher) Notify(ctx context.Context, r *internal.SensorReading) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, payload).Err()
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

var _ Publisher = (*RedisPublisher)(nil)
