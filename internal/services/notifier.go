package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TopicResetPassword is the queue consumed by the mailer for reset links.
const TopicResetPassword = "reset password"

const queueKeyPrefix = "queue:"

// PublishResult identifies an enqueued message.
type PublishResult struct {
	MessageID string
	Topic     string
	QueuedAt  time.Time
}

// Publisher enqueues a message on a durable topic. Delivery is not awaited.
type Publisher interface {
	Publish(ctx context.Context, topic string, message any) (PublishResult, error)
}

// RedisQueuePublisher appends JSON messages to a Redis list per topic.
// Consumers pop from the head, so RPUSH keeps FIFO order.
type RedisQueuePublisher struct {
	client *redis.Client
}

func NewRedisQueuePublisher(client *redis.Client) *RedisQueuePublisher {
	return &RedisQueuePublisher{client: client}
}

func QueueKey(topic string) string {
	return queueKeyPrefix + topic
}

func (p *RedisQueuePublisher) Publish(ctx context.Context, topic string, message any) (PublishResult, error) {
	payload, err := json.Marshal(message)
	if err != nil {
		return PublishResult{}, fmt.Errorf("encode %q message: %w", topic, err)
	}

	if err := p.client.RPush(ctx, QueueKey(topic), payload).Err(); err != nil {
		return PublishResult{}, fmt.Errorf("%w: publish to %q: %v", ErrDownstream, topic, err)
	}

	return PublishResult{
		MessageID: uuid.NewString(),
		Topic:     topic,
		QueuedAt:  time.Now().UTC(),
	}, nil
}
