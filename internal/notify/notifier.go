package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/eventkeeper/reminder-service/internal/models"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier delivers a reminder-fired notification. Delivery is
// best-effort; failures are logged, never propagated to the sweep.
type Notifier interface {
	ReminderDue(event models.Event)
}

// LogNotifier writes reminder notifications to the service log.
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier creates a notifier backed by the given logger.
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) ReminderDue(event models.Event) {
	n.log.Info("Reminder due",
		zap.String("event_id", event.ID.String()),
		zap.String("user", event.User),
		zap.String("name", event.Name),
		zap.Time("date", event.Date))
}

// envelope is the message layout published on the reminder channel.
type envelope struct {
	ID        string       `json:"id"`
	Type      string       `json:"type"`
	Timestamp time.Time    `json:"timestamp"`
	Payload   models.Event `json:"payload"`
}

// RedisNotifier publishes reminder notifications to a Redis channel.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	log     *zap.Logger
}

// NewRedisNotifier creates a notifier publishing to channel via client.
func NewRedisNotifier(client *redis.Client, channel string, log *zap.Logger) *RedisNotifier {
	return &RedisNotifier{
		client:  client,
		channel: channel,
		log:     log,
	}
}

func (n *RedisNotifier) ReminderDue(event models.Event) {
	msg := envelope{
		ID:        uuid.New().String(),
		Type:      "reminder_due",
		Timestamp: time.Now().UTC(),
		Payload:   event,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		n.log.Error("Failed to marshal reminder notification", zap.Error(err))
		return
	}

	if err := n.client.Publish(context.Background(), n.channel, data).Err(); err != nil {
		n.log.Error("Failed to publish reminder notification",
			zap.String("channel", n.channel),
			zap.Error(err))
	}
}
