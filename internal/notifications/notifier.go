// Package notifications publishes user-facing notifications into Redis channels.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"

	"eventplanner/internal/middleware"
	"eventplanner/internal/models"

	"github.com/redis/go-redis/v9"
)

const userChannelPattern = "notifications:user:*"

// RSVPNotification is sent to an event's creator whenever someone RSVPs.
type RSVPNotification struct {
	Type       string            `json:"type"`
	EventID    uint              `json:"event_id"`
	UserID     uint              `json:"user_id"`
	RSVPStatus models.RSVPStatus `json:"rsvp_status"`
}

// Notifier provides helpers to publish notifications into Redis channels
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
// A nil client turns every publish into a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishUser sends a notification payload to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, payload string) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}

// PublishRSVP tells creatorID that userID responded to eventID.
func (n *Notifier) PublishRSVP(ctx context.Context, creatorID, eventID, userID uint, status models.RSVPStatus) error {
	payload, err := json.Marshal(RSVPNotification{
		Type:       "rsvp",
		EventID:    eventID,
		UserID:     userID,
		RSVPStatus: status,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return n.PublishUser(ctx, creatorID, string(payload))
}

// StartUserSubscriber subscribes to every user channel and calls onMessage for each
// incoming message until ctx is cancelled.
func (n *Notifier) StartUserSubscriber(ctx context.Context, onMessage func(channel string, payload string)) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, userChannelPattern)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", userChannelPattern, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in user subscriber",
								slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return "notifications:user:" + strconv.FormatUint(uint64(userID), 10)
}
