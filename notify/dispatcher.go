// Package notify pushes approval/rejection messages to borrowers. Delivery is
// Redis pub/sub fanned out to websocket subscribers; fire and forget, no
// queueing for offline subscribers.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"tooltrack/models"

	"github.com/redis/go-redis/v9"
)

const greetingsChannel = "notify:greetings"

func userChannel(email string) string {
	return "notify:user:" + strings.ToLower(email)
}

type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher { return &Dispatcher{rdb: rdb} }

// Send publishes the payload on the recipient's channel. Publishing to a
// channel nobody subscribes to is not an error.
func (d *Dispatcher) Send(ctx context.Context, email string, n models.Notification) error {
	if email == "" {
		return fmt.Errorf("notify: missing recipient email")
	}
	n.UserEmail = email
	b, err := json.Marshal(n)
	if err != nil {
		return err
	}
	if err := d.rdb.Publish(ctx, userChannel(email), b).Err(); err != nil {
		return fmt.Errorf("notify %s: %w", email, err)
	}
	log.Printf("notify: sent to %s", email)
	return nil
}

// Broadcast pushes a plain text message on the shared greetings channel.
// Connectivity testing only.
func (d *Dispatcher) Broadcast(ctx context.Context, message string) error {
	return d.rdb.Publish(ctx, greetingsChannel, message).Err()
}
