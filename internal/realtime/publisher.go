package realtime

import (
	"context"
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/baharkarakas/campus-closet/internal/models"
)

// ChannelPrefix is followed by the recipient's user id.
const ChannelPrefix = "campus-closet:notifications:"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Event is the payload a socket relay receives on a user's channel.
type Event struct {
	Event        string              `json:"event"`
	Notification models.Notification `json:"notification"`
}

// Client is the subset of redis.UniversalClient used here.
type Client interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

type RedisPublisher struct {
	c Client
}

func NewRedisPublisher(c Client) *RedisPublisher { return &RedisPublisher{c: c} }

func Channel(userID int64) string {
	return ChannelPrefix + strconv.FormatInt(userID, 10)
}

func (p *RedisPublisher) Publish(ctx context.Context, n models.Notification) error {
	b, err := json.Marshal(Event{Event: "notification", Notification: n})
	if err != nil {
		return err
	}
	if err := p.c.Publish(ctx, Channel(n.UserID), b).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", Channel(n.UserID), err)
	}
	return nil
}

// Nop drops every notification. Used when no Redis address is configured.
type Nop struct{}

func (Nop) Publish(context.Context, models.Notification) error { return nil }
