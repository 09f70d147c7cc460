package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/baharkarakas/campus-closet/internal/metrics"
	"github.com/baharkarakas/campus-closet/internal/models"
	"github.com/baharkarakas/campus-closet/internal/worker"
)

// Publisher pushes committed notifications to whatever relays them to
// connected clients.
type Publisher interface {
	Publish(ctx context.Context, n models.Notification) error
}

const publishTimeout = 3 * time.Second

// dispatcher fans committed notifications out to the Publisher. Publishing is
// best effort: the rows are already stored and the feed endpoint serves them.
type dispatcher struct {
	pub Publisher
	wp  *worker.Pool
}

func newDispatcher(pub Publisher, wp *worker.Pool) *dispatcher {
	return &dispatcher{pub: pub, wp: wp}
}

func (d *dispatcher) send(ns ...models.Notification) {
	if d == nil || d.pub == nil {
		return
	}
	for _, n := range ns {
		n := n
		task := func() { d.publish(n) }
		if d.wp == nil || !d.wp.Submit(task) {
			task()
		}
	}
}

func (d *dispatcher) publish(n models.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := d.pub.Publish(ctx, n); err != nil {
		metrics.NotificationsPublished.WithLabelValues("error").Inc()
		slog.Warn("notification publish", "notification_id", n.ID, "user_id", n.UserID, "err", err)
		return
	}
	metrics.NotificationsPublished.WithLabelValues("ok").Inc()
}
