package services

import (
	"context"

	"github.com/baharkarakas/campus-closet/internal/models"
	repo "github.com/baharkarakas/campus-closet/internal/repository"
)

const (
	DefaultFeedLimit = 50
	MaxFeedLimit     = 200
)

type NotificationService struct {
	r repo.Notifications
}

func NewNotificationService(r repo.Notifications) *NotificationService {
	return &NotificationService{r: r}
}

// Feed lists a user's notifications newest first. Out-of-range paging values
// are clamped rather than rejected.
func (s *NotificationService) Feed(ctx context.Context, userID int64, limit, offset int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.r.ListByUser(ctx, userID, limit, offset)
}
