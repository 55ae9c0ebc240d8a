package notification

import (
	"context"
	"fmt"

	notificationRepo "ceygo/database/repository/notification"
	"ceygo/models"

	"go.uber.org/zap"
)

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	repo   notificationRepo.NotificationRepository
	pusher Pusher
	logger *zap.Logger
}

func NewDefaultNotificationService(repo notificationRepo.NotificationRepository, pusher Pusher, logger *zap.Logger) *DefaultNotificationService {
	if pusher == nil {
		pusher = NoopPusher{}
	}
	return &DefaultNotificationService{repo: repo, pusher: pusher, logger: logger}
}

func (s *DefaultNotificationService) Record(ctx context.Context, n *models.Notification) error {
	if _, err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to record notification for user %s: %w", n.UserID, err)
	}
	return nil
}

func (s *DefaultNotificationService) Deliver(ctx context.Context, token string, n models.Notification) {
	if token == "" {
		s.logger.Debug("No FCM token, skipping push", zap.String("userID", n.UserID))
		return
	}

	data := map[string]string{
		"type":           n.Type,
		"notificationId": n.ID,
	}
	for k, v := range n.Data {
		data[k] = v
	}

	if err := s.pusher.Push(ctx, token, n.Title, n.Body, data); err != nil {
		s.logger.Warn("Push delivery failed",
			zap.String("userID", n.UserID),
			zap.String("notificationID", n.ID),
			zap.Error(err))
		return
	}
	s.logger.Info("Push delivered", zap.String("userID", n.UserID), zap.String("type", n.Type))
}
