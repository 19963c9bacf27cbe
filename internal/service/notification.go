package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lanpahub/lanpa-api/internal/domain"
	"github.com/lanpahub/lanpa-api/internal/repository"
)

var ErrNotificationNotFound = repository.ErrNotificationNotFound

// Fanout announces state changes to users. Delivery is best effort: failures
// are logged by the implementation and never surfaced to the caller, so a
// failed fanout can never roll back the state change that triggered it.
type Fanout interface {
	Notify(ctx context.Context, userID uint, payload domain.NotificationPayload)
	NotifyMany(ctx context.Context, userIDs []uint, payload domain.NotificationPayload)
}

type NotificationRepository interface {
	Create(ctx context.Context, userID uint, payload domain.NotificationPayload) error
	CreateMany(ctx context.Context, userIDs []uint, payload domain.NotificationPayload) error
	ListByUserID(ctx context.Context, userID uint) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID uint) error
}

// NotificationService stores notifications durably so clients can poll them.
// It doubles as the Fanout implementation.
type NotificationService struct {
	repo NotificationRepository
}

func NewNotificationService(repo NotificationRepository) *NotificationService {
	return &NotificationService{
		repo: repo,
	}
}

func (s *NotificationService) Notify(ctx context.Context, userID uint, payload domain.NotificationPayload) {
	if err := s.repo.Create(ctx, userID, payload); err != nil {
		zap.L().Error("notification delivery failed",
			zap.Uint("user_id", userID),
			zap.String("type", string(payload.Type)),
			zap.Error(err))
	}
}

func (s *NotificationService) NotifyMany(ctx context.Context, userIDs []uint, payload domain.NotificationPayload) {
	if len(userIDs) == 0 {
		return
	}

	if err := s.repo.CreateMany(ctx, userIDs, payload); err != nil {
		zap.L().Error("notification fanout failed",
			zap.Int("recipients", len(userIDs)),
			zap.String("type", string(payload.Type)),
			zap.Error(err))
	}
}

func (s *NotificationService) GetNotifications(ctx context.Context, userID uint) ([]domain.Notification, error) {
	notifications, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByUserID -> %w", err)
	}

	return notifications, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID uint) error {
	return s.repo.MarkRead(ctx, id, userID)
}
