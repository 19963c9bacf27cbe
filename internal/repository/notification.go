package repository

import (
	"context"
	"encoding/json"

	"github.com/lanpahub/lanpa-api/internal/domain"
	"github.com/lanpahub/lanpa-api/internal/repository/dao"
)

var ErrNotificationNotFound = dao.ErrNotificationNotFound

type NotificationDAO interface {
	Insert(ctx context.Context, notification dao.Notification) (dao.Notification, error)
	InsertMany(ctx context.Context, notifications []dao.Notification) error
	ListByUserID(ctx context.Context, userID uint) ([]dao.Notification, error)
	MarkRead(ctx context.Context, id, userID uint) error
}

type NotificationRepository struct {
	dao NotificationDAO
}

func NewNotificationRepository(dao NotificationDAO) *NotificationRepository {
	return &NotificationRepository{
		dao: dao,
	}
}

func (r *NotificationRepository) payloadToDao(userID uint, payload domain.NotificationPayload) (dao.Notification, error) {
	notification := dao.Notification{
		UserID: userID,
		Type:   string(payload.Type),
		Title:  payload.Title,
		Body:   payload.Body,
	}

	if payload.Data != nil {
		data, err := json.Marshal(payload.Data)
		if err != nil {
			return dao.Notification{}, err
		}
		notification.Data = data
	}

	return notification, nil
}

func (r *NotificationRepository) notificationDaoToDomain(n dao.Notification) domain.Notification {
	notification := domain.Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      domain.NotificationType(n.Type),
		Title:     n.Title,
		Body:      n.Body,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}

	if len(n.Data) > 0 {
		// Undecodable payloads are left nil rather than failing the read.
		_ = json.Unmarshal(n.Data, &notification.Data)
	}

	return notification
}

func (r *NotificationRepository) Create(ctx context.Context, userID uint, payload domain.NotificationPayload) error {
	notification, err := r.payloadToDao(userID, payload)
	if err != nil {
		return err
	}

	_, err = r.dao.Insert(ctx, notification)

	return err
}

func (r *NotificationRepository) CreateMany(ctx context.Context, userIDs []uint, payload domain.NotificationPayload) error {
	notifications := make([]dao.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		notification, err := r.payloadToDao(id, payload)
		if err != nil {
			return err
		}
		notifications = append(notifications, notification)
	}

	return r.dao.InsertMany(ctx, notifications)
}

func (r *NotificationRepository) ListByUserID(ctx context.Context, userID uint) ([]domain.Notification, error) {
	notifications, err := r.dao.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Notification, len(notifications))
	for i, n := range notifications {
		result[i] = r.notificationDaoToDomain(n)
	}

	return result, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID uint) error {
	return r.dao.MarkRead(ctx, id, userID)
}
