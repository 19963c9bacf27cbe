package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Notification struct {
	ID     uint   `gorm:"primaryKey"`
	UserID uint   `gorm:"not null;index"`
	Type   string `gorm:"not null"`
	Title  string `gorm:"not null"`
	Body   string
	Data   datatypes.JSON
	Read   bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
}

type NotificationDAO struct {
	db *gorm.DB
}

func NewNotificationDAO(db *gorm.DB) *NotificationDAO {
	return &NotificationDAO{
		db: db,
	}
}

func (d *NotificationDAO) Insert(ctx context.Context, notification Notification) (Notification, error) {
	result := d.db.WithContext(ctx).Create(&notification)
	if result.Error != nil {
		return Notification{}, result.Error
	}

	return notification, nil
}

// InsertMany writes one row per recipient in a single batch.
func (d *NotificationDAO) InsertMany(ctx context.Context, notifications []Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	return d.db.WithContext(ctx).Create(&notifications).Error
}

func (d *NotificationDAO) ListByUserID(ctx context.Context, userID uint) ([]Notification, error) {
	var notifications []Notification

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications)
	if result.Error != nil {
		return nil, result.Error
	}

	return notifications, nil
}

func (d *NotificationDAO) MarkRead(ctx context.Context, id, userID uint) error {
	result := d.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}
