package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/inkwell/internal/model"
)

type NotificationRepository interface {
	WithTx(tx *gorm.DB) NotificationRepository
	Create(ctx context.Context, n *model.Notification) error
	Get(ctx context.Context, recipientID, id string) (*model.Notification, error)
	List(ctx context.Context, recipientID string, offset, limit int) ([]*model.Notification, int64, error)
	MarkRead(ctx context.Context, recipientID, id string) error
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
	UnreadCount(ctx context.Context, recipientID string) (int64, error)
	PurgeRead(ctx context.Context, before time.Time) (int64, error)
	DeleteByUser(ctx context.Context, userID string) error
}

type notificationRepository struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) WithTx(tx *gorm.DB) NotificationRepository {
	return &notificationRepository{db: tx}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// Get only finds notifications of the recipient; others read as missing.
func (r *notificationRepository) Get(ctx context.Context, recipientID, id string) (*model.Notification, error) {
	var n model.Notification
	err := r.db.WithContext(ctx).Where("id = ? AND recipient_id = ?", id, recipientID).First(&n).Error
	if err != nil {
		return nil, notFound(err, "notification", id)
	}
	return &n, nil
}

func (r *notificationRepository) List(ctx context.Context, recipientID string, offset, limit int) ([]*model.Notification, int64, error) {
	offset, limit = window(offset, limit)
	db := r.db.WithContext(ctx)
	var total int64
	if err := db.Model(&model.Notification{}).Where("recipient_id = ?", recipientID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	res := []*model.Notification{}
	if int64(offset) >= total {
		return res, total, nil
	}
	err := db.Where("recipient_id = ?", recipientID).
		Order("created_at DESC").Order("id").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, total, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, recipientID, id string) error {
	res := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "notification", id)
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Count(&cnt).Error
	return cnt, err
}

// PurgeRead 清理早于 before 的已读通知
func (r *notificationRepository) PurgeRead(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("read = ? AND created_at < ?", true, before).
		Delete(&model.Notification{})
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("recipient_id = ? OR actor_id = ?", userID, userID).
		Delete(&model.Notification{}).Error
}
