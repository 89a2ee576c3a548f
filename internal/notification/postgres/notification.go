package postgres

import (
	"context"

	notificationDatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/notification"
	"github.com/frahmantamala/travel-booking/internal/notification"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) notification.RepositoryAPI {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	m := notification.ToDataModel(n)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	n.ID = m.ID
	n.CreatedAt = m.CreatedAt
	return nil
}

func (r *NotificationRepository) List(ctx context.Context, companyID int64, unreadOnly bool, limit int) ([]*notification.Notification, error) {
	q := r.db.WithContext(ctx).Where("company_id = ?", companyID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var models []notificationDatamodel.Notification
	if err := q.Order("created_at DESC, id DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*notification.Notification, 0, len(models))
	for i := range models {
		out = append(out, notification.FromDataModel(&models[i]))
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, companyID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&notificationDatamodel.Notification{}).
		Where("company_id = ? AND is_read = ?", companyID, false).
		Count(&n).Error
	return n, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, companyID, id int64) error {
	res := r.db.WithContext(ctx).Model(&notificationDatamodel.Notification{}).
		Where("company_id = ? AND id = ?", companyID, id).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, companyID int64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&notificationDatamodel.Notification{}).
		Where("company_id = ? AND is_read = ?", companyID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
