package db

import (
	"github.com/jisetihq/jiseti/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	UpdateDeliveryStatus(id uint, status string) error
	GetNotificationsByUserID(userID uint) ([]models.Notification, error)
}

type notificationRepo struct {
	DB *gorm.DB
}

func NewNotificationRepo(db *GormDB) NotificationRepository {
	return &notificationRepo{db.DB}
}

func (n *notificationRepo) CreateNotification(notification *models.Notification) error {
	if err := n.DB.Create(notification).Error; err != nil {
		return errors.Wrap(err, "failed to create notification")
	}
	return nil
}

func (n *notificationRepo) UpdateDeliveryStatus(id uint, status string) error {
	err := n.DB.Model(&models.Notification{}).Where("id = ?", id).Update("delivery_status", status).Error
	if err != nil {
		return errors.Wrap(err, "failed to update delivery status")
	}
	return nil
}

func (n *notificationRepo) GetNotificationsByUserID(userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := n.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}
