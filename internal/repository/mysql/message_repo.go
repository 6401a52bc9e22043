package mysql

import (
	"oqunet/internal/model"

	"gorm.io/gorm"
)

type MessageRepository struct {
	DB *gorm.DB
}

func (r *MessageRepository) Create(m *model.Message) error {
	return r.DB.Create(m).Error
}

func (r *MessageRepository) FindByID(id uint64) (*model.Message, error) {
	var msg model.Message
	err := r.DB.First(&msg, id).Error
	return &msg, err
}

func (r *MessageRepository) ListByRecipient(userID uint64) ([]model.Message, error) {
	var msgs []model.Message
	err := r.DB.Preload("FromUser").Preload("Book").
		Where("to_user_id = ?", userID).
		Order("created_at DESC").Find(&msgs).Error
	return msgs, err
}

func (r *MessageRepository) MarkRead(id uint64) error {
	return r.DB.Model(&model.Message{}).Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *MessageRepository) CountUnread(userID uint64) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Message{}).
		Where("to_user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
