package db

import (
	"github.com/google/uuid"
	"github.com/jisetihq/jiseti/models"
	"gorm.io/gorm"
)

// StatusHistoryRepository is read-only on purpose: ledger rows are appended
// inside record store transactions and never touched afterwards.
type StatusHistoryRepository interface {
	GetHistoryByRecordID(recordID uuid.UUID) ([]models.StatusHistory, error)
}

type historyRepo struct {
	DB *gorm.DB
}

func NewStatusHistoryRepo(db *GormDB) StatusHistoryRepository {
	return &historyRepo{db.DB}
}

func (h *historyRepo) GetHistoryByRecordID(recordID uuid.UUID) ([]models.StatusHistory, error) {
	var entries []models.StatusHistory
	err := h.DB.Preload("Admin").
		Where("record_id = ?", recordID).
		Order("changed_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
