package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jisetihq/jiseti/models"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sentinel errors surfaced by guarded transactions. The service layer maps
// them onto client-facing statuses.
var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrRecordNotEditable       = errors.New("record is no longer editable")
)

type RecordRepository interface {
	SaveRecord(record *models.Record, media *models.Media, history *models.StatusHistory) error
	FindRecordByID(id uuid.UUID) (*models.Record, error)
	UpdateRecord(record *models.Record, media *models.Media, clearMedia bool) error
	DeleteRecord(id uuid.UUID) error
	TransitionStatus(recordID uuid.UUID, next models.RecordStatus, adminID uint, reason string, notes string) (*models.Record, models.RecordStatus, error)
	ListPublicRecords(filters models.RecordFilters, p models.Pagination) ([]models.Record, int64, error)
	ListRecordsByUser(userID uint, filters models.RecordFilters, p models.Pagination) ([]models.Record, int64, error)
	ListAllRecords(filters models.RecordFilters, p models.Pagination) ([]models.Record, int64, error)
	GetRecordStats() (*models.RecordStats, error)
}

type recordRepo struct {
	DB *gorm.DB
}

func NewRecordRepo(db *GormDB) RecordRepository {
	return &recordRepo{db.DB}
}

// SaveRecord creates the record together with its optional media attachment
// and optional first ledger entry in a single transaction, so a created
// record is never observable without them.
func (r *recordRepo) SaveRecord(record *models.Record, media *models.Media, history *models.StatusHistory) error {
	tx := r.DB.Begin()
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "failed to begin transaction")
	}

	if err := tx.Create(record).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "failed to create record")
	}

	if media != nil {
		media.RecordID = record.ID
		if err := tx.Create(media).Error; err != nil {
			tx.Rollback()
			return errors.Wrap(err, "failed to create record media")
		}
	}

	if history != nil {
		history.RecordID = record.ID
		if err := tx.Create(history).Error; err != nil {
			tx.Rollback()
			return errors.Wrap(err, "failed to create status history")
		}
	}

	return tx.Commit().Error
}

func (r *recordRepo) FindRecordByID(id uuid.UUID) (*models.Record, error) {
	var record models.Record
	err := r.DB.Preload("User").Preload("Media").Where("id = ?", id).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateRecord persists an edit. The draft check is repeated under a row lock
// so an edit racing a status transition cannot land on a record that already
// left draft.
func (r *recordRepo) UpdateRecord(record *models.Record, media *models.Media, clearMedia bool) error {
	tx := r.DB.Begin()
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "failed to begin transaction")
	}

	var current models.Record
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", record.ID).First(&current).Error; err != nil {
		tx.Rollback()
		return err
	}
	if current.Status != models.StatusDraft {
		tx.Rollback()
		return ErrRecordNotEditable
	}

	// The caller's copy may be stale on fields owned by other flows.
	record.Status = current.Status
	record.VoteCount = current.VoteCount
	record.CreatedAt = current.CreatedAt

	if err := tx.Omit("User", "Media").Save(record).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "failed to update record")
	}

	if clearMedia || media != nil {
		if err := tx.Where("record_id = ?", record.ID).Delete(&models.Media{}).Error; err != nil {
			tx.Rollback()
			return errors.Wrap(err, "failed to clear record media")
		}
	}
	if media != nil {
		media.RecordID = record.ID
		if err := tx.Create(media).Error; err != nil {
			tx.Rollback()
			return errors.Wrap(err, "failed to replace record media")
		}
	}

	return tx.Commit().Error
}

// DeleteRecord removes the record and everything hanging off it: votes, media
// and ledger entries go in the same transaction, and the draft requirement is
// re-checked under the lock.
func (r *recordRepo) DeleteRecord(id uuid.UUID) error {
	tx := r.DB.Begin()
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "failed to begin transaction")
	}

	var current models.Record
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&current).Error; err != nil {
		tx.Rollback()
		return err
	}
	if current.Status != models.StatusDraft {
		tx.Rollback()
		return ErrRecordNotEditable
	}

	if err := tx.Where("record_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "failed to delete record votes")
	}
	if err := tx.Where("record_id = ?", id).Delete(&models.Media{}).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "failed to delete record media")
	}
	if err := tx.Where("record_id = ?", id).Delete(&models.StatusHistory{}).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "failed to delete record history")
	}
	if err := tx.Delete(&models.Record{}, "id = ?", id).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "failed to delete record")
	}

	return tx.Commit().Error
}

// TransitionStatus moves a record through the state machine. The allowed-move
// check runs inside the transaction while the row is locked, so of two racing
// transitions the first one wins and the second observes the new state and
// fails. The assigned admin sticks to whoever transitioned first. Returns the
// updated record and the status it moved from.
func (r *recordRepo) TransitionStatus(recordID uuid.UUID, next models.RecordStatus, adminID uint, reason string, notes string) (*models.Record, models.RecordStatus, error) {
	tx := r.DB.Begin()
	if tx.Error != nil {
		return nil, "", errors.Wrap(tx.Error, "failed to begin transaction")
	}

	var record models.Record
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", recordID).First(&record).Error; err != nil {
		tx.Rollback()
		return nil, "", err
	}

	oldStatus := record.Status
	if !oldStatus.CanTransitionTo(next) {
		tx.Rollback()
		return nil, oldStatus, ErrInvalidStatusTransition
	}

	record.Status = next
	if notes != "" {
		record.ResolutionNotes = notes
	}
	if record.AssignedAdminID == nil {
		record.AssignedAdminID = &adminID
	}
	if err := tx.Omit("User", "Media").Save(&record).Error; err != nil {
		tx.Rollback()
		return nil, oldStatus, errors.Wrap(err, "failed to update record status")
	}

	history := models.StatusHistory{
		ID:           uuid.New(),
		RecordID:     record.ID,
		OldStatus:    &oldStatus,
		NewStatus:    next,
		ChangedBy:    &adminID,
		ChangeReason: reason,
		ChangedAt:    time.Now(),
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		return nil, oldStatus, errors.Wrap(err, "failed to append status history")
	}

	if err := tx.Commit().Error; err != nil {
		return nil, oldStatus, err
	}
	return &record, oldStatus, nil
}

func applyRecordFilters(query *gorm.DB, filters models.RecordFilters) *gorm.DB {
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Type != "" {
		query = query.Where("type = ?", filters.Type)
	}
	if filters.Urgency != "" {
		query = query.Where("urgency_level = ?", filters.Urgency)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ? OR location_name ILIKE ?", pattern, pattern, pattern)
	}
	return query
}

// ListPublicRecords returns non-draft records, most supported first.
func (r *recordRepo) ListPublicRecords(filters models.RecordFilters, p models.Pagination) ([]models.Record, int64, error) {
	var records []models.Record
	var total int64

	query := r.DB.Model(&models.Record{}).Where("status <> ?", models.StatusDraft)
	query = applyRecordFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		log.Printf("error counting public records: %v", err)
		return nil, 0, err
	}

	err := query.Preload("User").Preload("Media").
		Order("vote_count DESC, created_at DESC").
		Limit(p.PerPage).Offset(p.Offset()).
		Find(&records).Error
	if err != nil {
		log.Printf("error fetching public records: %v", err)
		return nil, 0, err
	}
	return records, total, nil
}

func (r *recordRepo) ListRecordsByUser(userID uint, filters models.RecordFilters, p models.Pagination) ([]models.Record, int64, error) {
	var records []models.Record
	var total int64

	query := r.DB.Model(&models.Record{}).Where("user_id = ?", userID)
	query = applyRecordFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("User").Preload("Media").
		Order("created_at DESC").
		Limit(p.PerPage).Offset(p.Offset()).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *recordRepo) ListAllRecords(filters models.RecordFilters, p models.Pagination) ([]models.Record, int64, error) {
	var records []models.Record
	var total int64

	query := applyRecordFilters(r.DB.Model(&models.Record{}), filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("User").Preload("Media").
		Order("created_at DESC").
		Limit(p.PerPage).Offset(p.Offset()).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *recordRepo) GetRecordStats() (*models.RecordStats, error) {
	stats := &models.RecordStats{
		StatusCounts: make(map[string]int64),
		TypeCounts:   make(map[string]int64),
	}

	if err := r.DB.Model(&models.Record{}).Count(&stats.TotalRecords).Error; err != nil {
		return nil, errors.Wrap(err, "failed to count records")
	}

	var statusRows []struct {
		Status string
		Count  int64
	}
	if err := r.DB.Model(&models.Record{}).Select("status, count(*) as count").Group("status").Scan(&statusRows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to count records by status")
	}
	for _, row := range statusRows {
		stats.StatusCounts[row.Status] = row.Count
	}

	var typeRows []struct {
		Type  string
		Count int64
	}
	if err := r.DB.Model(&models.Record{}).Select("type, count(*) as count").Group("type").Scan(&typeRows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to count records by type")
	}
	for _, row := range typeRows {
		stats.TypeCounts[row.Type] = row.Count
	}

	if err := r.DB.Model(&models.Vote{}).Count(&stats.TotalVotes).Error; err != nil {
		return nil, errors.Wrap(err, "failed to count votes")
	}
	if err := r.DB.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, errors.Wrap(err, "failed to count users")
	}

	return stats, nil
}
