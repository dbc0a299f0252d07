package services

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jisetihq/jiseti/config"
	"github.com/jisetihq/jiseti/db"
	apiError "github.com/jisetihq/jiseti/errors"
	"github.com/jisetihq/jiseti/models"
	"github.com/jisetihq/jiseti/services/utils"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RecordService owns the record lifecycle: creation on both the owned and the
// anonymous path, draft editing, the admin state machine, the ledger reads and
// the three audience-scoped list views.
type RecordService interface {
	CreateRecord(actor models.Actor, req *models.CreateRecordRequest) (*models.Record, *apiError.Error)
	CreateAnonymousRecord(req *models.CreateRecordRequest) (*models.Record, string, *apiError.Error)
	GetRecord(actor models.Actor, recordID uuid.UUID) (*models.Record, *apiError.Error)
	UpdateRecord(actor models.Actor, recordID uuid.UUID, patch *models.UpdateRecordRequest) (*models.Record, *apiError.Error)
	DeleteRecord(actor models.Actor, recordID uuid.UUID) *apiError.Error
	TransitionStatus(actor models.Actor, recordID uuid.UUID, req *models.TransitionStatusRequest) (*models.Record, *apiError.Error)
	GetRecordHistory(actor models.Actor, recordID uuid.UUID) ([]models.StatusHistoryResponse, *apiError.Error)
	GetPublicRecords(filters models.RecordFilters, p models.Pagination) ([]models.PublicRecordResponse, models.PageInfo, *apiError.Error)
	GetPublicRecordDetails(recordID uuid.UUID) (*models.PublicRecordResponse, []models.StatusHistoryResponse, *apiError.Error)
	GetMyRecords(actor models.Actor, filters models.RecordFilters, p models.Pagination) ([]models.RecordResponse, models.PageInfo, *apiError.Error)
	GetAllRecords(actor models.Actor, filters models.RecordFilters, p models.Pagination) ([]models.RecordResponse, models.PageInfo, *apiError.Error)
	GetRecordStats(actor models.Actor) (*models.RecordStats, *apiError.Error)
}

type recordService struct {
	Config      *config.Config
	recordRepo  db.RecordRepository
	historyRepo db.StatusHistoryRepository
	notifier    NotificationService
}

func NewRecordService(recordRepo db.RecordRepository, historyRepo db.StatusHistoryRepository, notifier NotificationService, conf *config.Config) RecordService {
	return &recordService{
		Config:      conf,
		recordRepo:  recordRepo,
		historyRepo: historyRepo,
		notifier:    notifier,
	}
}

// buildRecord validates a create request and assembles the record plus its
// optional media attachment. The type policy is uniform: an unknown type is
// rejected on both the owned and the anonymous path.
func buildRecord(req *models.CreateRecordRequest, anonymous bool) (*models.Record, *models.Media, *apiError.Error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, nil, apiError.New("title is required", http.StatusBadRequest)
	}
	description := strings.TrimSpace(req.Description)
	if anonymous && description == "" {
		return nil, nil, apiError.New("description is required", http.StatusBadRequest)
	}

	recordType := models.RecordType(strings.TrimSpace(req.Type))
	if !recordType.Valid() {
		return nil, nil, apiError.New(fmt.Sprintf("invalid record type %q", req.Type), http.StatusBadRequest)
	}

	urgency := models.UrgencyMedium
	if req.UrgencyLevel != "" {
		urgency = models.UrgencyLevel(req.UrgencyLevel)
		if !urgency.Valid() {
			return nil, nil, apiError.New(fmt.Sprintf("invalid urgency level %q", req.UrgencyLevel), http.StatusBadRequest)
		}
	}

	if err := utils.ValidateCoordinates(req.Latitude, req.Longitude); err != nil {
		return nil, nil, apiError.New(err.Error(), http.StatusBadRequest)
	}

	media, apiErr := mediaFromURLs(req.ImageURL, req.VideoURL)
	if apiErr != nil {
		return nil, nil, apiErr
	}

	record := &models.Record{
		ID:           uuid.New(),
		Type:         recordType,
		Title:        title,
		Description:  description,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		LocationName: strings.TrimSpace(req.LocationName),
		UrgencyLevel: urgency,
	}
	return record, media, nil
}

// mediaFromURLs turns at most one of the URL fields into a media attachment.
// Records carry a single active attachment, so both at once is rejected.
func mediaFromURLs(imageURL, videoURL string) (*models.Media, *apiError.Error) {
	imageURL = strings.TrimSpace(imageURL)
	videoURL = strings.TrimSpace(videoURL)

	if imageURL == "" && videoURL == "" {
		return nil, nil
	}
	if imageURL != "" && videoURL != "" {
		return nil, apiError.New("provide either image_url or video_url, not both", http.StatusBadRequest)
	}

	mediaType := models.MediaTypeImage
	mediaURL := imageURL
	if videoURL != "" {
		mediaType = models.MediaTypeVideo
		mediaURL = videoURL
	}
	if err := utils.ValidateMediaURL(mediaURL, mediaType); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}

	return &models.Media{
		ID:        uuid.NewString(),
		MediaType: mediaType,
		MediaURL:  mediaURL,
	}, nil
}

func generateTrackingToken(recordID uuid.UUID) string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("ANON-%s", recordID)
	}
	return fmt.Sprintf("ANON-%s-%X", recordID, b)
}

func (s *recordService) CreateRecord(actor models.Actor, req *models.CreateRecordRequest) (*models.Record, *apiError.Error) {
	if !actor.CanCreateRecord() {
		return nil, apiError.New("authentication required", http.StatusUnauthorized)
	}

	record, media, apiErr := buildRecord(req, false)
	if apiErr != nil {
		return nil, apiErr
	}
	userID := actor.ID
	record.UserID = &userID
	record.Status = models.StatusDraft

	if err := s.recordRepo.SaveRecord(record, media, nil); err != nil {
		log.Printf("error creating record: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	if media != nil {
		record.Media = []models.Media{*media}
	}
	return record, nil
}

// CreateAnonymousRecord skips draft entirely: the record enters the system
// already under investigation, with no owner and with the first ledger entry
// written in the same transaction. The returned tracking token is the
// submitter's only handle on the record.
func (s *recordService) CreateAnonymousRecord(req *models.CreateRecordRequest) (*models.Record, string, *apiError.Error) {
	record, media, apiErr := buildRecord(req, true)
	if apiErr != nil {
		return nil, "", apiErr
	}
	record.Status = models.StatusUnderInvestigation
	record.IsAnonymous = true

	history := &models.StatusHistory{
		ID:           uuid.New(),
		NewStatus:    models.StatusUnderInvestigation,
		ChangeReason: "anonymous report created",
		ChangedAt:    time.Now(),
	}

	if err := s.recordRepo.SaveRecord(record, media, history); err != nil {
		log.Printf("error creating anonymous record: %v", err)
		return nil, "", apiError.ErrInternalServerError
	}
	if media != nil {
		record.Media = []models.Media{*media}
	}
	return record, generateTrackingToken(record.ID), nil
}

func (s *recordService) GetRecord(actor models.Actor, recordID uuid.UUID) (*models.Record, *apiError.Error) {
	record, apiErr := s.findRecord(recordID)
	if apiErr != nil {
		return nil, apiErr
	}
	if !actor.CanViewFullRecord(record) {
		return nil, apiError.New("you do not have permission to view this record", http.StatusForbidden)
	}
	return record, nil
}

func (s *recordService) UpdateRecord(actor models.Actor, recordID uuid.UUID, patch *models.UpdateRecordRequest) (*models.Record, *apiError.Error) {
	record, apiErr := s.findRecord(recordID)
	if apiErr != nil {
		return nil, apiErr
	}
	if !actor.CanModifyRecord(record) {
		return nil, apiError.New("you do not have permission to modify this record", http.StatusForbidden)
	}
	if record.Status != models.StatusDraft {
		return nil, apiError.New("only draft records can be edited", http.StatusConflict)
	}

	if patch.Type != nil {
		recordType := models.RecordType(strings.TrimSpace(*patch.Type))
		if !recordType.Valid() {
			return nil, apiError.New(fmt.Sprintf("invalid record type %q", *patch.Type), http.StatusBadRequest)
		}
		record.Type = recordType
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apiError.New("title cannot be empty", http.StatusBadRequest)
		}
		record.Title = title
	}
	if patch.Description != nil {
		record.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.LocationName != nil {
		record.LocationName = strings.TrimSpace(*patch.LocationName)
	}
	if patch.UrgencyLevel != nil {
		urgency := models.UrgencyLevel(*patch.UrgencyLevel)
		if !urgency.Valid() {
			return nil, apiError.New(fmt.Sprintf("invalid urgency level %q", *patch.UrgencyLevel), http.StatusBadRequest)
		}
		record.UrgencyLevel = urgency
	}
	if patch.Latitude != nil || patch.Longitude != nil {
		lat, lng := record.Latitude, record.Longitude
		if patch.Latitude != nil {
			lat = patch.Latitude
		}
		if patch.Longitude != nil {
			lng = patch.Longitude
		}
		if err := utils.ValidateCoordinates(lat, lng); err != nil {
			return nil, apiError.New(err.Error(), http.StatusBadRequest)
		}
		record.Latitude, record.Longitude = lat, lng
	}

	var media *models.Media
	clearMedia := false
	if patch.ImageURL != nil || patch.VideoURL != nil {
		imageURL, videoURL := "", ""
		if patch.ImageURL != nil {
			imageURL = *patch.ImageURL
		}
		if patch.VideoURL != nil {
			videoURL = *patch.VideoURL
		}
		if strings.TrimSpace(imageURL) == "" && strings.TrimSpace(videoURL) == "" {
			clearMedia = true
		} else {
			media, apiErr = mediaFromURLs(imageURL, videoURL)
			if apiErr != nil {
				return nil, apiErr
			}
		}
	}

	if err := s.recordRepo.UpdateRecord(record, media, clearMedia); err != nil {
		switch {
		case errors.Is(err, db.ErrRecordNotEditable):
			return nil, apiError.New("only draft records can be edited", http.StatusConflict)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, apiError.New("record not found", http.StatusNotFound)
		default:
			log.Printf("error updating record %s: %v", recordID, err)
			return nil, apiError.ErrInternalServerError
		}
	}

	return s.findRecord(recordID)
}

func (s *recordService) DeleteRecord(actor models.Actor, recordID uuid.UUID) *apiError.Error {
	record, apiErr := s.findRecord(recordID)
	if apiErr != nil {
		return apiErr
	}
	if !actor.CanModifyRecord(record) {
		return apiError.New("you do not have permission to delete this record", http.StatusForbidden)
	}
	if record.Status != models.StatusDraft {
		return apiError.New("only draft records can be deleted", http.StatusConflict)
	}

	if err := s.recordRepo.DeleteRecord(recordID); err != nil {
		switch {
		case errors.Is(err, db.ErrRecordNotEditable):
			return apiError.New("only draft records can be deleted", http.StatusConflict)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return apiError.New("record not found", http.StatusNotFound)
		default:
			log.Printf("error deleting record %s: %v", recordID, err)
			return apiError.ErrInternalServerError
		}
	}
	return nil
}

func (s *recordService) TransitionStatus(actor models.Actor, recordID uuid.UUID, req *models.TransitionStatusRequest) (*models.Record, *apiError.Error) {
	if !actor.CanTransitionStatus() {
		return nil, apiError.New("only administrators can change record status", http.StatusForbidden)
	}

	next := models.RecordStatus(req.Status)
	if !next.Valid() || next == models.StatusDraft {
		return nil, apiError.New("status must be one of: under-investigation, resolved, rejected", http.StatusBadRequest)
	}

	updated, oldStatus, err := s.recordRepo.TransitionStatus(recordID, next, actor.ID, req.Reason, req.ResolutionNotes)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, apiError.New("record not found", http.StatusNotFound)
		case errors.Is(err, db.ErrInvalidStatusTransition):
			return nil, apiError.New(fmt.Sprintf("cannot transition record from %s to %s", oldStatus, next), http.StatusConflict)
		default:
			log.Printf("error transitioning record %s: %v", recordID, err)
			return nil, apiError.ErrInternalServerError
		}
	}

	// Notification happens strictly after the commit, and only for owned
	// records. Failures downstream never affect the transition.
	if updated.UserID != nil && s.notifier != nil {
		s.notifier.DispatchStatusChanged(&models.StatusChangedEvent{
			Record:    updated,
			OldStatus: oldStatus,
			NewStatus: next,
			Reason:    req.Reason,
			ChangedBy: actor.ID,
		})
	}

	if full, ferr := s.recordRepo.FindRecordByID(recordID); ferr == nil {
		return full, nil
	}
	return updated, nil
}

func (s *recordService) GetRecordHistory(actor models.Actor, recordID uuid.UUID) ([]models.StatusHistoryResponse, *apiError.Error) {
	record, apiErr := s.findRecord(recordID)
	if apiErr != nil {
		return nil, apiErr
	}
	if !actor.CanViewHistory(record) {
		return nil, apiError.New("you do not have permission to view this record's history", http.StatusForbidden)
	}

	entries, err := s.historyRepo.GetHistoryByRecordID(recordID)
	if err != nil {
		log.Printf("error fetching history for record %s: %v", recordID, err)
		return nil, apiError.ErrInternalServerError
	}
	return historyResponses(entries), nil
}

func (s *recordService) GetPublicRecords(filters models.RecordFilters, p models.Pagination) ([]models.PublicRecordResponse, models.PageInfo, *apiError.Error) {
	filters.UserID = nil
	records, total, err := s.recordRepo.ListPublicRecords(filters, p)
	if err != nil {
		return nil, models.PageInfo{}, apiError.ErrInternalServerError
	}

	responses := make([]models.PublicRecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, records[i].PublicResponse())
	}
	return responses, models.NewPageInfo(p, total), nil
}

func (s *recordService) GetPublicRecordDetails(recordID uuid.UUID) (*models.PublicRecordResponse, []models.StatusHistoryResponse, *apiError.Error) {
	record, apiErr := s.findRecord(recordID)
	if apiErr != nil {
		return nil, nil, apiErr
	}
	// Drafts are invisible to the public; hide their existence entirely.
	if record.Status == models.StatusDraft {
		return nil, nil, apiError.New("record not found", http.StatusNotFound)
	}

	entries, err := s.historyRepo.GetHistoryByRecordID(recordID)
	if err != nil {
		log.Printf("error fetching history for record %s: %v", recordID, err)
		return nil, nil, apiError.ErrInternalServerError
	}

	response := record.PublicResponse()
	return &response, historyResponses(entries), nil
}

func (s *recordService) GetMyRecords(actor models.Actor, filters models.RecordFilters, p models.Pagination) ([]models.RecordResponse, models.PageInfo, *apiError.Error) {
	if actor.IsAnonymous() {
		return nil, models.PageInfo{}, apiError.New("authentication required", http.StatusUnauthorized)
	}
	filters.UserID = nil
	records, total, err := s.recordRepo.ListRecordsByUser(actor.ID, filters, p)
	if err != nil {
		return nil, models.PageInfo{}, apiError.ErrInternalServerError
	}
	return recordResponses(records), models.NewPageInfo(p, total), nil
}

func (s *recordService) GetAllRecords(actor models.Actor, filters models.RecordFilters, p models.Pagination) ([]models.RecordResponse, models.PageInfo, *apiError.Error) {
	if !actor.CanViewAllRecords() {
		return nil, models.PageInfo{}, apiError.New("admin access required", http.StatusForbidden)
	}
	records, total, err := s.recordRepo.ListAllRecords(filters, p)
	if err != nil {
		return nil, models.PageInfo{}, apiError.ErrInternalServerError
	}
	return recordResponses(records), models.NewPageInfo(p, total), nil
}

func (s *recordService) GetRecordStats(actor models.Actor) (*models.RecordStats, *apiError.Error) {
	if !actor.IsAdmin() {
		return nil, apiError.New("admin access required", http.StatusForbidden)
	}
	stats, err := s.recordRepo.GetRecordStats()
	if err != nil {
		log.Printf("error computing record stats: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return stats, nil
}

func (s *recordService) findRecord(recordID uuid.UUID) (*models.Record, *apiError.Error) {
	record, err := s.recordRepo.FindRecordByID(recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("record not found", http.StatusNotFound)
		}
		log.Printf("error fetching record %s: %v", recordID, err)
		return nil, apiError.ErrInternalServerError
	}
	return record, nil
}

func recordResponses(records []models.Record) []models.RecordResponse {
	responses := make([]models.RecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, records[i].Response())
	}
	return responses
}

func historyResponses(entries []models.StatusHistory) []models.StatusHistoryResponse {
	responses := make([]models.StatusHistoryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, entries[i].Response())
	}
	return responses
}
