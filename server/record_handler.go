package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	errs "github.com/jisetihq/jiseti/errors"
	"github.com/jisetihq/jiseti/models"
	"github.com/jisetihq/jiseti/server/response"
)

// parsePagination clamps the page and per_page query values. Junk or
// out-of-range input falls back to the defaults silently instead of erroring.
func parsePagination(c *gin.Context) models.Pagination {
	page := models.DefaultPage
	if raw := c.Query("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 1 {
			page = parsed
		}
	}

	perPage := models.DefaultPerPage
	if raw := c.Query("per_page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 1 {
			perPage = parsed
			if perPage > models.MaxPerPage {
				perPage = models.MaxPerPage
			}
		}
	}

	return models.Pagination{Page: page, PerPage: perPage}
}

func parseRecordFilters(c *gin.Context) models.RecordFilters {
	return models.RecordFilters{
		Status:  c.Query("status"),
		Type:    c.Query("type"),
		Urgency: c.Query("urgency"),
		Search:  c.Query("search"),
	}
}

func recordIDFromParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.JSON(c, "", http.StatusBadRequest, nil, errs.New("invalid record id", http.StatusBadRequest))
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) handleCreateRecord() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateRecordRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		record, err := s.RecordService.CreateRecord(currentActor(c), &req)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "record created successfully", http.StatusCreated, record.Response(), nil)
	}
}

// handleAnonymousReport is the unauthenticated submission path. The caller
// gets back a tracking token instead of an owner reference.
func (s *Server) handleAnonymousReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateRecordRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		record, trackingToken, err := s.RecordService.CreateAnonymousRecord(&req)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "anonymous report submitted successfully", http.StatusCreated, models.AnonymousReportResponse{
			TrackingToken: trackingToken,
			Record:        record.PublicResponse(),
		}, nil)
	}
}

func (s *Server) handleGetRecord() gin.HandlerFunc {
	return func(c *gin.Context) {
		recordID, ok := recordIDFromParam(c)
		if !ok {
			return
		}
		record, err := s.RecordService.GetRecord(currentActor(c), recordID)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "record retrieved successfully", http.StatusOK, record.Response(), nil)
	}
}

func (s *Server) handleUpdateRecord() gin.HandlerFunc {
	return func(c *gin.Context) {
		recordID, ok := recordIDFromParam(c)
		if !ok {
			return
		}
		var patch models.UpdateRecordRequest
		if err := decode(c, &patch); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		record, err := s.RecordService.UpdateRecord(currentActor(c), recordID, &patch)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "record updated successfully", http.StatusOK, record.Response(), nil)
	}
}

func (s *Server) handleDeleteRecord() gin.HandlerFunc {
	return func(c *gin.Context) {
		recordID, ok := recordIDFromParam(c)
		if !ok {
			return
		}
		if err := s.RecordService.DeleteRecord(currentActor(c), recordID); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "record deleted successfully", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleTransitionStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		recordID, ok := recordIDFromParam(c)
		if !ok {
			return
		}
		var req models.TransitionStatusRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		record, err := s.RecordService.TransitionStatus(currentActor(c), recordID, &req)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "record status updated successfully", http.StatusOK, record.Response(), nil)
	}
}

func (s *Server) handleGetRecordHistory() gin.HandlerFunc {
	return func(c *gin.Context) {
		recordID, ok := recordIDFromParam(c)
		if !ok {
			return
		}
		history, err := s.RecordService.GetRecordHistory(currentActor(c), recordID)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "record history retrieved successfully", http.StatusOK, history, nil)
	}
}

func (s *Server) handleGetPublicRecords() gin.HandlerFunc {
	return func(c *gin.Context) {
		records, pageInfo, err := s.RecordService.GetPublicRecords(parseRecordFilters(c), parsePagination(c))
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "records retrieved successfully", http.StatusOK, gin.H{
			"records":    records,
			"pagination": pageInfo,
		}, nil)
	}
}

func (s *Server) handleGetPublicRecordDetails() gin.HandlerFunc {
	return func(c *gin.Context) {
		recordID, ok := recordIDFromParam(c)
		if !ok {
			return
		}
		record, history, err := s.RecordService.GetPublicRecordDetails(recordID)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "record retrieved successfully", http.StatusOK, gin.H{
			"record":  record,
			"history": history,
		}, nil)
	}
}

func (s *Server) handleGetMyRecords() gin.HandlerFunc {
	return func(c *gin.Context) {
		records, pageInfo, err := s.RecordService.GetMyRecords(currentActor(c), parseRecordFilters(c), parsePagination(c))
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "records retrieved successfully", http.StatusOK, gin.H{
			"records":    records,
			"pagination": pageInfo,
		}, nil)
	}
}

// handleGetAllRecords is the admin view: drafts included, with an extra
// user_id filter on top of the shared ones.
func (s *Server) handleGetAllRecords() gin.HandlerFunc {
	return func(c *gin.Context) {
		filters := parseRecordFilters(c)
		if raw := c.Query("user_id"); raw != "" {
			if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
				userID := uint(parsed)
				filters.UserID = &userID
			}
		}

		records, pageInfo, err := s.RecordService.GetAllRecords(currentActor(c), filters, parsePagination(c))
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "records retrieved successfully", http.StatusOK, gin.H{
			"records":    records,
			"pagination": pageInfo,
		}, nil)
	}
}

func (s *Server) handleGetRecordStats() gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := s.RecordService.GetRecordStats(currentActor(c))
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "stats retrieved successfully", http.StatusOK, stats, nil)
	}
}
