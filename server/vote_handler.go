package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jisetihq/jiseti/models"
	"github.com/jisetihq/jiseti/server/response"
)

func (s *Server) handleCastVote() gin.HandlerFunc {
	return func(c *gin.Context) {
		recordID, ok := recordIDFromParam(c)
		if !ok {
			return
		}

		// An empty body is a plain support vote.
		var req models.CastVoteRequest
		if c.Request.Body != nil && c.Request.ContentLength > 0 {
			if err := decode(c, &req); err != nil {
				response.JSON(c, "", http.StatusBadRequest, nil, err)
				return
			}
		}

		voteResponse, err := s.VoteService.CastVote(currentActor(c), recordID, &req)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "vote recorded successfully", http.StatusOK, voteResponse, nil)
	}
}

func (s *Server) handleRetractVote() gin.HandlerFunc {
	return func(c *gin.Context) {
		recordID, ok := recordIDFromParam(c)
		if !ok {
			return
		}
		voteResponse, err := s.VoteService.RetractVote(currentActor(c), recordID)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "vote retracted successfully", http.StatusOK, voteResponse, nil)
	}
}
