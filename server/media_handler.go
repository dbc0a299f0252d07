package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	errs "github.com/jisetihq/jiseti/errors"
	"github.com/jisetihq/jiseti/server/response"
)

// handleAttachMedia accepts a multipart upload for a draft record owned by
// the caller. The stored file replaces whatever attachment the record had.
func (s *Server) handleAttachMedia() gin.HandlerFunc {
	return func(c *gin.Context) {
		recordID, ok := recordIDFromParam(c)
		if !ok {
			return
		}

		fileHeader, err := c.FormFile("media")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("media file is required", http.StatusBadRequest))
			return
		}

		media, apiErr := s.MediaService.AttachMedia(currentActor(c), recordID, fileHeader)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "media attached successfully", http.StatusCreated, media, nil)
	}
}
