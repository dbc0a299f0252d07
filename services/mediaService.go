package services

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
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

const (
	MaxImageFileSize = 10 * 1024 * 1024
	MaxVideoFileSize = 80 * 1024 * 1024
)

// MediaService handles multipart uploads for draft records: the file lands on
// S3, images additionally get a generated thumbnail, and the stored attachment
// replaces whatever the record carried before.
type MediaService interface {
	AttachMedia(actor models.Actor, recordID uuid.UUID, fileHeader *multipart.FileHeader) (*models.Media, *apiError.Error)
	GetRecordMedia(recordID uuid.UUID) ([]models.Media, error)
}

type mediaService struct {
	Config     *config.Config
	mediaRepo  db.MediaRepository
	recordRepo db.RecordRepository
}

func NewMediaService(mediaRepo db.MediaRepository, recordRepo db.RecordRepository, conf *config.Config) MediaService {
	return &mediaService{
		Config:     conf,
		mediaRepo:  mediaRepo,
		recordRepo: recordRepo,
	}
}

func (m *mediaService) AttachMedia(actor models.Actor, recordID uuid.UUID, fileHeader *multipart.FileHeader) (*models.Media, *apiError.Error) {
	record, err := m.recordRepo.FindRecordByID(recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("record not found", http.StatusNotFound)
		}
		log.Printf("error fetching record %s: %v", recordID, err)
		return nil, apiError.ErrInternalServerError
	}
	if !actor.CanModifyRecord(record) {
		return nil, apiError.New("you do not have permission to modify this record", http.StatusForbidden)
	}
	if record.Status != models.StatusDraft {
		return nil, apiError.New("media can only be attached to draft records", http.StatusConflict)
	}

	mediaType, apiErr := classifyUpload(fileHeader)
	if apiErr != nil {
		return nil, apiErr
	}

	bucketName := os.Getenv("AWS_BUCKET")
	if bucketName == "" {
		log.Println("AWS_BUCKET environment variable is not set")
		return nil, apiError.ErrInternalServerError
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("error opening uploaded file: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	defer file.Close()

	mediaURL, err := m.mediaRepo.UploadMediaToS3(file, fileHeader, bucketName, "media")
	if err != nil {
		log.Printf("error uploading media to S3: %v", err)
		return nil, apiError.New("failed to store media", http.StatusInternalServerError)
	}

	thumbnailURL := ""
	if mediaType == models.MediaTypeImage {
		// A missing thumbnail degrades the feed, it does not fail the upload.
		thumbnailURL, err = m.generateImageThumbnail(fileHeader, bucketName)
		if err != nil {
			log.Printf("error generating thumbnail for %s: %v", fileHeader.Filename, err)
			thumbnailURL = ""
		}
	}

	media := &models.Media{
		ID:           uuid.NewString(),
		RecordID:     recordID,
		MediaType:    mediaType,
		MediaURL:     mediaURL,
		ThumbnailURL: thumbnailURL,
		Filename:     strings.ReplaceAll(fileHeader.Filename, " ", "_"),
		FileSize:     fileHeader.Size,
	}
	if err := m.mediaRepo.SaveRecordMedia(media); err != nil {
		log.Printf("error saving media for record %s: %v", recordID, err)
		return nil, apiError.ErrInternalServerError
	}

	return media, nil
}

func (m *mediaService) GetRecordMedia(recordID uuid.UUID) ([]models.Media, error) {
	return m.mediaRepo.GetMediaByRecordID(recordID)
}

// classifyUpload maps the file extension to a media type and enforces the
// per-type size limit.
func classifyUpload(fileHeader *multipart.FileHeader) (string, *apiError.Error) {
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch {
	case utils.SupportedImageExtension(ext):
		if fileHeader.Size > MaxImageFileSize {
			return "", apiError.New("image file size exceeds the 10MB limit", http.StatusBadRequest)
		}
		return models.MediaTypeImage, nil
	case utils.SupportedVideoExtension(ext):
		if fileHeader.Size > MaxVideoFileSize {
			return "", apiError.New("video file size exceeds the 80MB limit", http.StatusBadRequest)
		}
		return models.MediaTypeVideo, nil
	default:
		return "", apiError.New(fmt.Sprintf("unsupported file type %s", ext), http.StatusBadRequest)
	}
}

func (m *mediaService) generateImageThumbnail(fileHeader *multipart.FileHeader, bucketName string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("error opening media file: %v", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return "", fmt.Errorf("error decoding image: %v", err)
	}

	thumbnail := imaging.Thumbnail(img, 320, 240, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumbnail, nil); err != nil {
		return "", fmt.Errorf("error encoding thumbnail to JPEG: %v", err)
	}

	key := fmt.Sprintf("media/thumbnails/%s_thumbnail.jpg", uuid.NewString())
	return m.mediaRepo.UploadBytesToS3(buf.Bytes(), bucketName, key, "image/jpeg")
}
