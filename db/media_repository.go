package db

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/jisetihq/jiseti/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type MediaRepository interface {
	SaveRecordMedia(media *models.Media) error
	GetMediaByRecordID(recordID uuid.UUID) ([]models.Media, error)
	UploadMediaToS3(file multipart.File, fileHeader *multipart.FileHeader, bucketName, folderName string) (string, error)
	UploadBytesToS3(data []byte, bucketName, key, contentType string) (string, error)
}

type mediaRepo struct {
	DB *gorm.DB
}

func NewMediaRepo(db *GormDB) MediaRepository {
	return &mediaRepo{db.DB}
}

// SaveRecordMedia replaces whatever attachment the record had with the given
// one. Records keep a single active attachment, so this is a delete+create in
// one transaction.
func (m *mediaRepo) SaveRecordMedia(media *models.Media) error {
	tx := m.DB.Begin()
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "failed to begin transaction")
	}

	if err := tx.Where("record_id = ?", media.RecordID).Delete(&models.Media{}).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "failed to clear existing media")
	}
	if err := tx.Create(media).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "failed to save media")
	}

	return tx.Commit().Error
}

func (m *mediaRepo) GetMediaByRecordID(recordID uuid.UUID) ([]models.Media, error) {
	var media []models.Media
	err := m.DB.Where("record_id = ?", recordID).Order("created_at DESC").Find(&media).Error
	if err != nil {
		return nil, err
	}
	return media, nil
}

func createS3Client() (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(os.Getenv("AWS_REGION")),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			os.Getenv("AWS_ACCESS_KEY_ID"),
			os.Getenv("AWS_SECRET_ACCESS_KEY"),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %v", err)
	}
	return s3.NewFromConfig(cfg), nil
}

func uploadToS3(client *s3.Client, body io.Reader, bucketName, key, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(key),
		Body:   body,
		ACL:    types.ObjectCannedACLPublicRead,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := client.PutObject(context.TODO(), input); err != nil {
		return "", fmt.Errorf("failed to upload object: %v", err)
	}

	fileURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucketName, os.Getenv("AWS_REGION"), key)
	return fileURL, nil
}

// UploadMediaToS3 stores an uploaded file under folderName with a unique key
// and returns its public URL.
func (m *mediaRepo) UploadMediaToS3(file multipart.File, fileHeader *multipart.FileHeader, bucketName, folderName string) (string, error) {
	defer file.Close()

	sanitizedFilename := strings.ReplaceAll(fileHeader.Filename, " ", "_")
	key := fmt.Sprintf("%s/%s_%s", folderName, uuid.NewString(), sanitizedFilename)

	client, err := createS3Client()
	if err != nil {
		return "", fmt.Errorf("failed to create S3 client: %v", err)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %v", err)
	}

	fileURL, err := uploadToS3(client, bytes.NewReader(data), bucketName, key, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %v", err)
	}

	return fileURL, nil
}

// UploadBytesToS3 stores an in-memory payload, used for generated thumbnails.
func (m *mediaRepo) UploadBytesToS3(data []byte, bucketName, key, contentType string) (string, error) {
	client, err := createS3Client()
	if err != nil {
		return "", fmt.Errorf("failed to create S3 client: %v", err)
	}
	return uploadToS3(client, bytes.NewReader(data), bucketName, key, contentType)
}
