// internal/services/storage_service.go
package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/sirupsen/logrus"

	"github.com/luxe-clothing/storefront/internal/config"
	"github.com/luxe-clothing/storefront/internal/utils"
)

const productImageFolder = "products"

var allowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

type StorageService struct {
	s3Client s3iface.S3API
	config   *config.Config
}

type UploadResult struct {
	URL          string `json:"url"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimeType"`
	Checksum     string `json:"checksum"`
}

type UploadOptions struct {
	Folder       string
	MaxSize      int64 // in bytes
	AllowedTypes []string
	IsPublic     bool
}

// NewStorageService stores on S3 when AWS keys are configured, otherwise on
// the local upload directory.
func NewStorageService(config *config.Config) (*StorageService, error) {
	if config.AWS.AccessKeyID == "" {
		if err := os.MkdirAll(config.Upload.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload directory: %w", err)
		}
		logrus.WithField("dir", config.Upload.Dir).Info("Image storage on local disk")
		return &StorageService{config: config}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(config.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AWS.AccessKeyID,
			config.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	logrus.WithField("bucket", config.AWS.S3Bucket).Info("Image storage on S3")
	return NewStorageServiceWithS3(config, s3.New(sess)), nil
}

func NewStorageServiceWithS3(config *config.Config, client s3iface.S3API) *StorageService {
	return &StorageService{s3Client: client, config: config}
}

func (s *StorageService) ProductImageOptions() UploadOptions {
	return UploadOptions{
		Folder:       productImageFolder,
		MaxSize:      s.config.Upload.MaxFileSize,
		AllowedTypes: allowedImageExtensions,
		IsPublic:     true,
	}
}

// UploadImage checks extension, size and file signature before storing.
func (s *StorageService) UploadImage(header *multipart.FileHeader, options UploadOptions) (*UploadResult, error) {
	if options.MaxSize > 0 && header.Size > options.MaxSize {
		return nil, newValidationError("image", fmt.Sprintf("File too large. Maximum size is %dMB.", options.MaxSize/(1024*1024)))
	}

	fileExt := strings.ToLower(filepath.Ext(header.Filename))
	if !extensionAllowed(fileExt, options.AllowedTypes) {
		return nil, newValidationError("image", "Only image files are allowed!")
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	contentType, ok := detectImageType(fileBytes)
	if !ok {
		return nil, newValidationError("image", "Only image files are allowed!")
	}

	filename, err := generateFileName(header.Filename)
	if err != nil {
		return nil, err
	}

	result := &UploadResult{
		Filename:     filename,
		OriginalName: header.Filename,
		Size:         int64(len(fileBytes)),
		MimeType:     contentType,
		Checksum:     utils.HashBytes(fileBytes),
	}

	if s.s3Client != nil {
		result.URL, err = s.uploadToS3(fileBytes, objectKey(options.Folder, filename), contentType, options.IsPublic)
	} else {
		result.URL, err = s.uploadToLocal(fileBytes, filename)
	}
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"filename": filename,
		"size":     result.Size,
		"url":      result.URL,
	}).Info("Image uploaded")

	return result, nil
}

func (s *StorageService) uploadToS3(fileBytes []byte, key, contentType string, isPublic bool) (string, error) {
	params := &s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(fileBytes),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(fileBytes))),
	}

	if isPublic {
		params.ACL = aws.String("public-read")
	}

	if _, err := s.s3Client.PutObject(params); err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return s.getS3URL(key), nil
}

func (s *StorageService) uploadToLocal(fileBytes []byte, filename string) (string, error) {
	path := filepath.Join(s.config.Upload.Dir, filename)
	if err := os.WriteFile(path, fileBytes, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return fmt.Sprintf("%s/%s", strings.TrimRight(s.config.Upload.BaseURL, "/"), filename), nil
}

// DeleteImage removes a stored product image by the filename returned at
// upload. An unknown file is a NotFoundError.
func (s *StorageService) DeleteImage(filename string) error {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return newValidationError("filename", "Invalid filename")
	}

	if s.s3Client == nil {
		err := os.Remove(filepath.Join(s.config.Upload.Dir, filename))
		if errors.Is(err, os.ErrNotExist) {
			return &NotFoundError{Resource: "Image"}
		}
		if err != nil {
			return fmt.Errorf("failed to delete file: %w", err)
		}
		logrus.WithField("filename", filename).Info("Image deleted")
		return nil
	}

	key := objectKey(productImageFolder, filename)
	_, err := s.s3Client.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var aerr awserr.RequestFailure
		if errors.As(err, &aerr) && aerr.StatusCode() == http.StatusNotFound {
			return &NotFoundError{Resource: "Image"}
		}
		return fmt.Errorf("failed to look up file on S3: %w", err)
	}

	if _, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	logrus.WithField("key", key).Info("Image deleted")
	return nil
}

func (s *StorageService) getS3URL(key string) string {
	if s.config.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.config.AWS.CloudFrontURL, key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.AWS.S3Bucket, s.config.AWS.Region, key)
}

func extensionAllowed(ext string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

func objectKey(folder, filename string) string {
	if folder == "" {
		return filename
	}
	return folder + "/" + filename
}

// generateFileName keeps the extension and nothing else of the client's name.
func generateFileName(originalName string) (string, error) {
	suffix, err := utils.GenerateRandomString(10)
	if err != nil {
		return "", fmt.Errorf("failed to generate filename: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("image-%d-%s%s", time.Now().UnixMilli(), suffix, ext), nil
}

// detectImageType checks the leading bytes against the accepted image formats.
func detectImageType(buffer []byte) (string, bool) {
	switch {
	case len(buffer) >= 3 && buffer[0] == 0xFF && buffer[1] == 0xD8 && buffer[2] == 0xFF:
		return "image/jpeg", true
	case len(buffer) >= 8 && bytes.Equal(buffer[:8], []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}):
		return "image/png", true
	case len(buffer) >= 6 && (string(buffer[:6]) == "GIF87a" || string(buffer[:6]) == "GIF89a"):
		return "image/gif", true
	case len(buffer) >= 12 && string(buffer[:4]) == "RIFF" && string(buffer[8:12]) == "WEBP":
		return "image/webp", true
	}
	return "", false
}
