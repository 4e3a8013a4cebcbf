package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reviewhub/internal/models"
	"reviewhub/pkg/logger"
)

const (
	maxImagesPerUpload = 10
	maxImageSize       = 5 * 1024 * 1024
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ImageStorageService validates and stores review images. Metadata always
// lives in the database; the bytes go either inline (bytea) or to S3 when an
// S3 backend is configured.
type ImageStorageService struct {
	db *gorm.DB
	s3 *S3Service
}

func NewImageStorageService(db *gorm.DB, s3 *S3Service) *ImageStorageService {
	return &ImageStorageService{db: db, s3: s3}
}

func (s *ImageStorageService) StoreImages(reviewID uint, files []*multipart.FileHeader) ([]uint, error) {
	var ids []uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		ids, err = s.StoreImagesTx(tx, reviewID, files)
		return err
	})
	return ids, err
}

// StoreImagesTx stores up to 10 images inside the caller's transaction. Any
// invalid file fails the whole batch; S3 objects already written for the
// batch are removed on failure since the metadata rows roll back with it.
func (s *ImageStorageService) StoreImagesTx(tx *gorm.DB, reviewID uint, files []*multipart.FileHeader) ([]uint, error) {
	if len(files) > maxImagesPerUpload {
		return nil, fmt.Errorf("%w: maximum %d images allowed per upload", ErrValidation, maxImagesPerUpload)
	}

	ids := make([]uint, 0, len(files))
	var storedKeys []string

	cleanup := func() {
		if s.s3 != nil && len(storedKeys) > 0 {
			if err := s.s3.DeleteMany(storedKeys); err != nil {
				logger.Warn("Failed to clean up S3 objects after aborted upload: ", err)
			}
		}
	}

	for _, header := range files {
		id, key, err := s.storeImage(tx, reviewID, header)
		if err != nil {
			cleanup()
			return nil, err
		}
		ids = append(ids, id)
		if key != "" {
			storedKeys = append(storedKeys, key)
		}
	}

	logger.Info("Stored ", len(ids), " images for review ", reviewID)
	return ids, nil
}

func (s *ImageStorageService) storeImage(tx *gorm.DB, reviewID uint, header *multipart.FileHeader) (uint, string, error) {
	contentType, err := validateImage(header)
	if err != nil {
		return 0, "", err
	}

	file, err := header.Open()
	if err != nil {
		return 0, "", fmt.Errorf("failed to open uploaded file: %v", err)
	}
	defer file.Close()

	buffer := bytes.NewBuffer(nil)
	if _, err := io.Copy(buffer, file); err != nil {
		return 0, "", fmt.Errorf("failed to read uploaded file: %v", err)
	}

	image := models.ReviewImage{
		ReviewID:    reviewID,
		FileName:    header.Filename,
		ContentType: contentType,
		FileSize:    header.Size,
	}

	if s.s3 != nil {
		ext := strings.ToLower(filepath.Ext(header.Filename))
		key := fmt.Sprintf("reviews/images/%s/%s%s",
			time.Now().Format("2006/01/02"), uuid.New().String(), ext)

		url, err := s.s3.Upload(key, contentType, buffer.Bytes())
		if err != nil {
			return 0, "", err
		}
		image.S3Key = key
		image.S3URL = url
	} else {
		image.ImageData = buffer.Bytes()
	}

	if err := tx.Create(&image).Error; err != nil {
		return 0, image.S3Key, err
	}
	return image.ID, image.S3Key, nil
}

// GetImage returns the metadata row and the raw bytes, wherever they live.
func (s *ImageStorageService) GetImage(imageID uint) (*models.ReviewImage, []byte, error) {
	var image models.ReviewImage
	if err := s.db.First(&image, imageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: image %d", ErrNotFound, imageID)
		}
		return nil, nil, err
	}

	if image.S3Key != "" {
		if s.s3 == nil {
			return nil, nil, fmt.Errorf("image %d is stored in S3 but no S3 backend is configured", imageID)
		}
		data, err := s.s3.Download(image.S3Key)
		if err != nil {
			return nil, nil, err
		}
		return &image, data, nil
	}
	return &image, image.ImageData, nil
}

// ImagesOf lists image metadata for a review, never the bytes.
func (s *ImageStorageService) ImagesOf(reviewID uint) ([]models.ReviewImage, error) {
	var images []models.ReviewImage
	err := s.db.
		Select("id", "review_id", "file_name", "content_type", "file_size", "s3_key", "s3_url", "uploaded_at").
		Where("review_id = ?", reviewID).
		Order("uploaded_at ASC, id ASC").
		Find(&images).Error
	return images, err
}

func (s *ImageStorageService) DeleteImage(imageID uint) error {
	var image models.ReviewImage
	if err := s.db.First(&image, imageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: image %d", ErrNotFound, imageID)
		}
		return err
	}

	if err := s.db.Delete(&image).Error; err != nil {
		return err
	}
	if s.s3 != nil && image.S3Key != "" {
		return s.s3.Delete(image.S3Key)
	}
	return nil
}

func (s *ImageStorageService) DeleteImagesOf(reviewID uint) error {
	var images []models.ReviewImage
	if err := s.db.Select("id", "s3_key").Where("review_id = ?", reviewID).Find(&images).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}

	if err := s.db.Where("review_id = ?", reviewID).Delete(&models.ReviewImage{}).Error; err != nil {
		return err
	}

	if s.s3 != nil {
		keys := make([]string, 0, len(images))
		for _, image := range images {
			keys = append(keys, image.S3Key)
		}
		return s.s3.DeleteMany(keys)
	}
	return nil
}

// validateImage enforces the upload constraints: non-empty, at most 5MB, and
// an allowed image type by both declared content type and file extension.
func validateImage(header *multipart.FileHeader) (string, error) {
	if header.Size == 0 {
		return "", fmt.Errorf("%w: file %s is empty", ErrValidation, header.Filename)
	}
	if header.Size > maxImageSize {
		return "", fmt.Errorf("%w: file %s exceeds the 5MB limit", ErrValidation, header.Filename)
	}

	contentType := strings.ToLower(header.Header.Get("Content-Type"))
	if !allowedImageTypes[contentType] {
		return "", fmt.Errorf("%w: invalid content type %q, allowed: JPEG, PNG, GIF, WebP", ErrValidation, contentType)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExtensions[ext] {
		return "", fmt.Errorf("%w: invalid file extension %q, allowed: jpg, jpeg, png, gif, webp", ErrValidation, ext)
	}

	return contentType, nil
}
