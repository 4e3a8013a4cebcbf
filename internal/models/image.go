package models

import (
	"time"
)

// ReviewImage holds image metadata plus either the raw bytes (database
// backend) or an S3 key/URL (S3 backend). Exactly one of the two is set.
type ReviewImage struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	ReviewID    uint   `json:"review_id" gorm:"not null;index"`
	FileName    string `json:"file_name" gorm:"not null"`
	ContentType string `json:"content_type" gorm:"not null"`
	FileSize    int64  `json:"file_size" gorm:"not null"`

	ImageData []byte `json:"-" gorm:"type:bytea"`
	S3Key     string `json:"-"`
	S3URL     string `json:"url,omitempty"`

	UploadedAt time.Time `json:"uploaded_at" gorm:"autoCreateTime"`
}

func (ReviewImage) TableName() string {
	return "review_images"
}
