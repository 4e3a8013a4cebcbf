package models

import (
	"time"
)

// ReviewResponse is an immutable vendor/staff reply attached to a review.
type ReviewResponse struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ReviewID      uint      `json:"review_id" gorm:"not null;index"`
	ResponderID   string    `json:"responder_id" gorm:"not null;index"`
	ResponderType string    `json:"responder_type" gorm:"not null"`
	Response      string    `json:"response" gorm:"not null;size:1000"`
	CreatedAt     time.Time `json:"created_at"`
}

func (ReviewResponse) TableName() string {
	return "review_responses"
}
