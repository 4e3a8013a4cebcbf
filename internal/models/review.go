package models

import (
	"time"
)

// ReviewStatus is the review lifecycle state. DELETED is terminal: a deleted
// review never re-enters listings or aggregation.
type ReviewStatus string

const (
	StatusActive  ReviewStatus = "ACTIVE"
	StatusDeleted ReviewStatus = "DELETED"
)

type Review struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	EntityType string `json:"entity_type" gorm:"not null;size:50;index:idx_entity;uniqueIndex:ux_active_review,where:status = 'ACTIVE'"`
	EntityID   string `json:"entity_id" gorm:"not null;size:100;index:idx_entity;uniqueIndex:ux_active_review,where:status = 'ACTIVE'"`
	UserID     string `json:"user_id" gorm:"not null;index;uniqueIndex:ux_active_review,where:status = 'ACTIVE'"`
	Rating     int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Title      string `json:"title" gorm:"size:100"`
	Comment    string `json:"comment" gorm:"size:2000"`
	Verified   bool   `json:"verified" gorm:"not null;default:false"`

	// Cached projections of the helpfulness ledger. Only the vote routine
	// writes these.
	HelpfulCount   int `json:"helpful_count" gorm:"not null;default:0"`
	UnhelpfulCount int `json:"unhelpful_count" gorm:"not null;default:0"`

	Status    ReviewStatus `json:"status" gorm:"not null;default:'ACTIVE';index"`
	IsFlagged bool         `json:"is_flagged" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ModeratedAt    *time.Time `json:"moderated_at,omitempty"`
	ModeratorID    string     `json:"moderator_id,omitempty"`
	ModerationNote string     `json:"moderation_note,omitempty" gorm:"size:500"`
}

// HelpfulnessVote is the current vote of one user on one review. Switching
// polarity replaces the row rather than adding a second one.
type HelpfulnessVote struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ReviewID  uint      `json:"review_id" gorm:"not null;index;uniqueIndex:ux_review_user_vote"`
	UserID    string    `json:"user_id" gorm:"not null;uniqueIndex:ux_review_user_vote"`
	Helpful   bool      `json:"helpful"`
	CreatedAt time.Time `json:"created_at"`
}

func (HelpfulnessVote) TableName() string {
	return "helpfulness_votes"
}
