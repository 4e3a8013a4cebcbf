package models

import (
	"time"
)

// RatingSummary is a derived aggregate over the ACTIVE reviews of one entity.
// It is never authoritative: every write fully recomputes it from the review
// set. The row is created lazily and zeroed, not deleted, when the last
// review disappears.
type RatingSummary struct {
	ID            uint    `json:"-" gorm:"primaryKey"`
	EntityType    string  `json:"entity_type" gorm:"not null;size:50;uniqueIndex:ux_entity_summary"`
	EntityID      string  `json:"entity_id" gorm:"not null;size:100;uniqueIndex:ux_entity_summary"`
	AverageRating float64 `json:"average_rating" gorm:"not null;default:0;index"`
	TotalReviews  int     `json:"total_reviews" gorm:"not null;default:0"`

	FiveStarCount  int `json:"five_star_count" gorm:"not null;default:0"`
	FourStarCount  int `json:"four_star_count" gorm:"not null;default:0"`
	ThreeStarCount int `json:"three_star_count" gorm:"not null;default:0"`
	TwoStarCount   int `json:"two_star_count" gorm:"not null;default:0"`
	OneStarCount   int `json:"one_star_count" gorm:"not null;default:0"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (RatingSummary) TableName() string {
	return "rating_summaries"
}
