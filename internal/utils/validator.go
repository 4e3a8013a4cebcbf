package utils

import (
	"strings"
)

func IsValidRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

func SanitizeString(input string) string {
	return strings.TrimSpace(input)
}

var sortColumns = map[string]string{
	"createdAt":     "created_at",
	"created_at":    "created_at",
	"rating":        "rating",
	"helpfulCount":  "helpful_count",
	"helpful_count": "helpful_count",
}

// SortClause maps a caller-supplied sort field onto a whitelisted column and
// normalizes the direction. Unknown fields fall back to created_at DESC.
func SortClause(sortBy, direction string) string {
	column, ok := sortColumns[sortBy]
	if !ok {
		column = "created_at"
	}
	dir := strings.ToUpper(direction)
	if dir != "ASC" {
		dir = "DESC"
	}
	return column + " " + dir
}
