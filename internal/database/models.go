package database

import (
	"time"

	"daily-check/internal/allocator"
)

// DateLayout is the storage format of ActivityRecord.Date.
const DateLayout = "2006-01-02"

// ActivityRecord is one saved day: three (activity, proportion) pairs and a
// note. Activity labels may repeat across slots.
type ActivityRecord struct {
	ID          int              `json:"id"`
	Date        string           `json:"date"`
	Activities  [3]string        `json:"activities"`
	Proportions allocator.Triple `json:"proportions"`
	Note        string           `json:"note,omitempty"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
