package model

import (
	"time"
)

const (
	MistakeConceptual    = "conceptual"
	MistakeComputational = "computational"
	MistakeCareless      = "careless"
	MistakeIncomplete    = "incomplete"
	MistakeNoResponse    = "no_response"
)

// StudentMistake is a frequency-counted record per (student, topic,
// concept); re-logging the same mistake bumps frequency and
// last_occurred instead of inserting a new row.
// swagger:model StudentMistake
type StudentMistake struct {
	BaseModel
	StudentID    uint      `gorm:"index;not null;uniqueIndex:idx_mistake_key" json:"studentId"`
	Topic        string    `gorm:"size:255;not null;uniqueIndex:idx_mistake_key" json:"topic"`
	Concept      string    `gorm:"size:255;uniqueIndex:idx_mistake_key" json:"concept"`
	MistakeType  string    `gorm:"size:20" json:"mistakeType"`
	Frequency    int       `gorm:"default:1" json:"frequency"`
	LastOccurred time.Time `json:"lastOccurred"`
}

func (StudentMistake) TableName() string {
	return "student_mistakes"
}
