package model

import (
	"time"
)

// swagger:model QuizAttempt
type QuizAttempt struct {
	BaseModel
	StudentID   uint       `gorm:"index;not null" json:"studentId"`
	QuizID      uint       `gorm:"index;not null" json:"quizId"`
	Score       float64    `json:"score"`
	MaxScore    float64    `json:"maxScore"`
	Percentage  float64    `json:"percentage"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	TimeTaken   int        `json:"timeTaken"` // seconds

	Student *User `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Quiz    *Quiz `gorm:"foreignKey:QuizID" json:"quiz,omitempty"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
