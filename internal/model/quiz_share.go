package model

import (
	"time"
)

// swagger:model QuizShare
type QuizShare struct {
	BaseModel
	QuizID    uint       `gorm:"index;not null" json:"quizId"`
	SharedBy  uint       `gorm:"not null" json:"sharedBy"`
	ShareCode string     `gorm:"size:16;unique;not null" json:"shareCode"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	IsActive  bool       `gorm:"default:true" json:"isActive"`

	Quiz *Quiz `gorm:"foreignKey:QuizID" json:"quiz,omitempty"`
}

func (QuizShare) TableName() string {
	return "quiz_shares"
}
