package model

// swagger:model QuestionResponse
type QuestionResponse struct {
	BaseModel
	AttemptID     uint    `gorm:"index;not null" json:"attemptId"`
	QuestionID    string  `gorm:"size:64;not null" json:"questionId"`
	QuestionText  string  `gorm:"type:text;not null" json:"questionText"`
	StudentAnswer string  `gorm:"type:text" json:"studentAnswer"`
	CorrectAnswer string  `gorm:"type:text" json:"correctAnswer"`
	IsCorrect     bool    `json:"isCorrect"`
	PointsEarned  float64 `gorm:"default:0" json:"pointsEarned"`
	MaxPoints     float64 `gorm:"default:1" json:"maxPoints"`
	Feedback      string  `gorm:"type:text" json:"feedback,omitempty"`
	ResponseTime  int     `json:"responseTime"` // seconds
}

func (QuestionResponse) TableName() string {
	return "question_responses"
}
