package model

import (
	"gorm.io/datatypes"
)

type GenerationMode string

const (
	ModePrompt   GenerationMode = "prompt"
	ModeDocument GenerationMode = "document"
	ModeMistakes GenerationMode = "mistakes"
)

const (
	QuestionTypeMCQ         = "MCQ"
	QuestionTypeTrueFalse   = "True/False"
	QuestionTypeShortAnswer = "Short Answer"
	QuestionTypeEssay       = "Essay"
)

// Quiz stores denormalized columns for listing and filtering alongside
// the full generated payload (questions, answers, explanations) as JSON.
// swagger:model Quiz
type Quiz struct {
	BaseModel
	Title          string         `gorm:"size:255;not null" json:"title"`
	Topic          string         `gorm:"size:255" json:"topic"`
	Difficulty     string         `gorm:"size:20" json:"difficulty"`
	QuestionType   string         `gorm:"size:20" json:"questionType"`
	NumQuestions   int            `json:"numQuestions"`
	CreatedBy      uint           `gorm:"index;not null" json:"createdBy"`
	GenerationMode GenerationMode `gorm:"size:20" json:"generationMode"`
	IsPublished    bool           `gorm:"default:false" json:"isPublished"`
	SourceDocument string         `gorm:"size:255" json:"sourceDocument,omitempty"`
	Data           datatypes.JSON `gorm:"not null" json:"-"`

	Creator *User `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}
