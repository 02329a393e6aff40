package service

import (
	"strings"
	"testing"

	"github.com/abdallahade1/ConceptCatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeContentFillsDefaults(t *testing.T) {
	svc := &QuizService{}
	content := &model.QuizContent{
		Questions: []model.QuizQuestion{
			{Question: "Q1"},
			{Question: "Q2", Points: 3, Concept: "Fractions"},
		},
	}
	req := GenerateRequest{
		Mode:         model.ModePrompt,
		Difficulty:   "Hard",
		QuestionType: model.QuestionTypeMCQ,
		NumQuestions: 5,
	}

	svc.normalizeContent(content, "Algebra", req)

	assert.Equal(t, "Algebra Quiz", content.Title)
	assert.Equal(t, "Algebra", content.Topic)
	assert.Equal(t, "Hard", content.Difficulty)
	assert.Equal(t, model.ModePrompt, content.GenerationMode)
	assert.Equal(t, 2, content.NumQuestions)

	assert.NotEmpty(t, content.Questions[0].ID)
	assert.NotEmpty(t, content.Questions[1].ID)
	assert.NotEqual(t, content.Questions[0].ID, content.Questions[1].ID)

	assert.Equal(t, 1.0, content.Questions[0].Points)
	assert.Equal(t, 3.0, content.Questions[1].Points)

	assert.Equal(t, "Algebra", content.Questions[0].Concept)
	assert.Equal(t, "Fractions", content.Questions[1].Concept)
}

func TestNormalizeContentTruncates(t *testing.T) {
	svc := &QuizService{}
	content := &model.QuizContent{
		Title: "Big Quiz",
		Topic: "Geometry",
		Questions: []model.QuizQuestion{
			{Question: "Q1"}, {Question: "Q2"}, {Question: "Q3"}, {Question: "Q4"},
		},
	}
	req := GenerateRequest{Mode: model.ModePrompt, NumQuestions: 2, Difficulty: "Easy", QuestionType: model.QuestionTypeMCQ}

	svc.normalizeContent(content, "Geometry", req)

	assert.Len(t, content.Questions, 2)
	assert.Equal(t, 2, content.NumQuestions)
	assert.Equal(t, "Q1", content.Questions[0].Question)
}

func TestPromptModePrompt(t *testing.T) {
	svc := &QuizService{}
	prompt := svc.buildPromptModePrompt(GenerateRequest{
		Topic:        "Photosynthesis",
		Difficulty:   "Medium",
		QuestionType: model.QuestionTypeMCQ,
		NumQuestions: 7,
	})
	assert.Contains(t, prompt, "Photosynthesis")
	assert.Contains(t, prompt, "Medium")
	assert.Contains(t, prompt, "7")
	assert.Contains(t, prompt, model.QuestionTypeMCQ)
}

func TestDocumentModePromptTruncatesText(t *testing.T) {
	svc := &QuizService{}
	prompt := svc.buildDocumentModePrompt(GenerateRequest{
		Difficulty:   "Easy",
		QuestionType: model.QuestionTypeTrueFalse,
		NumQuestions: 3,
		DocumentText: strings.Repeat("x", 20000),
	})
	assert.Less(t, len(prompt), 13000)
	assert.Contains(t, prompt, "based strictly on the following material")
}

func TestMistakesModePromptListsConcepts(t *testing.T) {
	svc := &QuizService{}
	mistakes := []model.StudentMistake{
		{Topic: "Algebra", Concept: "Factoring", Frequency: 4, MistakeType: model.MistakeConceptual},
		{Topic: "Algebra", Concept: "Exponents", Frequency: 2, MistakeType: model.MistakeIncomplete},
	}
	prompt := svc.buildMistakesModePrompt(GenerateRequest{
		Difficulty:   "Medium",
		QuestionType: model.QuestionTypeShortAnswer,
		NumQuestions: 5,
	}, mistakes)

	assert.Contains(t, prompt, "Factoring")
	assert.Contains(t, prompt, "Exponents")
	assert.Contains(t, prompt, "missed 4 times")
	assert.Contains(t, prompt, model.MistakeIncomplete)
}

func TestGenerateShareCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := generateShareCode(8)
		require.NoError(t, err)
		assert.Len(t, code, 8)
		assert.Equal(t, strings.ToUpper(code), code)
		for _, ch := range code {
			assert.Contains(t, shareCodeAlphabet, string(ch))
		}
		seen[code] = true
	}
	// 50 draws from a 36^8 space should never collide.
	assert.Len(t, seen, 50)
}
