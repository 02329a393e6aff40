package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abdallahade1/ConceptCatch/internal/config"
	"github.com/abdallahade1/ConceptCatch/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestPerformanceLevel(t *testing.T) {
	cases := []struct {
		percentage float64
		want       string
	}{
		{100, "Excellent"},
		{90, "Excellent"},
		{89.9, "Good"},
		{80, "Good"},
		{79, "Satisfactory"},
		{70, "Satisfactory"},
		{65, "Needs Improvement"},
		{60, "Needs Improvement"},
		{59.9, "Poor"},
		{0, "Poor"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, PerformanceLevel(tc.percentage), "percentage %v", tc.percentage)
	}
}

func TestExtractConcept(t *testing.T) {
	assert.Equal(t, "Calculation", ExtractConcept("Calculate the derivative of x^2"))
	assert.Equal(t, "Calculation", ExtractConcept("Compute the sum of the series"))
	assert.Equal(t, "Definition", ExtractConcept("What is photosynthesis?"))
	assert.Equal(t, "Definition", ExtractConcept("Define entropy"))
	assert.Equal(t, "Explanation", ExtractConcept("Explain how osmosis works"))
	assert.Equal(t, "Explanation", ExtractConcept("Describe the water cycle"))
	assert.Equal(t, "Comparison", ExtractConcept("Compare mitosis and meiosis"))
	assert.Equal(t, "General Concept", ExtractConcept("Which planet is closest to the sun?"))
}

func TestClassifyMistake(t *testing.T) {
	assert.Equal(t, model.MistakeNoResponse, ClassifyMistake(model.QuestionTypeMCQ, ""))
	assert.Equal(t, model.MistakeNoResponse, ClassifyMistake(model.QuestionTypeEssay, "   "))
	assert.Equal(t, model.MistakeConceptual, ClassifyMistake(model.QuestionTypeMCQ, "B"))
	assert.Equal(t, model.MistakeConceptual, ClassifyMistake(model.QuestionTypeTrueFalse, "True"))
	assert.Equal(t, model.MistakeIncomplete, ClassifyMistake(model.QuestionTypeShortAnswer, "two words"))
	assert.Equal(t, model.MistakeConceptual, ClassifyMistake(model.QuestionTypeShortAnswer, "a full sentence answer"))
	assert.Equal(t, model.MistakeIncomplete, ClassifyMistake(model.QuestionTypeEssay, "idk"))
}

func TestGradeQuestionExactMatch(t *testing.T) {
	svc := &EvaluationService{}
	q := model.QuizQuestion{
		ID:            "q1",
		Question:      "Is the sky blue?",
		CorrectAnswer: "True",
		Points:        2,
	}

	r := svc.gradeQuestion(nil, model.QuestionTypeTrueFalse, q, "true")
	assert.True(t, r.IsCorrect)
	assert.Equal(t, 2.0, r.PointsEarned)

	r = svc.gradeQuestion(nil, model.QuestionTypeTrueFalse, q, "False")
	assert.False(t, r.IsCorrect)
	assert.Equal(t, 0.0, r.PointsEarned)
	assert.Contains(t, r.Feedback, "True")
}

func TestGradeFreeTextPartialCredit(t *testing.T) {
	_, llm := newFakeLLM(t, `{"correctness":"partially correct","mistake_type":"incomplete","explanation":"You named the process but not the gradient."}`)
	svc := &EvaluationService{llm: llm}
	q := model.QuizQuestion{
		ID:            "q1",
		Question:      "Explain osmosis",
		CorrectAnswer: "Water moves across a membrane toward higher solute concentration",
		Points:        4,
	}

	r := svc.gradeQuestion(context.Background(), model.QuestionTypeShortAnswer, q, "water moves through a membrane")
	assert.False(t, r.IsCorrect)
	assert.Equal(t, 2.0, r.PointsEarned)
	assert.Equal(t, "You named the process but not the gradient.", r.Feedback)
}

func TestGradeFreeTextRightEarnsFullPoints(t *testing.T) {
	_, llm := newFakeLLM(t, `{"correctness":"right","mistake_type":"none","explanation":"Correct and complete."}`)
	svc := &EvaluationService{llm: llm}
	q := model.QuizQuestion{ID: "q1", Question: "Define entropy", CorrectAnswer: "A measure of disorder", Points: 3}

	r := svc.gradeQuestion(context.Background(), model.QuestionTypeShortAnswer, q, "entropy measures disorder in a system")
	assert.True(t, r.IsCorrect)
	assert.Equal(t, 3.0, r.PointsEarned)
}

func TestGradeFreeTextFallsBackOnLLMFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	llm := NewLLMService(config.AIConfig{BaseURL: server.URL, APIKey: "k", Model: "m"})
	svc := &EvaluationService{llm: llm}
	q := model.QuizQuestion{ID: "q1", Question: "Define entropy", CorrectAnswer: "A measure of disorder", Points: 3}

	r := svc.gradeQuestion(context.Background(), model.QuestionTypeShortAnswer, q, "a measure of DISORDER")
	assert.True(t, r.IsCorrect)
	assert.Equal(t, 3.0, r.PointsEarned)

	r = svc.gradeQuestion(context.Background(), model.QuestionTypeShortAnswer, q, "no idea")
	assert.False(t, r.IsCorrect)
	assert.Equal(t, 0.0, r.PointsEarned)
	assert.Contains(t, r.Feedback, "A measure of disorder")
}

func TestQuizContentMaxPoints(t *testing.T) {
	content := model.QuizContent{
		Questions: []model.QuizQuestion{
			{Points: 2},
			{Points: 0},
			{Points: 1.5},
		},
	}
	assert.Equal(t, 4.5, content.MaxPoints())
}

func TestStrippedRemovesAnswers(t *testing.T) {
	content := model.QuizContent{
		Questions: []model.QuizQuestion{
			{ID: "a", CorrectAnswer: "42", Explanation: "because"},
		},
	}
	stripped := content.Stripped()
	assert.Empty(t, stripped.Questions[0].CorrectAnswer)
	assert.Empty(t, stripped.Questions[0].Explanation)
	assert.Equal(t, "42", content.Questions[0].CorrectAnswer)
}
