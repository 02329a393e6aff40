package service

import (
	"context"
	"fmt"
	"strings"
)

type FeedbackService struct {
	llm *LLMService
}

func NewFeedbackService(llm *LLMService) *FeedbackService {
	return &FeedbackService{llm: llm}
}

// Feedback is the structured tutoring response for one answered
// question.
type Feedback struct {
	Correctness     string   `json:"correctness"`
	MistakeType     string   `json:"mistake_type"`
	Explanation     string   `json:"explanation"`
	ReteachingSteps []string `json:"reteaching_steps"`
}

const feedbackSystemPrompt = `You are a patient tutor. Respond with a single JSON object only: ` +
	`{"correctness": "correct" | "partially_correct" | "incorrect", ` +
	`"mistake_type": "conceptual" | "computational" | "careless" | "incomplete" | "none", ` +
	`"explanation": string, "reteaching_steps": array of 2-4 short strings}. ` +
	`The explanation addresses the student directly and never shames them.`

// Generate produces tutoring feedback for a question/answer pair,
// independent of any stored quiz.
func (s *FeedbackService) Generate(ctx context.Context, question, correctAnswer, studentAnswer string) (*Feedback, error) {
	userPrompt := fmt.Sprintf(
		"Question: %s\nCorrect answer: %s\nStudent answer: %s",
		question, correctAnswer, studentAnswer)

	var fb Feedback
	if err := s.llm.ChatJSON(ctx, "feedback", feedbackSystemPrompt, userPrompt, &fb); err != nil {
		return nil, err
	}

	if fb.Correctness == "" {
		if strings.EqualFold(strings.TrimSpace(studentAnswer), strings.TrimSpace(correctAnswer)) {
			fb.Correctness = "correct"
		} else {
			fb.Correctness = "incorrect"
		}
	}
	return &fb, nil
}
