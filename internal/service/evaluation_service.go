package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abdallahade1/ConceptCatch/internal/model"
	"github.com/abdallahade1/ConceptCatch/internal/repository"
	"github.com/abdallahade1/ConceptCatch/internal/util"
	"github.com/abdallahade1/ConceptCatch/pkg/logger"
	"go.uber.org/zap"
)

type EvaluationService struct {
	quizService *QuizService
	attemptRepo *repository.AttemptRepository
	mistakeRepo *repository.MistakeRepository
	llm         *LLMService
	analytics   *AnalyticsService
}

func NewEvaluationService(
	quizService *QuizService,
	attemptRepo *repository.AttemptRepository,
	mistakeRepo *repository.MistakeRepository,
	llm *LLMService,
	analytics *AnalyticsService,
) *EvaluationService {
	return &EvaluationService{
		quizService: quizService,
		attemptRepo: attemptRepo,
		mistakeRepo: mistakeRepo,
		llm:         llm,
		analytics:   analytics,
	}
}

// StartAttempt opens an attempt and hands back the quiz with answers
// stripped. Unpublished quizzes can only be attempted by their creator.
func (s *EvaluationService) StartAttempt(quizID, studentID uint) (*model.QuizAttempt, *model.QuizContent, error) {
	quiz, content, err := s.quizService.GetByID(quizID)
	if err != nil {
		return nil, nil, err
	}
	if !quiz.IsPublished && quiz.CreatedBy != studentID {
		return nil, nil, util.ErrPermissionDenied
	}

	attempt := &model.QuizAttempt{
		StudentID: studentID,
		QuizID:    quizID,
		MaxScore:  content.MaxPoints(),
		StartedAt: time.Now(),
	}
	if err := s.attemptRepo.Create(attempt); err != nil {
		return nil, nil, err
	}

	stripped := content.Stripped()
	return attempt, &stripped, nil
}

// QuestionResult is the graded outcome for one question as returned to
// the client.
type QuestionResult struct {
	QuestionID    string  `json:"question_id"`
	Question      string  `json:"question"`
	StudentAnswer string  `json:"student_answer"`
	CorrectAnswer string  `json:"correct_answer"`
	IsCorrect     bool    `json:"is_correct"`
	PointsEarned  float64 `json:"points_earned"`
	MaxPoints     float64 `json:"max_points"`
	Feedback      string  `json:"feedback"`
	Explanation   string  `json:"explanation"`
}

type AttemptResult struct {
	AttemptID        uint             `json:"attempt_id"`
	Score            float64          `json:"score"`
	MaxScore         float64          `json:"max_score"`
	Percentage       float64          `json:"percentage"`
	PerformanceLevel string           `json:"performance_level"`
	TimeTaken        int              `json:"time_taken_seconds"`
	Results          []QuestionResult `json:"results"`
}

// SubmitAttempt grades the responses, persists the attempt with its
// per-question breakdown, and logs every miss into the mistake book.
// timeTaken is the client-reported duration in seconds; when zero the
// wall time since StartAttempt is used.
func (s *EvaluationService) SubmitAttempt(ctx context.Context, attemptID, studentID uint, answers map[string]string, timeTaken int) (*AttemptResult, error) {
	attempt, err := s.attemptRepo.GetByID(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		return nil, util.ErrAttemptNotFound
	}
	if attempt.StudentID != studentID {
		return nil, util.ErrPermissionDenied
	}
	if attempt.CompletedAt != nil {
		return nil, fmt.Errorf("attempt %d already submitted", attemptID)
	}

	_, content, err := s.quizService.GetByID(attempt.QuizID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	results := make([]QuestionResult, 0, len(content.Questions))
	responses := make([]model.QuestionResponse, 0, len(content.Questions))
	var earned, total float64

	for _, q := range content.Questions {
		answer := strings.TrimSpace(answers[q.ID])
		r := s.gradeQuestion(ctx, content.QuestionType, q, answer)
		earned += r.PointsEarned
		total += r.MaxPoints
		results = append(results, r)

		responses = append(responses, model.QuestionResponse{
			QuestionID:    q.ID,
			QuestionText:  q.Question,
			StudentAnswer: answer,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     r.IsCorrect,
			PointsEarned:  r.PointsEarned,
			MaxPoints:     r.MaxPoints,
			Feedback:      r.Feedback,
		})

		if !r.IsCorrect {
			concept := q.Concept
			if concept == "" {
				concept = ExtractConcept(q.Question)
			}
			mistakeType := ClassifyMistake(content.QuestionType, answer)
			if err := s.mistakeRepo.Log(studentID, content.Topic, concept, mistakeType, now); err != nil {
				logger.Log.Warn("Failed to log mistake",
					zap.Uint("student_id", studentID),
					zap.String("concept", concept),
					zap.Error(err))
			}
		}
	}

	percentage := 0.0
	if total > 0 {
		percentage = earned / total * 100
	}

	attempt.Score = earned
	attempt.MaxScore = total
	attempt.Percentage = percentage
	attempt.CompletedAt = &now
	attempt.TimeTaken = timeTaken
	if attempt.TimeTaken <= 0 {
		attempt.TimeTaken = int(now.Sub(attempt.StartedAt).Seconds())
	}

	if err := s.attemptRepo.Complete(attempt, responses); err != nil {
		return nil, err
	}

	s.analytics.InvalidateStudent(ctx, studentID)

	return &AttemptResult{
		AttemptID:        attempt.ID,
		Score:            earned,
		MaxScore:         total,
		Percentage:       percentage,
		PerformanceLevel: PerformanceLevel(percentage),
		TimeTaken:        attempt.TimeTaken,
		Results:          results,
	}, nil
}

type freeTextGrade struct {
	Correctness string `json:"correctness"`
	MistakeType string `json:"mistake_type"`
	Explanation string `json:"explanation"`
}

const gradingSystemPrompt = `You grade student answers. Respond with a single JSON object only: ` +
	`{"correctness": "right" | "partially correct" | "wrong", ` +
	`"mistake_type": "conceptual" | "computational" | "careless" | "incomplete" | "none", ` +
	`"explanation": string}. Keep the explanation to two sentences that tell the ` +
	`student what was right and what was missing.`

func (s *EvaluationService) gradeQuestion(ctx context.Context, questionType string, q model.QuizQuestion, answer string) QuestionResult {
	r := QuestionResult{
		QuestionID:    q.ID,
		Question:      q.Question,
		StudentAnswer: answer,
		CorrectAnswer: q.CorrectAnswer,
		MaxPoints:     q.MaxPoints(),
		Explanation:   q.Explanation,
	}

	switch questionType {
	case model.QuestionTypeMCQ, model.QuestionTypeTrueFalse:
		r.IsCorrect = strings.EqualFold(answer, strings.TrimSpace(q.CorrectAnswer))
		if r.IsCorrect {
			r.PointsEarned = r.MaxPoints
			r.Feedback = "Correct."
		} else {
			r.Feedback = fmt.Sprintf("The correct answer is: %s", q.CorrectAnswer)
		}
	default:
		s.gradeFreeText(ctx, q, answer, &r)
	}
	return r
}

// gradeFreeText asks the model to score short-answer and essay
// responses, with a literal comparison as the fallback when the model
// call fails.
func (s *EvaluationService) gradeFreeText(ctx context.Context, q model.QuizQuestion, answer string, r *QuestionResult) {
	if answer == "" {
		r.Feedback = "No answer was provided."
		return
	}

	userPrompt := fmt.Sprintf(
		"Question: %s\nReference answer: %s\nStudent answer: %s",
		q.Question, q.CorrectAnswer, answer)

	var grade freeTextGrade
	err := s.llm.ChatJSON(ctx, "answer_grading", gradingSystemPrompt, userPrompt, &grade)
	if err != nil {
		logger.Log.Warn("LLM grading failed, falling back to literal comparison",
			zap.String("question_id", q.ID), zap.Error(err))
		r.IsCorrect = strings.EqualFold(answer, strings.TrimSpace(q.CorrectAnswer))
		if r.IsCorrect {
			r.PointsEarned = r.MaxPoints
			r.Feedback = "Correct."
		} else {
			r.Feedback = fmt.Sprintf("Compare your answer with the reference: %s", q.CorrectAnswer)
		}
		return
	}

	switch strings.ToLower(strings.TrimSpace(grade.Correctness)) {
	case "right", "correct":
		r.IsCorrect = true
		r.PointsEarned = r.MaxPoints
	case "partially correct", "partially_correct", "partial":
		r.PointsEarned = r.MaxPoints / 2
	}
	r.Feedback = grade.Explanation
}

// PerformanceLevel buckets a percentage score into the label shown on
// result screens.
func PerformanceLevel(percentage float64) string {
	switch {
	case percentage >= 90:
		return "Excellent"
	case percentage >= 80:
		return "Good"
	case percentage >= 70:
		return "Satisfactory"
	case percentage >= 60:
		return "Needs Improvement"
	default:
		return "Poor"
	}
}

// ExtractConcept guesses the concept category from the question stem
// when the generator did not label one.
func ExtractConcept(question string) string {
	lower := strings.ToLower(question)
	switch {
	case strings.Contains(lower, "calculate") || strings.Contains(lower, "compute"):
		return "Calculation"
	case strings.Contains(lower, "define") || strings.Contains(lower, "what is"):
		return "Definition"
	case strings.Contains(lower, "explain") || strings.Contains(lower, "describe"):
		return "Explanation"
	case strings.Contains(lower, "compare") || strings.Contains(lower, "contrast"):
		return "Comparison"
	default:
		return "General Concept"
	}
}

// ClassifyMistake picks the mistake bucket for an incorrect answer.
func ClassifyMistake(questionType, answer string) string {
	if strings.TrimSpace(answer) == "" {
		return model.MistakeNoResponse
	}
	switch questionType {
	case model.QuestionTypeMCQ, model.QuestionTypeTrueFalse:
		return model.MistakeConceptual
	default:
		if len(strings.Fields(answer)) < 3 {
			return model.MistakeIncomplete
		}
		return model.MistakeConceptual
	}
}

func (s *EvaluationService) GetAttempt(attemptID, userID uint, role model.UserRole) (*model.QuizAttempt, []model.QuestionResponse, error) {
	attempt, err := s.attemptRepo.GetByID(attemptID)
	if err != nil {
		return nil, nil, err
	}
	if attempt == nil {
		return nil, nil, util.ErrAttemptNotFound
	}
	if attempt.StudentID != userID && role != model.Teacher && role != model.Admin {
		return nil, nil, util.ErrPermissionDenied
	}
	responses, err := s.attemptRepo.GetResponses(attemptID)
	if err != nil {
		return nil, nil, err
	}
	return attempt, responses, nil
}

func (s *EvaluationService) ListAttempts(studentID uint, page, pageSize int) ([]model.QuizAttempt, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.attemptRepo.ListByStudent(studentID, (page-1)*pageSize, pageSize)
}

// ListQuizAttempts returns every attempt on a quiz the caller owns, or
// just the caller's own attempts otherwise.
func (s *EvaluationService) ListQuizAttempts(quizID, userID uint) ([]model.QuizAttempt, error) {
	quiz, _, err := s.quizService.GetByID(quizID)
	if err != nil {
		return nil, err
	}
	if quiz.CreatedBy == userID {
		return s.attemptRepo.ListByQuiz(quizID)
	}
	return s.attemptRepo.ListByQuizAndStudent(quizID, userID)
}
