package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abdallahade1/ConceptCatch/internal/repository"
	"github.com/abdallahade1/ConceptCatch/pkg/logger"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const analyticsCacheTTL = 5 * time.Minute

type AnalyticsService struct {
	attemptRepo *repository.AttemptRepository
	mistakeRepo *repository.MistakeRepository
	quizRepo    *repository.QuizRepository
	redis       *redis.Client
}

func NewAnalyticsService(
	attemptRepo *repository.AttemptRepository,
	mistakeRepo *repository.MistakeRepository,
	quizRepo *repository.QuizRepository,
	redisClient *redis.Client,
) *AnalyticsService {
	return &AnalyticsService{
		attemptRepo: attemptRepo,
		mistakeRepo: mistakeRepo,
		quizRepo:    quizRepo,
		redis:       redisClient,
	}
}

type ScorePoint struct {
	QuizTitle   string    `json:"quiz_title"`
	Percentage  float64   `json:"percentage"`
	CompletedAt time.Time `json:"completed_at"`
}

type ConceptStat struct {
	Topic       string    `json:"topic"`
	Concept     string    `json:"concept"`
	MistakeType string    `json:"mistake_type"`
	Frequency   int       `json:"frequency"`
	LastSeen    time.Time `json:"last_seen"`
}

type StudentAnalytics struct {
	TotalAttempts      int                `json:"total_attempts"`
	AveragePercentage  float64            `json:"average_percentage"`
	BestPercentage     float64            `json:"best_percentage"`
	AverageTimeSeconds float64            `json:"average_time_seconds"`
	PerformanceLevel   string             `json:"performance_level"`
	ScoreTrend         []ScorePoint       `json:"score_trend"`
	RecentAttempts     []ScorePoint       `json:"recent_attempts"`
	TopicPerformance   map[string]float64 `json:"topic_performance"`
	WeakConcepts       []ConceptStat      `json:"weak_concepts"`
	MistakesByType     map[string]int     `json:"mistakes_by_type"`
}

func studentAnalyticsKey(studentID uint) string {
	return fmt.Sprintf("analytics:student:%d", studentID)
}

// StudentAnalytics aggregates a student's attempt history and mistake
// book, served from Redis when a fresh copy is cached.
func (s *AnalyticsService) StudentAnalytics(ctx context.Context, studentID uint) (*StudentAnalytics, error) {
	key := studentAnalyticsKey(studentID)
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, key).Result(); err == nil {
			var out StudentAnalytics
			if json.Unmarshal([]byte(cached), &out) == nil {
				return &out, nil
			}
		}
	}

	attempts, err := s.attemptRepo.ListCompletedByStudent(studentID)
	if err != nil {
		return nil, err
	}
	mistakes, err := s.mistakeRepo.ListByStudent(studentID)
	if err != nil {
		return nil, err
	}

	out := &StudentAnalytics{
		TotalAttempts:    len(attempts),
		MistakesByType:   make(map[string]int),
		TopicPerformance: make(map[string]float64),
		ScoreTrend:       make([]ScorePoint, 0, len(attempts)),
		WeakConcepts:     make([]ConceptStat, 0, len(mistakes)),
	}

	var sum, timeSum float64
	topicSums := make(map[string]float64)
	topicCounts := make(map[string]int)
	for _, a := range attempts {
		sum += a.Percentage
		timeSum += float64(a.TimeTaken)
		if a.Percentage > out.BestPercentage {
			out.BestPercentage = a.Percentage
		}
		point := ScorePoint{Percentage: a.Percentage}
		if a.CompletedAt != nil {
			point.CompletedAt = *a.CompletedAt
		}
		if a.Quiz != nil {
			point.QuizTitle = a.Quiz.Title
			topicSums[a.Quiz.Topic] += a.Percentage
			topicCounts[a.Quiz.Topic]++
		}
		out.ScoreTrend = append(out.ScoreTrend, point)
	}
	if len(attempts) > 0 {
		out.AveragePercentage = sum / float64(len(attempts))
		out.AverageTimeSeconds = timeSum / float64(len(attempts))
	}
	for topic, total := range topicSums {
		out.TopicPerformance[topic] = total / float64(topicCounts[topic])
	}
	out.PerformanceLevel = PerformanceLevel(out.AveragePercentage)

	// Trend is oldest-first; the recent slice is the last five.
	recent := out.ScoreTrend
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	out.RecentAttempts = recent

	for i, m := range mistakes {
		if i >= 10 {
			break
		}
		out.WeakConcepts = append(out.WeakConcepts, ConceptStat{
			Topic:       m.Topic,
			Concept:     m.Concept,
			MistakeType: m.MistakeType,
			Frequency:   m.Frequency,
			LastSeen:    m.LastOccurred,
		})
	}
	for _, m := range mistakes {
		out.MistakesByType[m.MistakeType] += m.Frequency
	}

	if s.redis != nil {
		if data, err := json.Marshal(out); err == nil {
			if err := s.redis.Set(ctx, key, data, analyticsCacheTTL).Err(); err != nil {
				logger.Log.Warn("Failed to cache student analytics",
					zap.Uint("student_id", studentID), zap.Error(err))
			}
		}
	}

	return out, nil
}

// InvalidateStudent drops the cached analytics after a new submission.
func (s *AnalyticsService) InvalidateStudent(ctx context.Context, studentID uint) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, studentAnalyticsKey(studentID)).Err(); err != nil {
		logger.Log.Warn("Failed to invalidate analytics cache",
			zap.Uint("student_id", studentID), zap.Error(err))
	}
}

type QuizSummary struct {
	QuizID       uint    `json:"quiz_id"`
	Title        string  `json:"title"`
	Topic        string  `json:"topic"`
	IsPublished  bool    `json:"is_published"`
	AttemptCount int     `json:"attempt_count"`
	AverageScore float64 `json:"average_score"`
	MinScore     float64 `json:"min_score"`
	MaxScore     float64 `json:"max_score"`
}

type TeacherDashboard struct {
	TotalQuizzes     int           `json:"total_quizzes"`
	PublishedQuizzes int           `json:"published_quizzes"`
	TotalAttempts    int64         `json:"total_attempts"`
	UniqueStudents   int           `json:"unique_students"`
	ClassAverage     float64       `json:"class_average"`
	Quizzes          []QuizSummary `json:"quizzes"`
}

// TeacherDashboard summarizes every quiz the teacher created along
// with how students performed on it.
func (s *AnalyticsService) TeacherDashboard(ctx context.Context, teacherID uint) (*TeacherDashboard, error) {
	quizzes, _, err := s.quizRepo.ListByCreator(teacherID, 0, 1000)
	if err != nil {
		return nil, err
	}

	out := &TeacherDashboard{
		TotalQuizzes: len(quizzes),
		Quizzes:      make([]QuizSummary, 0, len(quizzes)),
	}

	quizIDs := make([]uint, 0, len(quizzes))
	students := make(map[uint]struct{})
	var classSum float64
	var classCount int
	for _, quiz := range quizzes {
		quizIDs = append(quizIDs, quiz.ID)
		if quiz.IsPublished {
			out.PublishedQuizzes++
		}

		attempts, err := s.attemptRepo.ListByQuiz(quiz.ID)
		if err != nil {
			return nil, err
		}
		summary := QuizSummary{
			QuizID:       quiz.ID,
			Title:        quiz.Title,
			Topic:        quiz.Topic,
			IsPublished:  quiz.IsPublished,
			AttemptCount: len(attempts),
		}
		var sum float64
		for i, a := range attempts {
			sum += a.Percentage
			students[a.StudentID] = struct{}{}
			if i == 0 || a.Percentage < summary.MinScore {
				summary.MinScore = a.Percentage
			}
			if a.Percentage > summary.MaxScore {
				summary.MaxScore = a.Percentage
			}
		}
		if len(attempts) > 0 {
			summary.AverageScore = sum / float64(len(attempts))
			classSum += sum
			classCount += len(attempts)
		}
		out.Quizzes = append(out.Quizzes, summary)
	}
	out.UniqueStudents = len(students)
	if classCount > 0 {
		out.ClassAverage = classSum / float64(classCount)
	}

	total, err := s.attemptRepo.CountCompletedByQuizzes(quizIDs)
	if err != nil {
		return nil, err
	}
	out.TotalAttempts = total

	return out, nil
}
