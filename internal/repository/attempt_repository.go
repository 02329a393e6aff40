package repository

import (
	"errors"

	"github.com/abdallahade1/ConceptCatch/internal/model"
	"gorm.io/gorm"
)

type AttemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

func (r *AttemptRepository) Create(attempt *model.QuizAttempt) error {
	return r.db.Create(attempt).Error
}

func (r *AttemptRepository) GetByID(id uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.db.Preload("Quiz").First(&attempt, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// Complete persists the graded attempt and its per-question responses
// in one transaction.
func (r *AttemptRepository) Complete(attempt *model.QuizAttempt, responses []model.QuestionResponse) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(attempt).Error; err != nil {
			return err
		}
		for i := range responses {
			responses[i].AttemptID = attempt.ID
		}
		if len(responses) > 0 {
			if err := tx.Create(&responses).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *AttemptRepository) ListByStudent(studentID uint, offset, limit int) ([]model.QuizAttempt, int64, error) {
	var attempts []model.QuizAttempt
	var total int64

	query := r.db.Model(&model.QuizAttempt{}).
		Where("student_id = ? AND completed_at IS NOT NULL", studentID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Preload("Quiz").Order("completed_at DESC").
		Offset(offset).Limit(limit).Find(&attempts).Error
	return attempts, total, err
}

func (r *AttemptRepository) ListByQuiz(quizID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.db.Preload("Student").
		Where("quiz_id = ? AND completed_at IS NOT NULL", quizID).
		Order("completed_at DESC").Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) ListByQuizAndStudent(quizID, studentID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.db.Where("quiz_id = ? AND student_id = ? AND completed_at IS NOT NULL", quizID, studentID).
		Order("completed_at DESC").Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) ListCompletedByStudent(studentID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.db.Preload("Quiz").
		Where("student_id = ? AND completed_at IS NOT NULL", studentID).
		Order("completed_at").Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) GetResponses(attemptID uint) ([]model.QuestionResponse, error) {
	var responses []model.QuestionResponse
	err := r.db.Where("attempt_id = ?", attemptID).Order("id").Find(&responses).Error
	return responses, err
}

func (r *AttemptRepository) CountCompletedByQuizzes(quizIDs []uint) (int64, error) {
	if len(quizIDs) == 0 {
		return 0, nil
	}
	var total int64
	err := r.db.Model(&model.QuizAttempt{}).
		Where("quiz_id IN ? AND completed_at IS NOT NULL", quizIDs).
		Count(&total).Error
	return total, err
}
