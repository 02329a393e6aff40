package repository

import (
	"errors"
	"time"

	"github.com/abdallahade1/ConceptCatch/internal/model"
	"gorm.io/gorm"
)

type ShareRepository struct {
	db *gorm.DB
}

func NewShareRepository(db *gorm.DB) *ShareRepository {
	return &ShareRepository{db: db}
}

func (r *ShareRepository) Create(share *model.QuizShare) error {
	return r.db.Create(share).Error
}

// GetActiveByCode resolves a share code to its quiz, ignoring revoked
// and expired links.
func (r *ShareRepository) GetActiveByCode(code string, now time.Time) (*model.QuizShare, error) {
	var share model.QuizShare
	err := r.db.Preload("Quiz").
		Where("share_code = ? AND is_active = ?", code, true).
		First(&share).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if share.ExpiresAt != nil && share.ExpiresAt.Before(now) {
		return nil, nil
	}
	return &share, nil
}

func (r *ShareRepository) CodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&model.QuizShare{}).
		Where("share_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *ShareRepository) Deactivate(id uint) error {
	return r.db.Model(&model.QuizShare{}).Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *ShareRepository) ListByQuiz(quizID uint) ([]model.QuizShare, error) {
	var shares []model.QuizShare
	err := r.db.Where("quiz_id = ?", quizID).Order("created_at DESC").Find(&shares).Error
	return shares, err
}
