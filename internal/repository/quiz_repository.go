package repository

import (
	"errors"

	"github.com/abdallahade1/ConceptCatch/internal/model"
	"gorm.io/gorm"
)

type QuizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.db.Create(quiz).Error
}

func (r *QuizRepository) GetByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.db.Preload("Creator").First(&quiz, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) Update(quiz *model.Quiz) error {
	return r.db.Save(quiz).Error
}

func (r *QuizRepository) ListByCreator(creatorID uint, offset, limit int) ([]model.Quiz, int64, error) {
	var quizzes []model.Quiz
	var total int64

	query := r.db.Model(&model.Quiz{}).Where("created_by = ?", creatorID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&quizzes).Error
	return quizzes, total, err
}

func (r *QuizRepository) ListPublished(offset, limit int) ([]model.Quiz, int64, error) {
	var quizzes []model.Quiz
	var total int64

	query := r.db.Model(&model.Quiz{}).Where("is_published = ?", true)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Preload("Creator").Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&quizzes).Error
	return quizzes, total, err
}

func (r *QuizRepository) Delete(id uint) error {
	return r.db.Delete(&model.Quiz{}, id).Error
}
