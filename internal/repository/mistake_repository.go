package repository

import (
	"errors"
	"time"

	"github.com/abdallahade1/ConceptCatch/internal/model"
	"gorm.io/gorm"
)

type MistakeRepository struct {
	db *gorm.DB
}

func NewMistakeRepository(db *gorm.DB) *MistakeRepository {
	return &MistakeRepository{db: db}
}

// Log records one mistake occurrence. An existing row for the same
// (student, topic, concept) key gets its frequency incremented; a new
// key inserts a fresh row with frequency 1.
func (r *MistakeRepository) Log(studentID uint, topic, concept, mistakeType string, at time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing model.StudentMistake
		err := tx.Where("student_id = ? AND topic = ? AND concept = ?",
			studentID, topic, concept).First(&existing).Error
		if err == nil {
			return tx.Model(&existing).Updates(map[string]interface{}{
				"frequency":     gorm.Expr("frequency + 1"),
				"mistake_type":  mistakeType,
				"last_occurred": at,
			}).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&model.StudentMistake{
			StudentID:    studentID,
			Topic:        topic,
			Concept:      concept,
			MistakeType:  mistakeType,
			Frequency:    1,
			LastOccurred: at,
		}).Error
	})
}

func (r *MistakeRepository) ListByStudent(studentID uint) ([]model.StudentMistake, error) {
	var mistakes []model.StudentMistake
	err := r.db.Where("student_id = ?", studentID).
		Order("frequency DESC, last_occurred DESC").Find(&mistakes).Error
	return mistakes, err
}

func (r *MistakeRepository) TopByStudent(studentID uint, limit int) ([]model.StudentMistake, error) {
	var mistakes []model.StudentMistake
	err := r.db.Where("student_id = ?", studentID).
		Order("frequency DESC, last_occurred DESC").Limit(limit).Find(&mistakes).Error
	return mistakes, err
}
