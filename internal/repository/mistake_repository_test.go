package repository

import (
	"testing"
	"time"

	"github.com/abdallahade1/ConceptCatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Quiz{},
		&model.QuizAttempt{},
		&model.QuestionResponse{},
		&model.StudentMistake{},
		&model.QuizShare{},
	))
	return db
}

func TestMistakeLogInsertsThenIncrements(t *testing.T) {
	repo := NewMistakeRepository(newTestDB(t))
	now := time.Now()

	require.NoError(t, repo.Log(1, "Algebra", "Factoring", model.MistakeConceptual, now))

	mistakes, err := repo.ListByStudent(1)
	require.NoError(t, err)
	require.Len(t, mistakes, 1)
	assert.Equal(t, 1, mistakes[0].Frequency)
	assert.Equal(t, model.MistakeConceptual, mistakes[0].MistakeType)

	later := now.Add(time.Hour)
	require.NoError(t, repo.Log(1, "Algebra", "Factoring", model.MistakeIncomplete, later))

	mistakes, err = repo.ListByStudent(1)
	require.NoError(t, err)
	require.Len(t, mistakes, 1)
	assert.Equal(t, 2, mistakes[0].Frequency)
	assert.Equal(t, model.MistakeIncomplete, mistakes[0].MistakeType)
	assert.WithinDuration(t, later, mistakes[0].LastOccurred, time.Second)
}

func TestMistakeLogSeparateKeys(t *testing.T) {
	repo := NewMistakeRepository(newTestDB(t))
	now := time.Now()

	require.NoError(t, repo.Log(1, "Algebra", "Factoring", model.MistakeConceptual, now))
	require.NoError(t, repo.Log(1, "Algebra", "Exponents", model.MistakeConceptual, now))
	require.NoError(t, repo.Log(2, "Algebra", "Factoring", model.MistakeConceptual, now))

	student1, err := repo.ListByStudent(1)
	require.NoError(t, err)
	assert.Len(t, student1, 2)

	student2, err := repo.ListByStudent(2)
	require.NoError(t, err)
	assert.Len(t, student2, 1)
}

func TestTopByStudentOrdersByFrequency(t *testing.T) {
	repo := NewMistakeRepository(newTestDB(t))
	now := time.Now()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Log(1, "Algebra", "Factoring", model.MistakeConceptual, now))
	}
	require.NoError(t, repo.Log(1, "Algebra", "Exponents", model.MistakeConceptual, now))

	top, err := repo.TopByStudent(1, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Factoring", top[0].Concept)
	assert.Equal(t, 3, top[0].Frequency)
}
