package repository

import (
	"testing"
	"time"

	"github.com/abdallahade1/ConceptCatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func seedQuiz(t *testing.T, repo *QuizRepository) *model.Quiz {
	t.Helper()
	quiz := &model.Quiz{
		Title:     "Shared Quiz",
		Topic:     "Biology",
		CreatedBy: 1,
		Data:      datatypes.JSON([]byte(`{"title":"Shared Quiz","questions":[]}`)),
	}
	require.NoError(t, repo.Create(quiz))
	return quiz
}

func TestGetActiveByCode(t *testing.T) {
	db := newTestDB(t)
	quizRepo := NewQuizRepository(db)
	shareRepo := NewShareRepository(db)
	quiz := seedQuiz(t, quizRepo)

	share := &model.QuizShare{
		QuizID:    quiz.ID,
		SharedBy:  1,
		ShareCode: "ABCD1234",
		IsActive:  true,
	}
	require.NoError(t, shareRepo.Create(share))

	found, err := shareRepo.GetActiveByCode("ABCD1234", time.Now())
	require.NoError(t, err)
	require.NotNil(t, found)
	require.NotNil(t, found.Quiz)
	assert.Equal(t, "Shared Quiz", found.Quiz.Title)

	missing, err := shareRepo.GetActiveByCode("NOPE0000", time.Now())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetActiveByCodeExpired(t *testing.T) {
	db := newTestDB(t)
	quizRepo := NewQuizRepository(db)
	shareRepo := NewShareRepository(db)
	quiz := seedQuiz(t, quizRepo)

	past := time.Now().Add(-time.Hour)
	share := &model.QuizShare{
		QuizID:    quiz.ID,
		SharedBy:  1,
		ShareCode: "EXPIRED1",
		IsActive:  true,
		ExpiresAt: &past,
	}
	require.NoError(t, shareRepo.Create(share))

	found, err := shareRepo.GetActiveByCode("EXPIRED1", time.Now())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestGetActiveByCodeRevoked(t *testing.T) {
	db := newTestDB(t)
	quizRepo := NewQuizRepository(db)
	shareRepo := NewShareRepository(db)
	quiz := seedQuiz(t, quizRepo)

	share := &model.QuizShare{
		QuizID:    quiz.ID,
		SharedBy:  1,
		ShareCode: "REVOKED1",
		IsActive:  true,
	}
	require.NoError(t, shareRepo.Create(share))
	require.NoError(t, shareRepo.Deactivate(share.ID))

	found, err := shareRepo.GetActiveByCode("REVOKED1", time.Now())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestCodeExists(t *testing.T) {
	db := newTestDB(t)
	quizRepo := NewQuizRepository(db)
	shareRepo := NewShareRepository(db)
	quiz := seedQuiz(t, quizRepo)

	require.NoError(t, shareRepo.Create(&model.QuizShare{
		QuizID:    quiz.ID,
		SharedBy:  1,
		ShareCode: "TAKEN123",
		IsActive:  true,
	}))

	exists, err := shareRepo.CodeExists("TAKEN123")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = shareRepo.CodeExists("FREE1234")
	require.NoError(t, err)
	assert.False(t, exists)
}
