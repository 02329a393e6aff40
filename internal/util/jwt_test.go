package util

import (
	"testing"
	"time"

	"github.com/abdallahade1/ConceptCatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{
		Name:  "Alex Chen",
		Email: "alex@conceptcatch.com",
		Role:  model.Student,
	}
	user.ID = 42

	token, err := GenerateJWT(user, "test-secret-test-secret-test-secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "test-secret-test-secret-test-secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, model.Student, claims.Role)
	assert.Equal(t, "alex@conceptcatch.com", claims.Email)
}

func TestJWTWrongSecret(t *testing.T) {
	user := &model.User{Email: "alex@conceptcatch.com", Role: model.Student}
	user.ID = 1

	token, err := GenerateJWT(user, "test-secret-test-secret-test-secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "a-completely-different-secret-value")
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	user := &model.User{Email: "alex@conceptcatch.com", Role: model.Student}
	user.ID = 1

	token, err := GenerateJWT(user, "test-secret-test-secret-test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, "test-secret-test-secret-test-secret")
	assert.Error(t, err)
}
