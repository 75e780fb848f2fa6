package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return s
}

func TestParse(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	tok := signToken(t, jwt.MapClaims{
		"user_id": 42,
		"email":   "ada@example.com",
		"role":    "Admin",
		"exp":     exp.Unix(),
	})

	id, err := Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "42", id.UserID)
	assert.Equal(t, "ada@example.com", id.Email)
	assert.Equal(t, RoleAdmin, id.Role)
	assert.True(t, id.IsAdmin())
	assert.True(t, id.CanManage())
	assert.True(t, id.ExpiresAt.Equal(exp))
	assert.False(t, id.Expired(exp.Add(-time.Minute)))
	assert.True(t, id.Expired(exp.Add(time.Minute)))
}

func TestParse_Student(t *testing.T) {
	id, err := Parse(signToken(t, jwt.MapClaims{"user_id": "7", "role": "student"}))
	require.NoError(t, err)
	assert.Equal(t, "7", id.UserID)
	assert.False(t, id.IsAdmin())
	assert.False(t, id.CanManage())
	assert.False(t, id.Expired(time.Now()))
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("  ")
	require.ErrorIs(t, err, ErrNoToken)

	_, err = Parse("not-a-jwt")
	require.Error(t, err)
}
