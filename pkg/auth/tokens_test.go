package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/preneur/storefront-api/pkg/models"
)

func testUser() *models.User {
	return &models.User{
		ID:    bson.NewObjectID(),
		Name:  "Test User",
		Email: "test@example.com",
		Role:  models.RoleUser,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	user := testUser()

	tokenString, err := GenerateAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := ParseAccessToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)

	subject, err := claims.Subject()
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	user := testUser()
	user.Role = models.RoleAdmin

	tokenString, err := GenerateRefreshToken(user)
	require.NoError(t, err)

	claims, err := ParseRefreshToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAccessTokenRejectedByRefreshParser(t *testing.T) {
	// Access and refresh tokens are signed with different secrets, so one
	// must never validate as the other.
	user := testUser()

	tokenString, err := GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = ParseRefreshToken(tokenString)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := ParseAccessToken("not-a-token")
	assert.Error(t, err)
}
