package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/preneur/storefront-api/pkg/global"
	"github.com/preneur/storefront-api/pkg/models"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the user identity inside both access and refresh tokens.
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Subject returns the user ID as an ObjectID, or an error when the token
// was minted with a malformed subject.
func (c *Claims) Subject() (bson.ObjectID, error) {
	return bson.ObjectIDFromHex(c.UserID)
}

func GenerateAccessToken(user *models.User) (string, error) {
	return signToken(user, global.GetJWTAccessSecret(), global.GetAccessTokenTTL())
}

func GenerateRefreshToken(user *models.User) (string, error) {
	return signToken(user, global.GetJWTRefreshSecret(), global.GetRefreshTokenTTL())
}

func ParseAccessToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, global.GetJWTAccessSecret())
}

func ParseRefreshToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, global.GetJWTRefreshSecret())
}

func signToken(user *models.User, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func parseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
