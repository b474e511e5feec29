package router

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/preneur/storefront-api/pkg/auth"
	"github.com/preneur/storefront-api/pkg/global"
	"github.com/preneur/storefront-api/pkg/models"
	"github.com/preneur/storefront-api/pkg/mongo"
)

func Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to process password", nil))
		return
	}

	role := models.RoleUser
	if req.Role == models.RoleAdmin {
		role = models.RoleAdmin
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     role,
	}

	created, err := mongo.CreateUser(c.Request.Context(), user)
	if err != nil {
		if errors.Is(err, mongo.ErrEmailTaken) {
			c.JSON(http.StatusConflict, global.ErrorResponse("Email already registered", []global.ValidationError{
				{Field: "email", Message: "This email is already in use", Code: "duplicate_email"},
			}))
			return
		}
		log.Printf("Error creating user: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to register", nil))
		return
	}

	c.JSON(http.StatusCreated, global.SuccessResponse(created.Public()))
}

func Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	user, err := mongo.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		log.Printf("Error fetching user: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to log in", nil))
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		// Same response for unknown email and wrong password.
		c.JSON(http.StatusUnauthorized, global.ErrorResponse("Invalid email or password", nil))
		return
	}

	issueTokens(c, user)
}

// RefreshToken rotates the refresh token: the presented token must match the
// one stored for the user, and a new pair is issued in its place.
func RefreshToken(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "refreshToken", Message: "refreshToken is required", Code: "required"},
		}))
		return
	}

	claims, err := auth.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, global.ErrorResponse("Invalid refresh token", nil))
		return
	}

	userID, err := claims.Subject()
	if err != nil {
		c.JSON(http.StatusUnauthorized, global.ErrorResponse("Invalid refresh token", nil))
		return
	}

	user, err := mongo.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		log.Printf("Error fetching user: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to refresh token", nil))
		return
	}
	if user == nil || user.RefreshToken != req.RefreshToken {
		// A reused or revoked token gets no new pair.
		c.JSON(http.StatusUnauthorized, global.ErrorResponse("Invalid refresh token", nil))
		return
	}

	issueTokens(c, user)
}

func Logout(c *gin.Context) {
	if err := mongo.SetRefreshToken(c.Request.Context(), currentUserID(c), ""); err != nil {
		log.Printf("Error clearing refresh token: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to log out", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"message": "Logged out"}))
}

func issueTokens(c *gin.Context, user *models.User) {
	accessToken, err := auth.GenerateAccessToken(user)
	if err != nil {
		log.Printf("Error signing access token: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to issue tokens", nil))
		return
	}
	refreshToken, err := auth.GenerateRefreshToken(user)
	if err != nil {
		log.Printf("Error signing refresh token: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to issue tokens", nil))
		return
	}

	if err := mongo.SetRefreshToken(c.Request.Context(), user.ID, refreshToken); err != nil {
		log.Printf("Error storing refresh token: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to issue tokens", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(map[string]interface{}{
		"user":         user.Public(),
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	}))
}
