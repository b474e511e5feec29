package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account identity. PurchasedProducts is the set of product IDs
// the user has ever ordered, maintained by the order placement flow and
// consumed by the recommendation engine.
type User struct {
	ID                bson.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name              string          `json:"name" bson:"name"`
	Email             string          `json:"email" bson:"email"`
	Password          string          `json:"-" bson:"password"`
	Role              string          `json:"role" bson:"role"`
	PurchasedProducts []bson.ObjectID `json:"purchased_products" bson:"purchased_products"`
	RefreshToken      string          `json:"-" bson:"refresh_token"`
	CreatedAt         time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" bson:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SetTimestamps sets created_at on first call and always updates updated_at
func (u *User) SetTimestamps() {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// PublicUser is the caller-visible projection of a User.
type PublicUser struct {
	ID    bson.ObjectID `json:"id"`
	Name  string        `json:"name"`
	Email string        `json:"email"`
	Role  string        `json:"role"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
