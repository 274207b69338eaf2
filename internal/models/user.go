package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
	RoleGuest = "guest"
)

type User struct {
	gorm.Model  `json:"-"`
	ID          uint      `json:"id" gorm:"primaryKey"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Username    string    `json:"username" gorm:"uniqueIndex"`
	Email       string    `json:"email" gorm:"uniqueIndex"`
	Password    string    `json:"-"` // Store hashed password, ignore for JSON serialization
	Role        string    `json:"role" gorm:"type:varchar(20);default:'user'"`
	LastLogin   time.Time `json:"last_login"`
	FirebaseUID string    `json:"firebase_uid,omitempty" gorm:"index"` // Link to Firebase User UID for social sign-in
}

// UserCompact is the embedded author representation returned alongside
// questions and answers.
type UserCompact struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
	}
}

type SignupRequest struct {
	FirstName       string `json:"firstName" validate:"required,min=1,max=50"`
	LastName        string `json:"lastName" validate:"required,min=1,max=50"`
	Username        string `json:"username" validate:"required,min=3,max=30"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// FirebaseLoginRequest exchanges a Firebase ID token for a local session.
type FirebaseLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
