package user

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Role is the platform-wide role of an account. Hackathon-scoped roles
// (captain, expert, ...) live on Participation instead.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleExpert     Role = "expert"
	RoleCaseHolder Role = "case_holder"
)

// ParseRole validates a raw role string against the closed enumeration.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin, RoleExpert, RoleCaseHolder:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User represents a registered account. Email is stored lowercased and
// passwords are bcrypt hashes, never plaintext.
type User struct {
	gorm.Model
	Username       string  `json:"username" gorm:"not null"`
	Email          string  `json:"email" gorm:"uniqueIndex;not null"`
	Password       string  `json:"-" gorm:"not null"`
	Age            *int    `json:"age"`
	FullName       string  `json:"full_name"`
	TelegramNick   *string `json:"telegram_nick" gorm:"uniqueIndex"`
	Skills         string  `json:"skills"`
	City           string  `json:"city"`
	LookingForTeam bool    `json:"looking_for_team" gorm:"default:false"`
	Role           Role    `json:"role" gorm:"type:varchar(32);not null;default:'user'"`
}

// RefreshToken stores issued refresh tokens so they can be revoked on logout.
type RefreshToken struct {
	gorm.Model
	UserID    uint      `json:"user_id" gorm:"index"`
	Token     string    `json:"token" gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
}

// UserResponse is the public view of a User.
type UserResponse struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Age            *int      `json:"age,omitempty"`
	FullName       string    `json:"full_name,omitempty"`
	TelegramNick   *string   `json:"telegram_nick,omitempty"`
	Skills         string    `json:"skills,omitempty"`
	City           string    `json:"city,omitempty"`
	LookingForTeam bool      `json:"looking_for_team"`
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToResponse strips credentials from a User.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Age:            u.Age,
		FullName:       u.FullName,
		TelegramNick:   u.TelegramNick,
		Skills:         u.Skills,
		City:           u.City,
		LookingForTeam: u.LookingForTeam,
		Role:           u.Role,
		CreatedAt:      u.CreatedAt,
	}
}

// Statistics is the admin dashboard aggregate.
type Statistics struct {
	TotalUsers     int64            `json:"totalUsers"`
	AdminUsers     int64            `json:"adminUsers"`
	RegularUsers   int64            `json:"regularUsers"`
	UsersThisMonth int64            `json:"usersThisMonth"`
	CitiesStats    map[string]int64 `json:"citiesStats"`
	LookingForTeam int64            `json:"lookingForTeam"`
}
