package dto

import (
	"time"

	dom "github.com/alex-rutan/express-messagely/internal/domain"
)

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the JSON body for POST /auth/register.
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=1,max=120"`
	Password  string `json:"password" binding:"required,min=1"`
	FirstName string `json:"first_name" binding:"required,max=120"`
	LastName  string `json:"last_name" binding:"required,max=120"`
	Phone     string `json:"phone" binding:"max=40"`
}

// UserResponse is the full profile. The password hash is deliberately
// absent; no response shape carries it.
type UserResponse struct {
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       string    `json:"phone"`
	JoinedAt    time.Time `json:"joined_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}

// UserSummaryResponse is the reduced projection for GET /users.
type UserSummaryResponse struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserProfileResponse is the projection embedded in message responses.
type UserProfileResponse struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// ListUsersResponse wraps GET /users.
type ListUsersResponse struct {
	Users []UserSummaryResponse `json:"users"`
}

// GetUserResponse wraps GET /users/:username.
type GetUserResponse struct {
	User UserResponse `json:"user"`
}

func UserToResponse(u dom.User) UserResponse {
	return UserResponse{
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		JoinedAt:    u.JoinedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

func ProfileToResponse(p dom.UserProfile) UserProfileResponse {
	return UserProfileResponse{
		Username:  p.Username,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
	}
}

func SummariesToResponses(list []dom.UserSummary) []UserSummaryResponse {
	out := make([]UserSummaryResponse, len(list))
	for i, s := range list {
		out[i] = UserSummaryResponse{Username: s.Username, FirstName: s.FirstName, LastName: s.LastName}
	}
	return out
}
