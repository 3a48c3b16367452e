package domain

import "time"

// User is the domain entity for a registered account.
// PasswordHash never leaves the service layer.
type User struct {
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	JoinedAt     time.Time
	LastLoginAt  time.Time
}

// UserProfile is the projection attached to messages.
type UserProfile struct {
	Username  string
	FirstName string
	LastName  string
	Phone     string
}

// UserSummary is the reduced projection for directory browsing.
type UserSummary struct {
	Username  string
	FirstName string
	LastName  string
}

// Profile returns the message-enrichment projection of the user.
func (u User) Profile() UserProfile {
	return UserProfile{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}
