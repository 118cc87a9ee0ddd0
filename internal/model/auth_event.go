package model

import "time"

// Auth audit actions carried by AuthEvent.
const (
	AuthActionSignup      = "signup"
	AuthActionLogin       = "login"
	AuthActionLoginFailed = "login_failed"
)

// AuthEvent is an audit record of a signup or login attempt. Events are
// published to the broker by the auth service and persisted asynchronously.
type AuthEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	Username  string    `gorm:"size:64;not null;index" json:"username"`
	Action    string    `gorm:"size:16;not null;index" json:"action"`
	CreatedAt time.Time `json:"created_at"`
}
