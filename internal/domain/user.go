package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the profile shape needed for rendering messages and
// notifications. Identity itself lives with the external auth provider.
type User struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	AvatarURL     string    `json:"avatar_url"`
	WalletAddress string    `json:"wallet_address"`
	CreatedAt     time.Time `json:"created_at"`
}

// DisplayName falls back to a placeholder for profiles without a name.
func (u User) DisplayName() string {
	if u.Name == "" {
		return "Anonymous"
	}
	return u.Name
}
