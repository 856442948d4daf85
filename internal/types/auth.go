package types

import (
	"time"

	"github.com/google/uuid"
)

// TokenInfo represents validated token information
type TokenInfo struct {
	TokenID   string
	UserID    uuid.UUID
	Username  string
	Role      string
	ExpiresAt time.Time
	Valid     bool
}
