package middleware

import (
	"context"
	"kaudio/config"
	"kaudio/internal/database"
	. "kaudio/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// Authenticator resolves a bearer token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*User, error)
}

type Middleware struct {
	DB     database.DB
	Config config.Config
	auth   Authenticator
	log    logger.Logger
}

func New(db database.DB, config config.Config, auth Authenticator) Middleware {
	return Middleware{
		DB:     db,
		Config: config,
		auth:   auth,
		log:    logger.New("middleware"),
	}
}
