// internal/app/features/auth/handler.go
package auth

import (
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	sysauth "github.com/campuslink-io/campuslink/internal/app/system/auth"
	"github.com/campuslink-io/campuslink/internal/app/system/ratelimit"
)

// Handler is the feature-level entry point for registration and login.
type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	Tokens  *sysauth.Manager
	Limiter *ratelimit.LoginLimiter
	Signups *ratelimit.Limiter
}

// NewHandler constructs an auth handler bound to a DB, logger, and
// token manager.
func NewHandler(db *mongo.Database, logger *zap.Logger, tokens *sysauth.Manager) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		Tokens:  tokens,
		Limiter: ratelimit.NewLoginLimiter(),
		Signups: ratelimit.New(10, time.Minute),
	}
}
