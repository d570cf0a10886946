// internal/app/features/messages/handler.go
package messages

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/campuslink-io/campuslink/internal/app/features/presence"
)

// Handler is the feature-level entry point for direct messages. The
// hub is optional; without it sends still persist, they just are not
// pushed live.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	Presence *presence.Hub
}

// NewHandler constructs a messages handler bound to a DB, logger, and
// presence hub.
func NewHandler(db *mongo.Database, logger *zap.Logger, hub *presence.Hub) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		Presence: hub,
	}
}
