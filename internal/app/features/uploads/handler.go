// internal/app/features/uploads/handler.go
package uploads

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler stores uploaded files on local disk and serves their public
// URLs. LocalPath is the directory files land in; LocalURL is the
// public prefix the file server mounts them under.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	LocalPath string
	LocalURL  string
	MaxBytes  int64
}

// NewHandler constructs an uploads handler.
func NewHandler(db *mongo.Database, logger *zap.Logger, localPath, localURL string, maxBytes int64) *Handler {
	return &Handler{
		DB:        db,
		Log:       logger,
		LocalPath: localPath,
		LocalURL:  localURL,
		MaxBytes:  maxBytes,
	}
}
