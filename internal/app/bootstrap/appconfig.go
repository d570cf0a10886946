// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS). AppConfig is everything specific to CampusLink:
// database connection details, token signing, and upload storage.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max driver connection pool size
	MongoMinPoolSize uint64 // Min driver connection pool size

	// Token configuration
	JWTSecret string        // HMAC secret for signing bearer tokens
	JWTExpiry time.Duration // Token lifetime (default 7 days)

	// Upload storage configuration
	UploadLocalPath string // Directory uploaded avatars land in
	UploadLocalURL  string // URL prefix the file server mounts uploads under
	UploadMaxBytes  int64  // Per-upload size cap

	// AdminEmail, when set, promotes (or keeps) that user as admin on
	// startup so a fresh deployment has a way in.
	AdminEmail string
}
