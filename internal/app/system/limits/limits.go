// internal/app/system/limits/limits.go
package limits

// Request body size limits for various features.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBodySize is the maximum size for JSON request bodies.
	MaxJSONBodySize = 1 << 20 // 1 MB

	// MaxAvatarUploadSize is the maximum size for avatar image uploads.
	// The uploads feature reads this as the multipart memory ceiling too.
	MaxAvatarUploadSize = 2 << 20 // 2 MB
)
