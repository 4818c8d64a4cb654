// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Upload constants
const (
	// MaxUploadSize is the maximum accepted size of an uploaded image
	MaxUploadSize = 20 << 20

	// MaxMultipartMemory is the part of a multipart form kept in memory
	MaxMultipartMemory = 32 << 20

	// MaxBlobFetchSize caps how much is read back from a remote blob URL
	MaxBlobFetchSize = 50 << 20

	// MaxModelReplySize caps the text accepted back from a model
	MaxModelReplySize = 1 << 20
)

// Field length constants
const (
	// MaxNameLength is the maximum length of group and member names, in runes
	MaxNameLength = 255

	// MaxDescriptionLength is the maximum length of a member description, in runes
	MaxDescriptionLength = 2000

	// MaxPromptLength is the maximum length of a question sent with an ask, in runes
	MaxPromptLength = 4000
)

// Image processing constants
const (
	// DefaultContentType is assumed when a data URL carries no MIME type
	DefaultContentType = "image/png"

	// ResizeJPEGQuality is the JPEG quality used after downscaling
	ResizeJPEGQuality = 85
)
