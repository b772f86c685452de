// internal/domain/models/contenttypes.go
package models

// Canonical content type identifiers.
//
// These values are stored in Content.Type and are used as stable keys by
// clients deciding how to present an item (embed player, document viewer).
const (
	ContentTypeVideo = "video"
	ContentTypePDF   = "pdf"
	ContentTypePPT   = "ppt"
	ContentTypeQuiz  = "quiz"
)

// ContentTypes is the full set of allowed content type identifiers.
var ContentTypes = []string{
	ContentTypeVideo,
	ContentTypePDF,
	ContentTypePPT,
	ContentTypeQuiz,
}

// DefaultContentType is used when no specific type is provided.
const DefaultContentType = ContentTypeVideo

// IsValidContentType reports whether t is one of ContentTypes.
func IsValidContentType(t string) bool {
	for _, v := range ContentTypes {
		if v == t {
			return true
		}
	}
	return false
}
