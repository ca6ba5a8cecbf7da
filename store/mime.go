package store

import (
	"encoding/base64"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// mimeTypes maps lowercase file suffixes to MIME types. Anything else is
// treated as plain text.
var mimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".pdf":  "application/pdf",
	".json": "application/json",
}

// MIMEType classifies a file purely by its suffix, case-insensitively.
// Unknown suffixes (and files without one) map to text/plain.
func MIMEType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if mt, ok := mimeTypes[ext]; ok {
		return mt
	}
	return "text/plain"
}

// isBinaryMIME reports whether content of this type is always transported as
// base64 rather than attempted as text.
func isBinaryMIME(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/") || mimeType == "application/pdf"
}

// EncodeContent returns the wire representation of file bytes along with the
// encoding used ("text" or "base64"). Image and PDF content is always
// base64; everything else is returned as text when it is valid UTF-8 and
// falls back to base64 otherwise.
func EncodeContent(data []byte, mimeType string) (content string, encoding string) {
	if isBinaryMIME(mimeType) || !utf8.Valid(data) {
		return base64.StdEncoding.EncodeToString(data), "base64"
	}
	return string(data), "text"
}
