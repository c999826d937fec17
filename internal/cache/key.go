// Package cache holds helpers shared by the extraction cache implementations.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

const keyPrefix = "extract:"

// Key derives the cache key for one extraction request from the file content,
// its MIME type and an optional spreadsheet preview.
func Key(file []byte, mimeType, preview string) string {
	fileSum := sha256.Sum256(file)
	key := keyPrefix + hex.EncodeToString(fileSum[:]) + ":" + mimeType
	if preview != "" {
		previewSum := sha256.Sum256([]byte(preview))
		key += ":" + hex.EncodeToString(previewSum[:8])
	}
	return key
}
