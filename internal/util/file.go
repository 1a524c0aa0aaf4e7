package util

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

var documentExtSet = map[string]struct{}{
	".doc":  {},
	".docx": {},
	".md":   {},
	".txt":  {},
}

// IsDocumentExt reports whether the extension is accepted for upload.
func IsDocumentExt(ext string) bool {
	_, ok := documentExtSet[strings.ToLower(ext)]
	return ok
}

func GetFileExt(fileName string) string {
	return strings.ToLower(filepath.Ext(fileName))
}

func IsDocument(fileName string) bool {
	return IsDocumentExt(GetFileExt(fileName))
}

// Checksum returns the sha256 hex digest of the file content.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
