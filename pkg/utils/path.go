package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"path/filepath"
	"strings"
)

// HashPath creates a SHA256 hash of a document path.
// This is useful for creating consistent, safe keys for Redis.
func HashPath(path string) string {
	h := sha256.New()
	h.Write([]byte(path))
	return hex.EncodeToString(h.Sum(nil))
}

// BaseName returns the file name without its extension.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// OutputDir is <dir of document>/<outputDirName>/<base name>.
func OutputDir(documentPath, outputDirName string) string {
	return filepath.Join(filepath.Dir(documentPath), outputDirName, BaseName(documentPath))
}

// SafeElementID reports whether id can be used as a file name inside the
// output directory as is.
func SafeElementID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, "/\\\x00") && filepath.Base(id) == id
}

// OutputPath is where the image of one element of a document is written.
func OutputPath(documentPath, outputDirName, elementID string) string {
	return filepath.Join(OutputDir(documentPath, outputDirName), elementID+".png")
}

// FileURL converts an absolute path to a file:// URL.
func FileURL(absPath string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}
	if !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path // windows drive letters
	}
	return u.String()
}

// HasAnyPrefix reports whether id starts with one of prefixes.
func HasAnyPrefix(id string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(id, p) {
			return true
		}
	}
	return false
}
