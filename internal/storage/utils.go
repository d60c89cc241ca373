package storage

import (
	"path/filepath"
	"time"
)

// cycleLayout names cycle folders so lexical order matches time order.
const cycleLayout = "2006-01-02_15-04-05"

// CycleFolder generates the store-relative folder path for one update
// cycle's artifacts. Format: STATION/2006-01-02_15-04-05 (UTC).
func CycleFolder(station string, timestamp time.Time) string {
	return filepath.Join(station, timestamp.UTC().Format(cycleLayout))
}

// ValidCycleFolder reports whether name parses as a cycle folder name.
func ValidCycleFolder(name string) bool {
	_, err := time.Parse(cycleLayout, name)
	return err == nil
}

// GetContentType maps an archived file's extension to its MIME type.
func GetContentType(filename string) string {
	switch filepath.Ext(filename) {
	case ".json":
		return "application/json"
	case ".html":
		return "text/html"
	case ".css":
		return "text/css"
	case ".txt":
		return "text/plain"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
