package scanner

import (
	"path/filepath"
	"regexp"
	"strings"
)

// VideoExtensions contains supported video file extensions.
var VideoExtensions = map[string]bool{
	".mkv":  true,
	".mp4":  true,
	".avi":  true,
	".m4v":  true,
	".ts":   true,
	".wmv":  true,
	".mov":  true,
	".webm": true,
	".flv":  true,
	".mpg":  true,
	".mpeg": true,
	".m2ts": true,
	".vob":  true,
	".iso":  true,
}

// sampleRe matches "sample" as a separate token, optionally numbered
// ("sample2"), so titles that merely contain the word are kept.
var sampleRe = regexp.MustCompile(`(?i)(^|[\W_])(sample\d*|proof)([\W_]|$)`)

// IsVideoFile checks if a filename has a video extension.
func IsVideoFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return VideoExtensions[ext]
}

// IsSampleFile checks if a filename indicates it's a sample file.
func IsSampleFile(filename string) bool {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	return sampleRe.MatchString(name)
}
