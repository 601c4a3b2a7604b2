package quality

import (
	"regexp"
	"strings"

	"github.com/moistari/rls"
)

const (
	sourceTV     = "tv"
	sourceSDTV   = "sdtv"
	sourceDVD    = "dvd"
	sourceWeb    = "webdl"
	sourceBluray = "bluray"
)

type pattern struct {
	value string
	re    *regexp.Regexp
}

// Ordered most specific first; the first hit wins.
var (
	resolutionPatterns = []pattern{
		{"2160", regexp.MustCompile(`(?i)(2160p|\b4k\b|\buhd\b)`)},
		{"1080", regexp.MustCompile(`(?i)1080[pi]`)},
		{"720", regexp.MustCompile(`(?i)720p`)},
		{"480", regexp.MustCompile(`(?i)(480p|576p)`)},
	}

	sourcePatterns = []pattern{
		{sourceBluray, regexp.MustCompile(`(?i)(blu-?ray|bdrip|brrip|bdremux|hddvd)`)},
		{sourceWeb, regexp.MustCompile(`(?i)(web-?dl|webdl|webrip|web-?cap|\bweb\b|\bamzn\b|\bnf\b)`)},
		{sourceTV, regexp.MustCompile(`(?i)hdtv`)},
		{sourceDVD, regexp.MustCompile(`(?i)(dvdrip|dvd-?r|\bdvd\b|bdscr)`)},
		{sourceSDTV, regexp.MustCompile(`(?i)(sdtv|pdtv|dsr|tvrip)`)},
	}

	rawHDPattern = regexp.MustCompile(`(?i)(1080i|mpeg-?2)`)
)

// Classifier derives a quality tag from a release name.
type Classifier struct{}

// NewClassifier creates a new quality classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns the quality tag for name. Anime releases frequently carry
// a resolution but no source token, so a bare resolution is accepted for them.
func (c *Classifier) Classify(name string, anime bool) Quality {
	if strings.TrimSpace(name) == "" {
		return Unknown
	}

	release := rls.ParseString(name)
	resolution := detectResolution(release.Resolution, name)
	source := detectSource(release.Source, name)

	switch source {
	case sourceWeb:
		switch resolution {
		case "2160":
			return UHD4KWebDL
		case "1080":
			return FullHDWebDL
		case "720":
			return HDWebDL
		default:
			return SDTV
		}
	case sourceBluray:
		switch resolution {
		case "2160":
			return UHD4KBluRay
		case "1080":
			return FullHDBluRay
		case "720":
			return HDBluRay
		default:
			return SDDVD
		}
	case sourceTV:
		switch {
		case resolution == "1080" && rawHDPattern.MatchString(name):
			return RawHDTV
		case resolution == "1080":
			return FullHDTV
		case resolution == "720":
			return HDTV
		default:
			return SDTV
		}
	case sourceDVD:
		return SDDVD
	case sourceSDTV:
		return SDTV
	}

	if rawHDPattern.MatchString(name) && resolution == "1080" {
		return RawHDTV
	}

	if anime {
		switch resolution {
		case "1080":
			return FullHDTV
		case "720":
			return HDTV
		case "480":
			return SDTV
		}
	}

	return Unknown
}

// detectResolution prefers the tokenizer's answer and falls back to the
// resolution patterns over the whole name.
func detectResolution(parsed, name string) string {
	if parsed != "" {
		for _, p := range resolutionPatterns {
			if strings.Contains(parsed, p.value) {
				return p.value
			}
		}
		if strings.EqualFold(parsed, "4k") {
			return "2160"
		}
	}
	return firstMatch(resolutionPatterns, name)
}

func detectSource(parsed, name string) string {
	if parsed != "" {
		lower := strings.ToLower(parsed)
		switch {
		case strings.Contains(lower, "blu") || strings.HasPrefix(lower, "bd"):
			return sourceBluray
		case strings.Contains(lower, "web"):
			return sourceWeb
		case strings.Contains(lower, "hdtv"):
			return sourceTV
		case strings.Contains(lower, "dvd"):
			return sourceDVD
		case strings.Contains(lower, "sdtv"), strings.Contains(lower, "pdtv"), strings.Contains(lower, "dsr"):
			return sourceSDTV
		}
	}
	return firstMatch(sourcePatterns, name)
}

func firstMatch(patterns []pattern, text string) string {
	for _, p := range patterns {
		if p.re.MatchString(text) {
			return p.value
		}
	}
	return ""
}
