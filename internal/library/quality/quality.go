package quality

// Quality is the classification tag attached to every parsed release name.
type Quality string

const (
	Unknown      Quality = "unknown"
	SDTV         Quality = "sdtv"
	SDDVD        Quality = "sddvd"
	HDTV         Quality = "hdtv"
	RawHDTV      Quality = "rawhdtv"
	FullHDTV     Quality = "fullhdtv"
	HDWebDL      Quality = "hdwebdl"
	FullHDWebDL  Quality = "fullhdwebdl"
	HDBluRay     Quality = "hdbluray"
	FullHDBluRay Quality = "fullhdbluray"
	UHD4KWebDL   Quality = "uhd4kwebdl"
	UHD4KBluRay  Quality = "uhd4kbluray"
)

// Definition describes a quality tag.
type Definition struct {
	Quality    Quality `json:"quality"`
	Name       string  `json:"name"`
	Source     string  `json:"source"`     // "tv", "dvd", "webdl", "bluray"
	Resolution int     `json:"resolution"` // 480, 720, 1080, 2160
	Weight     int     `json:"weight"`     // Higher = better quality
}

// PredefinedQualities are the known quality tags ordered by weight.
var PredefinedQualities = []Definition{
	{Quality: Unknown, Name: "Unknown", Weight: 0},
	{Quality: SDTV, Name: "SD TV", Source: "tv", Resolution: 480, Weight: 1},
	{Quality: SDDVD, Name: "SD DVD", Source: "dvd", Resolution: 480, Weight: 2},
	{Quality: HDTV, Name: "HD TV", Source: "tv", Resolution: 720, Weight: 3},
	{Quality: RawHDTV, Name: "RawHD TV", Source: "tv", Resolution: 1080, Weight: 4},
	{Quality: FullHDTV, Name: "1080p HD TV", Source: "tv", Resolution: 1080, Weight: 5},
	{Quality: HDWebDL, Name: "720p WEB-DL", Source: "webdl", Resolution: 720, Weight: 6},
	{Quality: FullHDWebDL, Name: "1080p WEB-DL", Source: "webdl", Resolution: 1080, Weight: 7},
	{Quality: HDBluRay, Name: "720p BluRay", Source: "bluray", Resolution: 720, Weight: 8},
	{Quality: FullHDBluRay, Name: "1080p BluRay", Source: "bluray", Resolution: 1080, Weight: 9},
	{Quality: UHD4KWebDL, Name: "4K UHD WEB-DL", Source: "webdl", Resolution: 2160, Weight: 10},
	{Quality: UHD4KBluRay, Name: "4K UHD BluRay", Source: "bluray", Resolution: 2160, Weight: 11},
}

var definitionByQuality map[Quality]Definition

func init() {
	definitionByQuality = make(map[Quality]Definition, len(PredefinedQualities))
	for _, d := range PredefinedQualities {
		definitionByQuality[d.Quality] = d
	}
}

// Lookup returns the definition for a quality tag.
func Lookup(q Quality) (Definition, bool) {
	d, ok := definitionByQuality[q]
	return d, ok
}

func (q Quality) String() string {
	if q == "" {
		return string(Unknown)
	}
	return string(q)
}
