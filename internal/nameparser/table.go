package nameparser

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

//go:embed patterns/default.yaml
var embeddedPatterns embed.FS

const defaultPatternsFile = "patterns/default.yaml"

// Mode selects which pattern groups are tried.
type Mode int

const (
	ModeStandard Mode = iota
	ModeSports
	ModeAnime
)

// allModes is the order modes are tried in when no show is supplied.
var allModes = []Mode{ModeStandard, ModeSports, ModeAnime}

func (m Mode) String() string {
	switch m {
	case ModeStandard:
		return "standard"
	case ModeSports:
		return "sports"
	case ModeAnime:
		return "anime"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts a table file mode key into a Mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range allModes {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown pattern mode %q", s)
}

// Field is a semantic capture a pattern may expose.
type Field string

const (
	FieldSeriesName      Field = "series_name"
	FieldSeasonNum       Field = "season_num"
	FieldEpNum           Field = "ep_num"
	FieldExtraEpNum      Field = "extra_ep_num"
	FieldAbsEpNum        Field = "ep_ab_num"
	FieldExtraAbsEpNum   Field = "extra_ab_ep_num"
	FieldAirYear         Field = "air_year"
	FieldAirMonth        Field = "air_month"
	FieldAirDay          Field = "air_day"
	FieldSportsEventID   Field = "sports_event_id"
	FieldSportsEventName Field = "sports_event_name"
	FieldSportsAirDate   Field = "sports_air_date"
	FieldExtraInfo       Field = "extra_info"
	FieldReleaseGroup    Field = "release_group"
)

var knownFields = map[Field]bool{
	FieldSeriesName: true, FieldSeasonNum: true, FieldEpNum: true, FieldExtraEpNum: true,
	FieldAbsEpNum: true, FieldExtraAbsEpNum: true, FieldAirYear: true, FieldAirMonth: true,
	FieldAirDay: true, FieldSportsEventID: true, FieldSportsEventName: true,
	FieldSportsAirDate: true, FieldExtraInfo: true, FieldReleaseGroup: true,
}

// Pattern is one compiled table entry.
type Pattern struct {
	Group    string
	Name     string
	Position int

	fields map[Field]bool
	re     *regexp2.Regexp
}

// Has reports whether the pattern can capture f.
func (p *Pattern) Has(f Field) bool {
	return p.fields[f]
}

// Fields returns the pattern's capability set in sorted order.
func (p *Pattern) Fields() []Field {
	out := make([]Field, 0, len(p.fields))
	for f := range p.fields {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// match anchors at the start of s. A nil match with a nil error is a miss.
func (p *Pattern) match(s string) (*regexp2.Match, error) {
	m, err := p.re.FindStringMatch(s)
	if err != nil || m == nil {
		return nil, err
	}
	if m.Index != 0 {
		return nil, nil
	}
	return m, nil
}

// PatternRef records which pattern produced a candidate.
type PatternRef struct {
	Mode     Mode   `json:"-"`
	Group    string `json:"group"`
	Position int    `json:"position"`
	Name     string `json:"name"`
}

func (r PatternRef) String() string {
	return fmt.Sprintf("%d_%s", r.Position, r.Name)
}

// Table is an immutable, compiled pattern table.
type Table struct {
	modes  map[Mode][]*Pattern
	errors []error
}

// Patterns returns the ordered patterns tried for mode.
func (t *Table) Patterns(mode Mode) []*Pattern {
	return t.modes[mode]
}

// Errors returns the per-pattern errors collected while loading. The
// offending patterns are absent from the table.
func (t *Table) Errors() []error {
	return t.errors
}

// TableOptions configures pattern compilation.
type TableOptions struct {
	// MatchTimeout bounds a single pattern match; zero means no timeout.
	MatchTimeout time.Duration
}

type tableFile struct {
	Groups map[string][]patternEntry `yaml:"groups"`
	Modes  map[string][]string       `yaml:"modes"`
}

type patternEntry struct {
	Name    string   `yaml:"name"`
	Pattern string   `yaml:"pattern"`
	Fields  []string `yaml:"fields"`
}

// DefaultTable compiles the embedded pattern table.
func DefaultTable(opts TableOptions, logger zerolog.Logger) (*Table, error) {
	data, err := embeddedPatterns.ReadFile(defaultPatternsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded patterns: %w", err)
	}
	return LoadTable(data, opts, logger)
}

// LoadTableFile compiles a pattern table from a YAML file.
func LoadTableFile(path string, opts TableOptions, logger zerolog.Logger) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern file: %w", err)
	}
	return LoadTable(data, opts, logger)
}

// LoadTable compiles a YAML pattern table. Structural problems are fatal;
// a single bad pattern is logged, recorded in Errors and skipped.
func LoadTable(data []byte, opts TableOptions, logger zerolog.Logger) (*Table, error) {
	log := logger.With().Str("component", "patterns").Logger()

	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode pattern table: %w", err)
	}
	if len(file.Modes) == 0 {
		return nil, errors.New("pattern table defines no modes")
	}

	table := &Table{modes: make(map[Mode][]*Pattern)}
	compiled := make(map[string][]*Pattern, len(file.Groups))

	for group, entries := range file.Groups {
		for i, entry := range entries {
			p, err := compilePattern(group, i, entry, opts)
			if err != nil {
				log.Warn().Err(err).Str("group", group).Str("pattern", entry.Name).Msg("Skipping invalid pattern")
				table.errors = append(table.errors, err)
				continue
			}
			compiled[group] = append(compiled[group], p)
		}
	}

	for key, groups := range file.Modes {
		mode, err := ParseMode(key)
		if err != nil {
			return nil, err
		}
		for _, group := range groups {
			if _, ok := file.Groups[group]; !ok {
				return nil, fmt.Errorf("mode %s references unknown group %q", mode, group)
			}
			table.modes[mode] = append(table.modes[mode], compiled[group]...)
		}
		log.Debug().Str("mode", mode.String()).Int("patterns", len(table.modes[mode])).Msg("Loaded patterns")
	}

	return table, nil
}

func compilePattern(group string, position int, entry patternEntry, opts TableOptions) (*Pattern, error) {
	if entry.Name == "" {
		return nil, &PatternError{Group: group, Name: fmt.Sprintf("#%d", position), Err: errors.New("pattern has no name")}
	}

	re, err := regexp2.Compile(entry.Pattern, regexp2.IgnoreCase)
	if err != nil {
		return nil, &PatternError{Group: group, Name: entry.Name, Err: err}
	}
	if opts.MatchTimeout > 0 {
		re.MatchTimeout = opts.MatchTimeout
	}

	groups := make(map[Field]bool)
	for _, name := range re.GetGroupNames() {
		if f := Field(name); knownFields[f] {
			groups[f] = true
		}
	}

	fields := groups
	if len(entry.Fields) > 0 {
		fields = make(map[Field]bool, len(entry.Fields))
		for _, name := range entry.Fields {
			f := Field(name)
			if !knownFields[f] {
				return nil, &PatternError{Group: group, Name: entry.Name, Err: fmt.Errorf("unknown field %q", name)}
			}
			if !groups[f] {
				return nil, &PatternError{Group: group, Name: entry.Name, Err: fmt.Errorf("field %q has no capture group", name)}
			}
			fields[f] = true
		}
	}

	return &Pattern{
		Group:    group,
		Name:     entry.Name,
		Position: position,
		fields:   fields,
		re:       re,
	}, nil
}
