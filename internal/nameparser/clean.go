package nameparser

import (
	"strings"

	"github.com/dlclark/regexp2"
)

type substitution struct {
	re   *regexp2.Regexp
	repl string
}

// Applied in order; each rule relies on the separators the previous ones left behind.
var seriesNameRules = []substitution{
	{regexp2.MustCompile(`(\D)\.(?!\s)(\D)`, regexp2.None), "$1 $2"},
	// a dot before a trailing year is a separator, not a decimal point
	{regexp2.MustCompile(`(\d)\.(\d{4})`, regexp2.None), "$1 $2"},
	{regexp2.MustCompile(`(\D)\.(?!\s)`, regexp2.None), "$1 "},
	{regexp2.MustCompile(`\.(?!\s)(\D)`, regexp2.None), " $1"},
	{regexp2.MustCompile(`_`, regexp2.None), " "},
	{regexp2.MustCompile(`-$`, regexp2.None), ""},
	{regexp2.MustCompile(`^\[.*\]`, regexp2.None), ""},
}

// CleanSeriesName turns a captured series name into display form: dot and
// underscore separators become spaces, decimal numbers keep their dot, a
// trailing hyphen and a leading bracketed tag are dropped.
//
//	CleanSeriesName("an.example.1.0.test") == "an example 1.0 test"
//	CleanSeriesName("an_example_1.0_test") == "an example 1.0 test"
func CleanSeriesName(name string) string {
	for _, rule := range seriesNameRules {
		replaced, err := rule.re.Replace(name, rule.repl, -1, -1)
		if err != nil {
			// only a match timeout can fail here; keep what we have
			continue
		}
		name = replaced
	}
	return strings.TrimSpace(name)
}
