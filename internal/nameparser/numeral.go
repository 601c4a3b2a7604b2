package nameparser

import (
	"strconv"
	"strings"
)

var romanNumerals = []struct {
	numeral string
	value   int
}{
	{"M", 1000}, {"CM", 900}, {"D", 500}, {"CD", 400},
	{"C", 100}, {"XC", 90}, {"L", 50}, {"XL", 40},
	{"X", 10}, {"IX", 9}, {"V", 5}, {"IV", 4}, {"I", 1},
}

// ConvertNumber parses a base-10 integer or a Roman numeral. Anything else,
// including the empty string, yields 0: callers treat 0 as "no information".
func ConvertNumber(token string) int {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0
	}

	if n, err := strconv.Atoi(token); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}

	roman := strings.ToUpper(token)
	number, index := 0, 0
	for _, r := range romanNumerals {
		for strings.HasPrefix(roman[index:], r.numeral) {
			number += r.value
			index += len(r.numeral)
		}
	}
	return number
}
