package utils

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// DecimalInt parses a plain base-10 integer such as a query limit. Leading
// zeros are insignificant, and 0x/0o/0b prefixes are rejected.
func DecimalInt(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if s == "" {
		return 0, errors.Errorf("invalid number %q", raw)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, errors.Errorf("invalid number %q", raw)
		}
	}
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return 0, nil
	}
	if neg {
		s = "-" + s
	}
	return cast.ToIntE(s)
}
