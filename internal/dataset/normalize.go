package dataset

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// timestampLayout is the only accepted raw timestamp shape: six fractional
// digits, no timezone.
const timestampLayout = "2006-01-02 15:04:05.000000"

// ToISO8601 converts a raw sensor timestamp to ISO 8601. A zero fractional
// part is dropped from the output; otherwise six digits are kept.
func ToISO8601(s string) (string, error) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return "", fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}

	if t.Nanosecond() == 0 {
		return t.Format("2006-01-02T15:04:05"), nil
	}

	return t.Format("2006-01-02T15:04:05.000000"), nil
}

// StripDigits removes every decimal digit from s.
func StripDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}

		return r
	}, s)
}
