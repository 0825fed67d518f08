package intake

import (
	"strconv"
	"strings"
	"time"
)

// PhoneDigits is the length of a complete phone number.
const PhoneDigits = 10

const dateLayout = "2006-01-02"

// SanitizePhone keeps the digits of s, up to PhoneDigits of them.
// "98a7-6543210XYZ" becomes "9876543210".
func SanitizePhone(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		sb.WriteRune(r)
		if sb.Len() == PhoneDigits {
			break
		}
	}
	return sb.String()
}

var clockLayouts = []string{"3:04 PM", "3:04PM", "15:04"}

// parseClock accepts 12-hour times with an AM/PM marker and plain 24-hour times.
func parseClock(s string) (time.Time, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// To24Hour converts a display time such as "2:30 PM" to "14:30".
func To24Hour(s string) (string, error) {
	t, ok := parseClock(s)
	if !ok {
		return "", ErrTimeInvalid
	}
	return t.Format("15:04"), nil
}

// To12Hour converts "14:30" or "2:30 PM" to the display form "2:30 PM".
func To12Hour(s string) (string, error) {
	t, ok := parseClock(s)
	if !ok {
		return "", ErrTimeInvalid
	}
	return t.Format("3:04 PM"), nil
}

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// normalizeDate trims a timestamp such as "1990-04-02T00:00:00Z" to its date.
func normalizeDate(s string) string {
	if len(s) > len(dateLayout) && s[len(dateLayout)] == 'T' {
		return s[:len(dateLayout)]
	}
	return s
}

// parseDuration returns the minutes in s when s is a positive integer.
func parseDuration(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
