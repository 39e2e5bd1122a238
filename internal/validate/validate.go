package validate

import (
	"regexp"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	rePhone = regexp.MustCompile(`^[0-9]{10}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reCode  = regexp.MustCompile(`^[0-9]{6}$`)
	reCcy   = regexp.MustCompile(`^[A-Z]{3}$`)
)

// Email trims and lower-cases s, then checks the format.
func Email(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Phone accepts exactly ten digits.
func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePhone.MatchString(s)
}

// ID validates a simple resource identifier (uuid or seeded slug).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Name validates a display name: at least two characters after trimming.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	n := len([]rune(s))
	if n < 2 || n > 100 {
		return "", false
	}
	return s, true
}

const (
	MinPasswordLen = 6
	// MaxPasswordLen is bcrypt's input limit in bytes.
	MaxPasswordLen = 72
)

// Password enforces the length bounds for new passwords.
func Password(s string) bool {
	l := len(s)
	return l >= MinPasswordLen && l <= MaxPasswordLen
}

func Code(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reCode.MatchString(s)
}

// Currency accepts an ISO 4217 style code, upper-casing it first.
func Currency(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	return s, reCcy.MatchString(s)
}

// Text trims s and rejects empty or over-long input.
func Text(s string, max int) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > max {
		return "", false
	}
	return s, true
}
