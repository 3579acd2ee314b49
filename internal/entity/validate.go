package entity

import (
	"fmt"
	"net/url"
	"regexp"
)

// MaxShortCodeLength is the longest short code a link may carry.
const MaxShortCodeLength = 20

var shortCodeRe = regexp.MustCompile(`^[A-Za-z0-9]{1,20}$`)

// ValidateOriginalURL reports ErrInvalidURL unless raw is an absolute URL with scheme and host.
func ValidateOriginalURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q must include scheme and host", ErrInvalidURL, raw)
	}
	return nil
}

// ValidateShortCode reports ErrInvalidCode unless code is 1-20 ASCII letters or digits.
func ValidateShortCode(code string) error {
	if !shortCodeRe.MatchString(code) {
		return fmt.Errorf("%w: %q must be 1-%d letters or digits", ErrInvalidCode, code, MaxShortCodeLength)
	}
	return nil
}
