package entity

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateOriginalURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "https url", raw: "https://example.com/x"},
		{name: "http url with port and query", raw: "http://localhost:8080/a?b=c"},
		{name: "ftp url", raw: "ftp://files.example.com/pub"},
		{name: "no scheme", raw: "not-a-url", wantErr: true},
		{name: "no host", raw: "https://", wantErr: true},
		{name: "relative path", raw: "/path/only", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "broken escape", raw: "http://exa mple.com/%zz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOriginalURL(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidURL)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateShortCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
	}{
		{name: "single char", code: "a"},
		{name: "mixed case and digits", code: "promo1"},
		{name: "twenty chars", code: "abcdefghij0123456789"},
		{name: "twenty one chars", code: "abcdefghij0123456789x", wantErr: true},
		{name: "empty", code: "", wantErr: true},
		{name: "dash", code: "pro-mo", wantErr: true},
		{name: "underscore", code: "pro_mo", wantErr: true},
		{name: "non ascii letter", code: "prömo", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateShortCode(tt.code)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCode)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("op: %w", ErrInvalidURL), KindInvalidURL},
		{fmt.Errorf("op: %w", ErrInvalidCode), KindInvalidCode},
		{fmt.Errorf("op: %w", ErrCodeTaken), KindCodeTaken},
		{fmt.Errorf("op: %w", ErrAllocationExhausted), KindAllocationExhausted},
		{fmt.Errorf("op: %w", ErrLinkNotFound), KindNotFound},
		{fmt.Errorf("op: %w", ErrStoreUnavailable), KindStoreUnavailable},
		{fmt.Errorf("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestClick_NormalizedReferer(t *testing.T) {
	assert.Equal(t, DirectReferer, Click{}.NormalizedReferer())
	assert.Equal(t, "  ", Click{Referer: "  "}.NormalizedReferer())
	assert.Equal(t, "google.com", Click{Referer: "google.com"}.NormalizedReferer())
}

func TestBuildShortURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/abc123", BuildShortURL("http://localhost:8080", "abc123"))
	assert.Equal(t, "https://byte.link/abc123", BuildShortURL("https://byte.link/", "abc123"))
}

func TestLink_Clone(t *testing.T) {
	link := &Link{
		ShortCode: "abc123",
		Clicks:    1,
		Analytics: []Click{{Timestamp: time.Unix(0, 0), Referer: "google.com"}},
	}

	c := link.Clone()
	c.Analytics[0].Referer = "bing.com"
	c.Analytics = append(c.Analytics, Click{})

	assert.Equal(t, "google.com", link.Analytics[0].Referer)
	assert.Len(t, link.Analytics, 1)
	assert.Nil(t, (*Link)(nil).Clone())
}
