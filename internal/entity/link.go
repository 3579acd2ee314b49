// Package entity defines the entities and errors used in the application.
// It includes the Link struct, which represents a shortened URL together with
// its click stream, the aggregated views computed from it, and the error
// definitions shared by every layer.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DirectReferer is the referer reported for clicks that arrived without one.
const DirectReferer = "Direct"

// Link represents a shortened URL.
type Link struct {
	ID          uuid.UUID // ID is the unique identifier of the link.
	OriginalURL string    // OriginalURL is the full URL that the short code resolves to.
	ShortCode   string    // ShortCode is the code embedded in the short URL.
	ShortURL    string    // ShortURL is the base URL joined with the short code.
	Clicks      int64     // Clicks is the number of recorded clicks, always len(Analytics).
	QRCode      string    // QRCode is the rendered QR artifact for ShortURL, empty if rendering failed.
	Analytics   []Click   // Analytics is the append-only click stream in arrival order.
	IsActive    bool      // IsActive is false once the link has been deactivated.
	CreatedAt   time.Time // CreatedAt is the timestamp when the link was created.
	UpdatedAt   time.Time // UpdatedAt is the timestamp when the link was last changed.
}

// Click is a single recorded resolution of a short link.
type Click struct {
	Timestamp time.Time `json:"timestamp"`
	UserAgent string    `json:"user_agent,omitempty"`
	IP        string    `json:"ip,omitempty"`
	Referer   string    `json:"referer,omitempty"`
}

// NormalizedReferer returns the click referer, or DirectReferer when it is missing.
func (c Click) NormalizedReferer() string {
	if c.Referer == "" {
		return DirectReferer
	}
	return c.Referer
}

// ClickResult is what the caller needs to perform a redirect after a click was recorded.
type ClickResult struct {
	OriginalURL string
	Clicks      int64
}

// LinkChanges describes a partial update of a link. Nil fields are left unchanged.
type LinkChanges struct {
	OriginalURL *string
	CustomCode  *string
}

// BuildShortURL joins the base URL and the short code.
func BuildShortURL(baseURL, shortCode string) string {
	return strings.TrimRight(baseURL, "/") + "/" + shortCode
}

// Clone returns a deep copy of the link so that callers never share the click slice.
func (l *Link) Clone() *Link {
	if l == nil {
		return nil
	}

	c := *l
	if l.Analytics != nil {
		c.Analytics = make([]Click, len(l.Analytics))
		copy(c.Analytics, l.Analytics)
	}

	return &c
}
