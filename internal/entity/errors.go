package entity

import "errors"

var (
	// ErrInvalidURL is returned when the original URL is not an absolute URL with scheme and host.
	ErrInvalidURL = errors.New("invalid url")
	// ErrInvalidCode is returned when a custom short code is not 1-20 alphanumeric characters.
	ErrInvalidCode = errors.New("invalid short code")
	// ErrCodeTaken is returned when a short code has already been reserved by any link, active or not.
	ErrCodeTaken = errors.New("short code taken")
	// ErrAllocationExhausted is returned when no free short code was found within the retry bound.
	ErrAllocationExhausted = errors.New("short code allocation exhausted")
	// ErrLinkNotFound is returned when a link cannot be found or is no longer active.
	ErrLinkNotFound = errors.New("link not found")
	// ErrStoreUnavailable is returned when the backing store cannot be reached.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Error kinds reported to API clients.
const (
	KindInvalidURL          = "invalid_url"
	KindInvalidCode         = "invalid_code"
	KindCodeTaken           = "code_taken"
	KindAllocationExhausted = "allocation_exhausted"
	KindNotFound            = "not_found"
	KindStoreUnavailable    = "store_unavailable"
	KindInternal            = "internal"
)

var kinds = []struct {
	err  error
	kind string
}{
	{ErrInvalidURL, KindInvalidURL},
	{ErrInvalidCode, KindInvalidCode},
	{ErrCodeTaken, KindCodeTaken},
	{ErrAllocationExhausted, KindAllocationExhausted},
	{ErrLinkNotFound, KindNotFound},
	{ErrStoreUnavailable, KindStoreUnavailable},
}

// KindOf returns the stable kind of err, or KindInternal if err is not one of the sentinel errors.
func KindOf(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
