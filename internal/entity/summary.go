package entity

import (
	"time"

	"github.com/google/uuid"
)

// AnalyticsSummary holds the windowed statistics of a single link.
type AnalyticsSummary struct {
	Total       int64
	Last24Hours int64
	Last7Days   int64
	Last30Days  int64
	TopReferers []RefererCount
	ClicksByDay []DailyClicks
}

// RefererCount is the number of clicks that came from one referer.
type RefererCount struct {
	Referer string
	Count   int64
}

// DailyClicks is the number of clicks on one UTC calendar day formatted as YYYY-MM-DD.
type DailyClicks struct {
	Date   string
	Clicks int64
}

// LinkOverview is the projection of a link used by listings and the dashboard.
type LinkOverview struct {
	ID          uuid.UUID
	ShortCode   string
	ShortURL    string
	OriginalURL string
	Clicks      int64
	CreatedAt   time.Time
}

// DashboardSummary holds aggregates across all active links.
type DashboardSummary struct {
	TotalURLs      int64
	TotalClicks    int64
	RecentURLs     []LinkOverview
	TopURLs        []LinkOverview
	ClicksOverTime []DailyClicks
}

// Pagination describes where a page sits in the full listing.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	TotalURLs   int64
	HasNext     bool
	HasPrev     bool
}

// LinkPage is one page of active links.
type LinkPage struct {
	Links      []*Link
	Pagination Pagination
}

// Overview projects the link without its click stream.
func (l *Link) Overview() LinkOverview {
	return LinkOverview{
		ID:          l.ID,
		ShortCode:   l.ShortCode,
		ShortURL:    l.ShortURL,
		OriginalURL: l.OriginalURL,
		Clicks:      l.Clicks,
		CreatedAt:   l.CreatedAt,
	}
}

// LinkStats pairs a link with the statistics computed from its click stream.
type LinkStats struct {
	Link    *Link
	Summary AnalyticsSummary
}
