package analytics

import (
	"cmp"
	"slices"
	"time"

	"github.com/vadimbarashkov/bytelink/internal/entity"
)

const (
	// DashboardListLimit is the length of the recent and top link lists.
	DashboardListLimit = 5
	// DashboardWindow is how far back the dashboard time series reaches.
	DashboardWindow = 7 * day
)

// Dashboard computes cross-link aggregates over the active links.
//
// ClicksOverTime only holds days that saw at least one click, unlike the
// zero-filled per-link rollup produced by ClicksByDay.
func Dashboard(links []*entity.Link, now time.Time) entity.DashboardSummary {
	active := make([]*entity.Link, 0, len(links))
	for _, l := range links {
		if l != nil && l.IsActive {
			active = append(active, l)
		}
	}

	summary := entity.DashboardSummary{
		TotalURLs: int64(len(active)),
	}
	for _, l := range active {
		summary.TotalClicks += l.Clicks
	}

	byCreated := slices.Clone(active)
	slices.SortStableFunc(byCreated, newestFirst)
	summary.RecentURLs = overviews(byCreated, DashboardListLimit)

	byClicks := slices.Clone(active)
	slices.SortStableFunc(byClicks, func(a, b *entity.Link) int {
		if c := cmp.Compare(b.Clicks, a.Clicks); c != 0 {
			return c
		}
		return newestFirst(a, b)
	})
	summary.TopURLs = overviews(byClicks, DashboardListLimit)

	summary.ClicksOverTime = clicksOverTime(active, now.Add(-DashboardWindow))

	return summary
}

func newestFirst(a, b *entity.Link) int {
	return b.CreatedAt.Compare(a.CreatedAt)
}

func overviews(links []*entity.Link, limit int) []entity.LinkOverview {
	if len(links) > limit {
		links = links[:limit]
	}

	out := make([]entity.LinkOverview, 0, len(links))
	for _, l := range links {
		out = append(out, l.Overview())
	}
	return out
}

func clicksOverTime(links []*entity.Link, since time.Time) []entity.DailyClicks {
	counts := make(map[string]int64)
	for _, l := range links {
		for _, c := range l.Analytics {
			if c.Timestamp.Before(since) {
				continue
			}
			counts[c.Timestamp.UTC().Format(dateLayout)]++
		}
	}

	series := make([]entity.DailyClicks, 0, len(counts))
	for date, n := range counts {
		series = append(series, entity.DailyClicks{Date: date, Clicks: n})
	}
	slices.SortFunc(series, func(a, b entity.DailyClicks) int {
		return cmp.Compare(a.Date, b.Date)
	})

	return series
}
