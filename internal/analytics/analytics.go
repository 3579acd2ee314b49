// Package analytics turns link click streams into the statistics shown to users.
// Every function here is pure: the reference time is always passed in, the
// wall clock is never read.
package analytics

import (
	"cmp"
	"slices"
	"time"

	"github.com/vadimbarashkov/bytelink/internal/entity"
)

const (
	day = 24 * time.Hour

	// TopReferersLimit is the number of referers kept in a summary.
	TopReferersLimit = 5
	// RollupDays is the number of calendar days in a per-link rollup.
	RollupDays = 7

	dateLayout = "2006-01-02"
)

// Summarize computes the windowed statistics of link relative to now.
func Summarize(link *entity.Link, now time.Time) entity.AnalyticsSummary {
	return entity.AnalyticsSummary{
		Total:       link.Clicks,
		Last24Hours: countSince(link.Analytics, now.Add(-day)),
		Last7Days:   countSince(link.Analytics, now.Add(-7*day)),
		Last30Days:  countSince(link.Analytics, now.Add(-30*day)),
		TopReferers: TopReferers(link.Analytics, TopReferersLimit),
		ClicksByDay: ClicksByDay(link.Analytics, now, RollupDays),
	}
}

func countSince(clicks []entity.Click, since time.Time) int64 {
	var n int64
	for _, c := range clicks {
		if !c.Timestamp.Before(since) {
			n++
		}
	}
	return n
}

// TopReferers groups clicks by normalized referer and returns at most limit
// groups ordered by count descending. Groups with equal counts keep the order
// in which their referer first appeared.
func TopReferers(clicks []entity.Click, limit int) []entity.RefererCount {
	index := make(map[string]int)
	groups := make([]entity.RefererCount, 0)

	for _, c := range clicks {
		ref := c.NormalizedReferer()
		i, ok := index[ref]
		if !ok {
			i = len(groups)
			index[ref] = i
			groups = append(groups, entity.RefererCount{Referer: ref})
		}
		groups[i].Count++
	}

	slices.SortStableFunc(groups, func(a, b entity.RefererCount) int {
		return cmp.Compare(b.Count, a.Count)
	})

	if len(groups) > limit {
		groups = groups[:limit]
	}

	return groups
}

// ClicksByDay returns one entry per UTC calendar day for the days calendar
// days ending on the day of now, oldest first. Days without clicks are present
// with a zero count.
func ClicksByDay(clicks []entity.Click, now time.Time, days int) []entity.DailyClicks {
	if days <= 0 {
		return []entity.DailyClicks{}
	}

	today := startOfDay(now)
	first := today.AddDate(0, 0, -(days - 1))

	rollup := make([]entity.DailyClicks, days)
	for i := range rollup {
		rollup[i].Date = first.AddDate(0, 0, i).Format(dateLayout)
	}

	end := today.AddDate(0, 0, 1)
	for _, c := range clicks {
		ts := c.Timestamp.UTC()
		if ts.Before(first) || !ts.Before(end) {
			continue
		}
		i := int(startOfDay(ts).Sub(first) / day)
		rollup[i].Clicks++
	}

	return rollup
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
