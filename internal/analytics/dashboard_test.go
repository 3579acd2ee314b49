package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadimbarashkov/bytelink/internal/entity"
)

func dashboardLink(code string, createdAt time.Time, active bool, clicks ...entity.Click) *entity.Link {
	return &entity.Link{
		ID:          uuid.New(),
		ShortCode:   code,
		ShortURL:    "http://localhost:8080/" + code,
		OriginalURL: "https://example.com/" + code,
		Clicks:      int64(len(clicks)),
		Analytics:   clicks,
		IsActive:    active,
		CreatedAt:   createdAt,
	}
}

func codes(overviews []entity.LinkOverview) []string {
	out := make([]string, 0, len(overviews))
	for _, o := range overviews {
		out = append(out, o.ShortCode)
	}
	return out
}

func TestDashboard(t *testing.T) {
	t.Run("no links", func(t *testing.T) {
		d := Dashboard(nil, now)

		assert.Zero(t, d.TotalURLs)
		assert.Zero(t, d.TotalClicks)
		assert.Empty(t, d.RecentURLs)
		assert.Empty(t, d.TopURLs)
		assert.Empty(t, d.ClicksOverTime)
	})

	t.Run("inactive links are ignored", func(t *testing.T) {
		links := []*entity.Link{
			dashboardLink("live", now.Add(-time.Hour), true, clickAt(now.Add(-time.Minute), "")),
			dashboardLink("gone", now, false, clickAt(now.Add(-time.Minute), ""), clickAt(now, "")),
		}

		d := Dashboard(links, now)

		assert.Equal(t, int64(1), d.TotalURLs)
		assert.Equal(t, int64(1), d.TotalClicks)
		assert.Equal(t, []string{"live"}, codes(d.RecentURLs))
		assert.Equal(t, []string{"live"}, codes(d.TopURLs))
		assert.Equal(t, []entity.DailyClicks{{Date: "2024-03-10", Clicks: 1}}, d.ClicksOverTime)
	})

	t.Run("recent and top lists", func(t *testing.T) {
		c := func(n int) []entity.Click {
			out := make([]entity.Click, n)
			for i := range out {
				out[i] = clickAt(now.Add(-time.Duration(i)*time.Hour), "")
			}
			return out
		}
		links := []*entity.Link{
			dashboardLink("l1", now.Add(-7*time.Hour), true, c(3)...),
			dashboardLink("l2", now.Add(-6*time.Hour), true, c(1)...),
			dashboardLink("l3", now.Add(-5*time.Hour), true, c(3)...),
			dashboardLink("l4", now.Add(-4*time.Hour), true),
			dashboardLink("l5", now.Add(-3*time.Hour), true, c(5)...),
			dashboardLink("l6", now.Add(-2*time.Hour), true, c(1)...),
			dashboardLink("l7", now.Add(-1*time.Hour), true),
		}

		d := Dashboard(links, now)

		assert.Equal(t, int64(7), d.TotalURLs)
		assert.Equal(t, int64(13), d.TotalClicks)
		assert.Equal(t, []string{"l7", "l6", "l5", "l4", "l3"}, codes(d.RecentURLs))
		assert.Equal(t, []string{"l5", "l3", "l1", "l6", "l2"}, codes(d.TopURLs), "ties go to the newest link")

		top := d.TopURLs[0]
		assert.Equal(t, links[4].ID, top.ID)
		assert.Equal(t, links[4].ShortURL, top.ShortURL)
		assert.Equal(t, links[4].OriginalURL, top.OriginalURL)
		assert.Equal(t, int64(5), top.Clicks)
		assert.Equal(t, links[4].CreatedAt, top.CreatedAt)
	})

	t.Run("clicks over time is sorted and not zero filled", func(t *testing.T) {
		links := []*entity.Link{
			dashboardLink("a", now.Add(-30*day), true,
				clickAt(now.Add(-8*day), "old"),
				clickAt(now.Add(-7*day), "boundary"),
				clickAt(now.Add(-2*day), ""),
			),
			dashboardLink("b", now.Add(-30*day), true,
				clickAt(now.Add(-5*day), ""),
				clickAt(now.Add(-2*day-time.Hour), ""),
				clickAt(now.Add(-time.Minute), ""),
			),
		}

		d := Dashboard(links, now)

		require.Equal(t, []entity.DailyClicks{
			{Date: "2024-03-03", Clicks: 1},
			{Date: "2024-03-05", Clicks: 1},
			{Date: "2024-03-08", Clicks: 2},
			{Date: "2024-03-10", Clicks: 1},
		}, d.ClicksOverTime)
	})
}
