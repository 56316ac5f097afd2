package report

import (
	"math"
	"sort"
	"time"

	"github.com/tacmedikal/fieldtrack-api/internal/model"
)

// avgWindowDays is the fixed divisor for the daily average; the dashboard
// reports a "last 30 days" rate regardless of actual elapsed days.
const avgWindowDays = 30

// WindowCounts buckets visits into the rolling dashboard windows relative to
// now. The week window is a rolling 7-day lookback from midnight; the app
// uses this convention everywhere, including the admin overview.
func WindowCounts(visits []*model.Visit, now time.Time) model.WindowCounts {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := midnight.Add(24 * time.Hour)
	weekStart := midnight.AddDate(0, 0, -7)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	var counts model.WindowCounts
	for _, v := range visits {
		d := v.VisitDate
		if !d.Before(midnight) && d.Before(tomorrow) {
			counts.Today++
		}
		if !d.Before(weekStart) {
			counts.Week++
		}
		if !d.Before(monthStart) {
			counts.Month++
		}
		if !d.Before(lastMonthStart) && d.Before(monthStart) {
			counts.LastMonth++
		}
	}
	return counts
}

// CompletionRate is the current-month count against the monthly target,
// capped at 100.
func CompletionRate(thisMonth, target int) float64 {
	if target <= 0 {
		return 0
	}
	rate := float64(thisMonth) / float64(target) * 100
	return math.Min(rate, 100)
}

// GrowthRate is the month-over-month percentage change. With no prior-month
// data it reports 100 when there is any current activity, otherwise 0.
func GrowthRate(thisMonth, lastMonth int) float64 {
	if lastMonth > 0 {
		return round1(float64(thisMonth-lastMonth) / float64(lastMonth) * 100)
	}
	if thisMonth > 0 {
		return 100
	}
	return 0
}

// AvgPerDay is the lifetime total spread over the fixed 30-day window.
func AvgPerDay(total int) float64 {
	if total <= 0 {
		return 0
	}
	return round1(float64(total) / avgWindowDays)
}

// TopCustomer returns the most-visited customer name. Ties go to whichever
// name first reached the maximum in visit order; empty input yields "".
func TopCustomer(visits []*model.Visit) string {
	counts := make(map[string]int, len(visits))
	top := ""
	best := 0
	for _, v := range visits {
		counts[v.CustomerName]++
		if counts[v.CustomerName] > best {
			best = counts[v.CustomerName]
			top = v.CustomerName
		}
	}
	return top
}

// RankUsers sorts per-user stats descending by visit count (stable, so equal
// counts keep their original order) and truncates to the top n.
func RankUsers(stats []*model.UserStats, n int) []*model.UserStats {
	ranked := make([]*model.UserStats, len(stats))
	copy(ranked, stats)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].VisitCount > ranked[j].VisitCount
	})

	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
