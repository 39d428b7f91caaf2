package engine

import (
	"sort"
	"time"

	"github.com/mossline/stashtrack/internal/store"
)

// Window sizes accepted by Aggregate.
const (
	WindowDay  = "day"
	WindowWeek = "week"
)

// Aggregate partitions consumption entries into non-overlapping calendar
// windows (days, or ISO weeks starting Monday) and summarizes each one.
// The result is contiguous — windows between the first and last entry with
// no records appear as zero-valued summaries — and ordered most-recent-last.
// Input order does not matter; entries are normalized to ascending time.
// Any size other than WindowWeek aggregates by day.
func Aggregate(entries []store.Entry, size string, loc *time.Location) []WindowSummary {
	if len(entries) == 0 {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}

	sorted := make([]store.Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ConsumedAt < sorted[j].ConsumedAt
	})

	step := 1
	if size == WindowWeek {
		step = 7
	}

	first := windowStart(time.UnixMilli(sorted[0].ConsumedAt).In(loc), size)
	last := windowStart(time.UnixMilli(sorted[len(sorted)-1].ConsumedAt).In(loc), size)

	// Zero-filled contiguous series so downstream trend math sees every
	// window, including days with no sessions.
	var summaries []WindowSummary
	index := make(map[int64]int)
	for ws := first; !ws.After(last); ws = ws.AddDate(0, 0, step) {
		index[ws.Unix()] = len(summaries)
		summaries = append(summaries, WindowSummary{
			Start: ws,
			End:   ws.AddDate(0, 0, step),
		})
	}

	type acc struct {
		effectSum int
		methods   map[string]bool
	}
	accs := make(map[int64]*acc)

	for _, e := range sorted {
		ws := windowStart(time.UnixMilli(e.ConsumedAt).In(loc), size)
		i, ok := index[ws.Unix()]
		if !ok {
			continue
		}
		a := accs[ws.Unix()]
		if a == nil {
			a = &acc{methods: make(map[string]bool)}
			accs[ws.Unix()] = a
		}

		summaries[i].TotalDoseMg += e.AbsorbedMg
		summaries[i].Sessions++
		if e.EffectRating > 0 {
			summaries[i].RatedSessions++
			a.effectSum += e.EffectRating
		}
		if e.Method != "" {
			a.methods[e.Method] = true
		}
	}

	for key, a := range accs {
		i := index[key]
		if summaries[i].RatedSessions > 0 {
			summaries[i].MeanEffect = float64(a.effectSum) / float64(summaries[i].RatedSessions)
		}
		for m := range a.methods {
			summaries[i].Methods = append(summaries[i].Methods, m)
		}
		sort.Strings(summaries[i].Methods)
	}

	return summaries
}

// DailyDoseRate returns the average absorbed dose per day over the last
// `days` days ending at now. Entries outside the period are ignored.
func DailyDoseRate(entries []store.Entry, days int, now time.Time) float64 {
	if days <= 0 {
		return 0
	}
	cutoff := now.AddDate(0, 0, -days).UnixMilli()
	end := now.UnixMilli()

	var total float64
	for _, e := range entries {
		if e.ConsumedAt > cutoff && e.ConsumedAt <= end {
			total += e.AbsorbedMg
		}
	}
	return total / float64(days)
}

// windowStart truncates t to the start of its calendar window: midnight
// for days, Monday midnight for ISO weeks.
func windowStart(t time.Time, size string) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	if size != WindowWeek {
		return day
	}
	// Back up to Monday. time.Weekday has Sunday = 0.
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
