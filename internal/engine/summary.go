package engine

import (
	"sort"
	"time"

	"github.com/mossline/stashtrack/internal/store"
)

// Summarize aggregates all entries within the last `days` days ending at
// now. An empty period comes back as a zeroed Summary — RatedSessions
// tells callers whether MeanEffect carries any information.
func Summarize(entries []store.Entry, days int, now time.Time) Summary {
	start := dayStart(now, days)
	cutoff := start.UnixMilli()
	end := now.UnixMilli()

	var s Summary
	var effectSum int
	methods := make(map[string]bool)
	strains := make(map[string]bool)

	for _, e := range entries {
		if e.ConsumedAt < cutoff || e.ConsumedAt > end {
			continue
		}
		s.Sessions++
		s.TotalAbsorbedMg += e.AbsorbedMg
		s.TotalAmount += e.Amount
		if e.EffectRating > 0 {
			s.RatedSessions++
			effectSum += e.EffectRating
		}
		if e.Method != "" {
			methods[e.Method] = true
		}
		if e.Strain != "" {
			strains[e.Strain] = true
		}
	}

	s.TotalAbsorbedMg = round2(s.TotalAbsorbedMg)
	s.TotalAmount = round2(s.TotalAmount)
	if s.RatedSessions > 0 {
		s.MeanEffect = float64(effectSum) / float64(s.RatedSessions)
	}
	s.Methods = sortedKeys(methods)
	s.Strains = sortedKeys(strains)
	return s
}

// CheckDailyLimit reports where a day's consumption sits against a cap.
// A non-positive limit means no cap is configured and the state is ok.
func CheckDailyLimit(cfg Config, consumedMg, limitMg float64) LimitStatus {
	st := LimitStatus{
		State:      LimitOK,
		ConsumedMg: consumedMg,
		LimitMg:    limitMg,
	}
	if limitMg <= 0 {
		return st
	}
	st.RemainingMg = limitMg - consumedMg
	if st.RemainingMg < 0 {
		st.RemainingMg = 0
	}
	switch {
	case consumedMg > limitMg:
		st.State = LimitExceeded
	case consumedMg > limitMg*cfg.LimitWarnFraction:
		st.State = LimitApproaching
	}
	return st
}

// dayStart returns midnight of the first day of a period covering the
// last `days` days ending at now, in now's location.
func dayStart(now time.Time, days int) time.Time {
	d := now.AddDate(0, 0, -(days - 1))
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
