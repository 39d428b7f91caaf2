package engine

import "fmt"

// trendRule is one row of the ordered classification ladder. Rules are
// evaluated first-match-wins, so their order is part of the contract.
type trendRule struct {
	match    func(effChange, doseChangePct float64) bool
	status   string
	severity func(effChange float64) string
}

func trendRules(t TrendThresholds) []trendRule {
	return []trendRule{
		{
			// Effectiveness falling while dosage rises: the tolerance signal.
			match:  func(eff, dose float64) bool { return eff < t.Drop && dose > 0 },
			status: TrendIncreasing,
			severity: func(eff float64) string {
				if eff < t.SevereDrop {
					return "high"
				}
				return "moderate"
			},
		},
		{
			match:    func(eff, dose float64) bool { return eff < t.SlightDrop },
			status:   TrendSlightIncrease,
			severity: func(float64) string { return "low" },
		},
		{
			match:    func(eff, dose float64) bool { return eff > t.Gain },
			status:   TrendImproving,
			severity: func(float64) string { return "good" },
		},
	}
}

// AnalyzeTrend compares the early half of a window series against the
// recent half and classifies the change in effectiveness and dosage.
// It fails with ErrInsufficientData when fewer than cfg.TrendMinWindows
// windows carry at least one rated session.
func AnalyzeTrend(cfg Config, summaries []WindowSummary) (TrendAssessment, error) {
	rated := 0
	for _, w := range summaries {
		if w.Rated() {
			rated++
		}
	}
	if rated < cfg.TrendMinWindows {
		return TrendAssessment{}, fmt.Errorf("%w: %d rated windows, need %d",
			ErrInsufficientData, rated, cfg.TrendMinWindows)
	}

	mid := len(summaries) / 2
	early, recent := summaries[:mid], summaries[mid:]

	earlyEff := meanEffect(early)
	recentEff := meanEffect(recent)
	earlyDose := meanDose(early)
	recentDose := meanDose(recent)

	effChange := recentEff - earlyEff
	doseChangePct := 0.0
	if earlyDose > 0 {
		doseChangePct = (recentDose - earlyDose) / earlyDose * 100
	}

	a := TrendAssessment{
		Status:              TrendStable,
		Severity:            "normal",
		EffectivenessChange: effChange,
		DosageChangePct:     doseChangePct,
		EarlyEffect:         earlyEff,
		RecentEffect:        recentEff,
		EarlyDoseMg:         earlyDose,
		RecentDoseMg:        recentDose,
	}
	for _, rule := range trendRules(cfg.Trend) {
		if rule.match(effChange, doseChangePct) {
			a.Status = rule.status
			a.Severity = rule.severity(effChange)
			break
		}
	}
	return a, nil
}

// ToleranceRisk projects how soon a break will be needed by comparing the
// last seven daily windows against the seven before them. Requires at
// least 14 windows; fails with ErrInsufficientData otherwise.
func ToleranceRisk(cfg Config, summaries []WindowSummary) (RiskAssessment, error) {
	if len(summaries) < 14 {
		return RiskAssessment{}, fmt.Errorf("%w: %d windows, need 14",
			ErrInsufficientData, len(summaries))
	}

	recent := summaries[len(summaries)-7:]
	previous := summaries[len(summaries)-14 : len(summaries)-7]

	recentDose := meanDose(recent)
	previousDose := meanDose(previous)
	effChange := meanEffect(recent) - meanEffect(previous)

	doseChangePct := 0.0
	if previousDose > 0 {
		doseChangePct = (recentDose - previousDose) / previousDose * 100
	}

	r := RiskAssessment{
		DosageChangePct:     doseChangePct,
		EffectivenessChange: effChange,
		RecentDailyDoseMg:   recentDose,
		PreviousDailyDoseMg: previousDose,
	}
	switch {
	case doseChangePct > 20 && effChange < -0.3:
		r.Risk, r.BreakNeededInDays = "high", 7
	case doseChangePct > 10 || effChange < -0.2:
		r.Risk, r.BreakNeededInDays = "medium", 14
	case doseChangePct > 5:
		r.Risk, r.BreakNeededInDays = "low", 21
	default:
		r.Risk, r.BreakNeededInDays = "minimal", 30
	}
	return r, nil
}

// meanEffect averages MeanEffect over rated windows only, so unrated
// windows never drag the mean toward zero.
func meanEffect(ws []WindowSummary) float64 {
	sum, n := 0.0, 0
	for _, w := range ws {
		if w.Rated() {
			sum += w.MeanEffect
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// meanDose averages TotalDoseMg over all windows. Zero-filled windows are
// genuine no-consumption days and belong in a dosage average.
func meanDose(ws []WindowSummary) float64 {
	if len(ws) == 0 {
		return 0
	}
	sum := 0.0
	for _, w := range ws {
		sum += w.TotalDoseMg
	}
	return sum / float64(len(ws))
}
