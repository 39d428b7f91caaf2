package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mossline/stashtrack/internal/engine"
	"github.com/mossline/stashtrack/internal/store"
)

var reportFlags struct {
	user   string
	days   int
	window string
	asJSON bool
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Consumption analytics reports",
}

func init() {
	pf := reportCmd.PersistentFlags()
	pf.StringVar(&reportFlags.user, "user", "local", "user id")
	pf.IntVar(&reportFlags.days, "days", 0, "analysis period in days (0 = command default)")
	pf.StringVar(&reportFlags.window, "window", engine.WindowDay, "aggregation window (day, week)")
	pf.BoolVar(&reportFlags.asJSON, "json", false, "emit raw JSON")

	reportCmd.AddCommand(reportSummaryCmd, reportTrendCmd, reportRiskCmd,
		reportDepletionCmd, reportReorderCmd, reportBreakCmd, reportDosageCmd)
}

// reportDays returns the effective period, falling back per command.
func reportDays(def int) int {
	if reportFlags.days > 0 {
		return reportFlags.days
	}
	return def
}

// loadRecent opens the DB and fetches the period's entries in the user's
// timezone. The caller owns closing the returned DB.
func loadRecent(days int) (*store.DB, []store.Entry, *time.Location, time.Time, error) {
	db, err := openDB()
	if err != nil {
		return nil, nil, nil, time.Time{}, err
	}

	user, err := db.GetUser(reportFlags.user)
	if err != nil {
		db.Close()
		return nil, nil, nil, time.Time{}, err
	}
	loc := time.UTC
	if user != nil && user.Timezone != "" {
		if l, err := time.LoadLocation(user.Timezone); err == nil {
			loc = l
		}
	}

	now := time.Now().In(loc)
	since := now.AddDate(0, 0, -days)
	start := time.Date(since.Year(), since.Month(), since.Day(), 0, 0, 0, 0, loc)
	entries, err := db.EntriesSince(reportFlags.user, start.UnixMilli())
	if err != nil {
		db.Close()
		return nil, nil, nil, time.Time{}, err
	}
	return db, entries, loc, now, nil
}

func emit(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var reportSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Totals and means for the period",
	RunE: func(cmd *cobra.Command, args []string) error {
		days := reportDays(1)
		db, entries, loc, _, err := loadRecent(days)
		if err != nil {
			return err
		}
		defer db.Close()

		s := engine.Summarize(entries, days, time.Now().In(loc))
		if reportFlags.asJSON {
			return emit(s)
		}
		fmt.Printf("last %d day(s): %d sessions, %.2f mg absorbed\n", days, s.Sessions, s.TotalAbsorbedMg)
		if s.RatedSessions > 0 {
			fmt.Printf("mean effect %.1f/5 over %d rated sessions\n", s.MeanEffect, s.RatedSessions)
		}
		return nil
	},
}

var reportTrendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Tolerance trend over the period",
	RunE: func(cmd *cobra.Command, args []string) error {
		days := reportDays(14)
		db, entries, loc, _, err := loadRecent(days)
		if err != nil {
			return err
		}
		defer db.Close()

		summaries := engine.Aggregate(entries, reportFlags.window, loc)
		assessment, err := engine.AnalyzeTrend(engine.DefaultConfig(), summaries)
		if errors.Is(err, engine.ErrInsufficientData) {
			fmt.Println("not enough rated history yet; keep logging effect ratings")
			return nil
		}
		if err != nil {
			return err
		}
		if reportFlags.asJSON {
			return emit(assessment)
		}
		fmt.Printf("trend: %s (severity %s)\n", assessment.Status, assessment.Severity)
		fmt.Printf("effect %.1f -> %.1f, dose %.1f mg -> %.1f mg (%+.1f%%)\n",
			assessment.EarlyEffect, assessment.RecentEffect,
			assessment.EarlyDoseMg, assessment.RecentDoseMg, assessment.DosageChangePct)
		return nil
	},
}

var reportRiskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Tolerance risk from recent weekly comparison",
	RunE: func(cmd *cobra.Command, args []string) error {
		days := reportDays(21)
		db, entries, loc, _, err := loadRecent(days)
		if err != nil {
			return err
		}
		defer db.Close()

		summaries := engine.Aggregate(entries, engine.WindowDay, loc)
		risk, err := engine.ToleranceRisk(engine.DefaultConfig(), summaries)
		if errors.Is(err, engine.ErrInsufficientData) {
			fmt.Println("not enough history for a risk assessment (need two weeks)")
			return nil
		}
		if err != nil {
			return err
		}
		if reportFlags.asJSON {
			return emit(risk)
		}
		fmt.Printf("tolerance risk: %s, break suggested within %d days\n", risk.Risk, risk.BreakNeededInDays)
		return nil
	},
}

var reportDepletionCmd = &cobra.Command{
	Use:   "depletion",
	Short: "Stash depletion forecast",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, _, db, err := depletionForecast()
		if err != nil {
			return err
		}
		defer db.Close()

		if reportFlags.asJSON {
			return emit(report)
		}
		if report.Status != engine.DepletionOK {
			fmt.Println(report.Status)
			return nil
		}
		fmt.Printf("avg daily dose %.2f mg\n", report.AvgDailyDoseMg)
		for _, p := range report.Predictions {
			name := p.ProductType
			if p.Strain != "" {
				name += " / " + p.Strain
			}
			fmt.Printf("%-30s %5.1f days left (%s), empty %s\n",
				name, p.DaysRemaining, p.Urgency, p.EmptyDate.Format("2006-01-02"))
		}
		return nil
	},
}

var reportReorderCmd = &cobra.Command{
	Use:   "reorder",
	Short: "Reorder timing per stash item",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, now, db, err := depletionForecast()
		if err != nil {
			return err
		}
		defer db.Close()

		if report.Status != engine.DepletionOK {
			fmt.Println(report.Status)
			return nil
		}
		suggestions := engine.SuggestReorderTiming(engine.DefaultConfig(), report.Predictions, now)
		if reportFlags.asJSON {
			return emit(suggestions)
		}
		for _, sg := range suggestions {
			name := sg.ProductType
			if sg.Strain != "" {
				name += " / " + sg.Strain
			}
			fmt.Printf("%-30s %s, reorder by %s\n", name, sg.Action, sg.ReorderDate.Format("2006-01-02"))
		}
		return nil
	},
}

var reportBreakCmd = &cobra.Command{
	Use:   "break",
	Short: "Tolerance break suggestion",
	RunE: func(cmd *cobra.Command, args []string) error {
		days := reportDays(30)
		db, entries, loc, _, err := loadRecent(days)
		if err != nil {
			return err
		}
		defer db.Close()

		rate := engine.DailyDoseRate(entries, days, time.Now().In(loc))
		bs := engine.SuggestBreak(engine.DefaultConfig(), rate)
		if reportFlags.asJSON {
			return emit(bs)
		}
		fmt.Printf("suggested break: %d days (%s) at %.2f mg/day\n",
			bs.SuggestedDays, bs.Intensity, bs.AvgDailyDoseMg)
		return nil
	},
}

var reportDosageCmd = &cobra.Command{
	Use:   "dosage",
	Short: "Dose adjustment hint from recent ratings",
	RunE: func(cmd *cobra.Command, args []string) error {
		days := reportDays(7)
		db, entries, loc, _, err := loadRecent(days)
		if err != nil {
			return err
		}
		defer db.Close()

		var ratings []float64
		for _, ws := range engine.Aggregate(entries, engine.WindowDay, loc) {
			if ws.Rated() {
				ratings = append(ratings, ws.MeanEffect)
			}
		}
		adj := engine.SuggestDoseAdjustment(ratings)
		if reportFlags.asJSON {
			return emit(adj)
		}
		fmt.Printf("recommendation: %s (x%.1f), recent effect %.1f, confidence %.0f%%\n",
			adj.Recommendation, adj.Multiplier, adj.RecentEffect, adj.Confidence*100)
		return nil
	},
}

// depletionForecast shares the snapshot assembly between the depletion
// and reorder reports.
func depletionForecast() (engine.DepletionReport, time.Time, *store.DB, error) {
	days := reportDays(30)
	db, entries, loc, _, err := loadRecent(days)
	if err != nil {
		return engine.DepletionReport{}, time.Time{}, nil, err
	}

	items, err := db.ListStash(reportFlags.user)
	if err != nil {
		db.Close()
		return engine.DepletionReport{}, time.Time{}, nil, err
	}

	now := time.Now().In(loc)
	rate := engine.DailyDoseRate(entries, days, now)
	return engine.PredictDepletion(engine.DefaultConfig(), items, rate, now), now, db, nil
}
