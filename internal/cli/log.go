package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mossline/stashtrack/internal/engine"
	"github.com/mossline/stashtrack/internal/store"
)

var logFlags struct {
	user    string
	product string
	strain  string
	amount  float64
	thc     float64
	method  string
	rating  int
	symptom string
	notes   string
	deduct  bool
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Log a consumption session",
	RunE:  runLog,
}

func init() {
	f := logCmd.Flags()
	f.StringVar(&logFlags.user, "user", "local", "user id")
	f.StringVar(&logFlags.product, "type", "flower", "product type (flower, edible, dab, cart, tincture, capsule)")
	f.StringVar(&logFlags.strain, "strain", "", "strain name")
	f.Float64Var(&logFlags.amount, "amount", 0, "amount consumed (grams, or mg for mg-dosed products)")
	f.Float64Var(&logFlags.thc, "thc", 0, "THC concentration percent (0 = use default)")
	f.StringVar(&logFlags.method, "method", "smoke", "consumption method (smoke, vaporizer, dab, edible, tincture, capsule)")
	f.IntVar(&logFlags.rating, "rating", 0, "effect rating 1-5 (0 = unrated)")
	f.StringVar(&logFlags.symptom, "symptom", "", "symptom being treated")
	f.StringVar(&logFlags.notes, "notes", "", "free-form notes")
	f.BoolVar(&logFlags.deduct, "deduct", false, "deduct the amount from matching stash")
}

func runLog(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.GetOrCreateUser(logFlags.user); err != nil {
		return err
	}
	if logFlags.rating != 0 {
		if err := engine.ValidateRating(logFlags.rating); err != nil {
			return err
		}
	}

	var thc *float64
	if logFlags.thc > 0 {
		thc = &logFlags.thc
	} else if item, _ := db.GetStashItem(logFlags.user, logFlags.product, logFlags.strain); item != nil && item.THCPercent != nil {
		// Backfill concentration from the matching stash item.
		thc = item.THCPercent
	}

	dose, err := engine.AbsorbedDose(engine.DefaultConfig(), logFlags.amount, thc, logFlags.method)
	if err != nil {
		return err
	}

	entry := store.Entry{
		UserID:       logFlags.user,
		ProductType:  logFlags.product,
		Strain:       logFlags.strain,
		Amount:       logFlags.amount,
		THCPercent:   thc,
		Method:       logFlags.method,
		AbsorbedMg:   dose.AbsorbedMg,
		EffectRating: logFlags.rating,
		Symptom:      logFlags.symptom,
		Notes:        logFlags.notes,
		ConsumedAt:   time.Now().UnixMilli(),
	}
	if err := db.InsertEntry(&entry); err != nil {
		return err
	}

	fmt.Printf("logged entry %d: %.2f mg absorbed (%.1f%% THC via %s)\n",
		entry.ID, dose.AbsorbedMg, dose.ConcentrationPct, logFlags.method)
	if dose.AssumedConcentration {
		fmt.Println("note: no concentration given, assumed default")
	}

	if logFlags.deduct {
		item, err := db.RemoveStash(logFlags.user, logFlags.product, logFlags.strain, logFlags.amount)
		if err != nil {
			fmt.Printf("stash not deducted: %v\n", err)
		} else {
			fmt.Printf("stash remaining: %.2f\n", item.Amount)
		}
	}
	return nil
}
