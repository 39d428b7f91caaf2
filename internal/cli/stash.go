package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var stashFlags struct {
	user    string
	product string
	strain  string
	amount  float64
	thc     float64
	notes   string
}

var stashCmd = &cobra.Command{
	Use:   "stash",
	Short: "Manage stash inventory",
}

var stashListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stash items",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		items, err := db.ListStash(stashFlags.user)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("stash is empty")
			return nil
		}
		for _, it := range items {
			pct := "?"
			if it.THCPercent != nil {
				pct = fmt.Sprintf("%.1f%%", *it.THCPercent)
			}
			name := it.ProductType
			if it.Strain != "" {
				name += " / " + it.Strain
			}
			fmt.Printf("%-30s %8.2f  THC %s\n", name, it.Amount, pct)
		}
		return nil
	},
}

var stashAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add to a stash item (creates it if missing)",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		var thc *float64
		if stashFlags.thc > 0 {
			thc = &stashFlags.thc
		}
		item, err := db.AddStash(stashFlags.user, stashFlags.product, stashFlags.strain,
			stashFlags.amount, thc, stashFlags.notes)
		if err != nil {
			return err
		}
		fmt.Printf("stash now %.2f\n", item.Amount)
		return nil
	},
}

var stashSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set a stash item's exact amount",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		var thc *float64
		if stashFlags.thc > 0 {
			thc = &stashFlags.thc
		}
		item, err := db.SetStash(stashFlags.user, stashFlags.product, stashFlags.strain,
			stashFlags.amount, thc)
		if err != nil {
			return err
		}
		fmt.Printf("stash set to %.2f\n", item.Amount)
		return nil
	},
}

var stashRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Deduct from a stash item",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		item, err := db.RemoveStash(stashFlags.user, stashFlags.product, stashFlags.strain, stashFlags.amount)
		if err != nil {
			return err
		}
		fmt.Printf("stash remaining: %.2f\n", item.Amount)
		return nil
	},
}

func init() {
	pf := stashCmd.PersistentFlags()
	pf.StringVar(&stashFlags.user, "user", "local", "user id")
	pf.StringVar(&stashFlags.product, "type", "flower", "product type")
	pf.StringVar(&stashFlags.strain, "strain", "", "strain name")
	pf.Float64Var(&stashFlags.amount, "amount", 0, "amount (grams, or mg for mg-dosed products)")
	pf.Float64Var(&stashFlags.thc, "thc", 0, "THC concentration percent")
	pf.StringVar(&stashFlags.notes, "notes", "", "notes")

	stashCmd.AddCommand(stashListCmd, stashAddCmd, stashSetCmd, stashRemoveCmd)
}
