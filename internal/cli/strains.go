package cli

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mossline/stashtrack/internal/strains"
)

var strainsFlags struct {
	catalog string
	limit   int
}

var strainsCmd = &cobra.Command{
	Use:   "strains",
	Short: "Query the strain reference catalog",
}

func init() {
	pf := strainsCmd.PersistentFlags()
	pf.StringVar(&strainsFlags.catalog, "catalog", "", "path to the strain CSV (default $STASHTRACK_STRAIN_CATALOG)")
	pf.IntVar(&strainsFlags.limit, "limit", 5, "maximum results")

	strainsCmd.AddCommand(strainsInfoCmd, strainsSearchCmd, strainsRecommendCmd)
}

func loadCatalog() (*strains.Catalog, error) {
	path := strainsFlags.catalog
	if path == "" {
		path = os.Getenv("STASHTRACK_STRAIN_CATALOG")
	}
	if path == "" {
		return nil, fmt.Errorf("no strain catalog configured (set --catalog or STASHTRACK_STRAIN_CATALOG)")
	}
	return strains.LoadFile(path)
}

func printStrain(s strains.Strain) {
	fmt.Printf("%s (%s) rated %.1f\n", s.Name, s.Type, s.Rating)
	if len(s.Effects) > 0 {
		fmt.Printf("  effects: %v\n", s.Effects)
	}
	if s.THCLow != nil && s.THCHigh != nil {
		fmt.Printf("  THC: %.1f-%.1f%%\n", *s.THCLow, *s.THCHigh)
	}
}

var strainsInfoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show one strain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		s, ok := catalog.Get(args[0])
		if !ok {
			return fmt.Errorf("strain %q not in catalog", args[0])
		}
		printStrain(s)
		if s.Description != "" {
			fmt.Println("  " + s.Description)
		}
		return nil
	},
}

var strainsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search strains by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		results := catalog.Search(args[0], strainsFlags.limit)
		if len(results) == 0 {
			fmt.Println("no matches")
			return nil
		}
		for _, s := range results {
			printStrain(s)
		}
		return nil
	},
}

var strainsRecommendCmd = &cobra.Command{
	Use:   "recommend <condition>",
	Short: "Recommend strains for a condition or symptom",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		results := catalog.ForCondition(args[0], strainsFlags.limit, rng)
		if len(results) == 0 {
			fmt.Println("no matches")
			return nil
		}
		for _, s := range results {
			printStrain(s)
		}
		return nil
	},
}
