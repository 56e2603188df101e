package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/goxtream/pkg/xtream"
)

var (
	categoriesLive   bool
	categoriesVOD    bool
	categoriesSeries bool
	categoriesJSON   bool
)

// categoriesCmd lists categories for the selected domains.
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories",
	Long: `List categories for the selected stream types. With no type flags the
live categories are listed.`,
	RunE: runCategories,
}

func init() {
	categoriesCmd.Flags().BoolVar(&categoriesLive, "live", false, "list live categories")
	categoriesCmd.Flags().BoolVar(&categoriesVOD, "vod", false, "list VOD categories")
	categoriesCmd.Flags().BoolVar(&categoriesSeries, "series", false, "list series categories")
	categoriesCmd.Flags().BoolVar(&categoriesJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	client, _, err := authedClient(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	categories, err := client.GetCategories(cmd.Context(), xtream.CategorySelection{
		Live:   categoriesLive,
		VOD:    categoriesVOD,
		Series: categoriesSeries,
	})
	if err != nil {
		return err
	}

	if categoriesJSON {
		out, err := json.MarshalIndent(categories, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding categories: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	for _, c := range categories {
		fmt.Printf("%-8s %-8s %s\n", c.StreamType, c.CategoryID, c.CategoryName)
	}
	return nil
}
