package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the vector index from the catalog",
	Long: `Wipes the vector index and re-embeds every catalog entry. Run after bulk
catalog edits or when the index has drifted from the catalog file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		total, err := appInstance.ReindexAll(cmd.Context())
		if err != nil {
			return fmt.Errorf("reindex failed after %d entries: %w", total, err)
		}
		fmt.Printf("Reindexed %d catalog entries.\n", total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
