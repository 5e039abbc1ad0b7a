package cmd

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceICT/pkg/catalog"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every chip in the database",
	Long: `Print the name of every record in the chip database, in catalog order.

Examples:
  ict list
  ict list --catalog /path/to/chipdb.ict`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to load chip database: %w", err)
	}

	names := cat.Names()
	fmt.Printf("Chip database: %d entries\n", len(names))
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}
	return nil
}
