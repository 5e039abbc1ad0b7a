package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose     bool
	configPath  string
	catalogPath string
	driverType  string
	simChip     string
)

var rootCmd = &cobra.Command{
	Use:   "ict",
	Short: "Logic IC tester and identifier",
	Long: `A socket tester for small logic ICs. It drives and senses the DUT pins
through a channel driver, verifies known parts against the chip database's
test vectors, and identifies unknown parts by trying every database entry
of matching pin count.

Examples:
  ict list                                  # List every chip in the database
  ict test 7404 -v                          # Verify a 7404 with a per-vector trace
  ict identify --pins 14                    # Identify an unknown 14-pin part
  ict console                               # Interactive locate/test/scan loop
  ict probes                                # List connected tester boards`,
	Version: "0.9.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"configuration file (default ict.yaml if present)")
	rootCmd.PersistentFlags().StringVarP(&catalogPath, "catalog", "c", "",
		"chip database file (overrides configuration)")
	rootCmd.PersistentFlags().StringVarP(&driverType, "driver", "d", "",
		"channel driver: sim or usb (overrides configuration)")
	rootCmd.PersistentFlags().StringVar(&simChip, "sim-chip", "",
		"simulator: part to model as inserted in the socket")
}
