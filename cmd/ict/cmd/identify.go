package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var identifyPins int

var identifyCmd = &cobra.Command{
	Use:   "identify",
	Short: "Identify an unknown chip by brute-force scan",
	Long: `Try every chip database entry of the given pin count against the device in
the socket. A chip is reported as detected only when every one of its test
vectors passes with zero mismatches.

Examples:
  # Identify an unknown 14-pin part
  ict identify --pins 14

  # Against the simulator with a modeled part inserted
  ict identify --pins 14 --driver sim --sim-chip 7400`,
	RunE: runIdentify,
}

func init() {
	rootCmd.AddCommand(identifyCmd)

	identifyCmd.Flags().IntVarP(&identifyPins, "pins", "p", 0,
		"pin count of the inserted chip")
	identifyCmd.MarkFlagRequired("pins")
}

func runIdentify(cmd *cobra.Command, args []string) error {
	session, closer, err := newSession()
	if err != nil {
		return err
	}
	defer closer()

	fmt.Printf("Scanning for a %d-pin chip...\n", identifyPins)

	results, err := session.Scan(identifyPins)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	fmt.Printf("Tried %d candidate(s)\n", len(results))
	detected := 0
	for _, r := range results {
		status := "not detected"
		if r.Detected {
			status = "DETECTED"
			detected++
		}
		fmt.Printf("  %-16s %s\n", r.Name, status)
	}

	if detected == 0 {
		fmt.Println("No match. The chip is not in the database, or it is faulty.")
	}
	return nil
}
