package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/OpenTraceLab/OpenTraceICT/pkg/socket"
	"github.com/spf13/cobra"
)

var probesCmd = &cobra.Command{
	Use:   "probes",
	Short: "List connected tester boards",
	Long: `Scan the host for tester boards and print a summary of the detected
hardware. Use this to verify connectivity before running tests; the
simulator entry is always present.`,
	RunE: runProbes,
}

func init() {
	rootCmd.AddCommand(probesCmd)
}

func runProbes(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	infos, err := socket.DiscoverProbes(ctx)
	if err != nil {
		return fmt.Errorf("discover probes: %w", err)
	}

	fmt.Println("Detected tester boards:")
	for _, info := range infos {
		fmt.Printf("  %s\n", info.Label())
	}
	return nil
}
