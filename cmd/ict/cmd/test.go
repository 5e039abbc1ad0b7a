package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var testCmd = &cobra.Command{
	Use:   "test NAME",
	Short: "Test the inserted chip against a database entry",
	Long: `Locate a chip record by name and run all of its test vectors against the
device in the socket. Every channel is returned to floating input when the
test finishes, pass or fail.

Examples:
  # Verify a 7404 with the default driver
  ict test 7404

  # Per-vector trace
  ict test 7404 -v

  # Against the simulator with a modeled part inserted
  ict test 7404 --driver sim --sim-chip 7404`,
	Args: cobra.ExactArgs(1),
	RunE: runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	name := args[0]

	session, closer, err := newSession()
	if err != nil {
		return err
	}
	defer closer()

	if !session.Locate(name) {
		fmt.Printf("Chip '%s' not found in database.\n\nAvailable chips:\n", name)
		for _, n := range session.Catalog().Names() {
			fmt.Printf("  %s\n", n)
		}
		return fmt.Errorf("chip not found: %s", name)
	}

	fmt.Printf("Testing %s...\n", name)

	var trace io.Writer
	if verbose {
		trace = os.Stdout
	}
	res, err := session.Test(trace)
	if err != nil {
		return fmt.Errorf("test failed: %w", err)
	}

	verdict := "PASS"
	if res.Fail > 0 {
		verdict = "FAIL"
	}
	fmt.Printf("%s: %d passed, %d failed: %s\n", res.Chip, res.Pass, res.Fail, verdict)

	if res.Fail > 0 {
		return fmt.Errorf("chip failed %d vector(s)", res.Fail)
	}
	return nil
}
