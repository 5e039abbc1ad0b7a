package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceICT/pkg/probe"
	"github.com/spf13/cobra"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive locate/test/scan console",
	Long: `A line-oriented console in the style of the tester's serial interface.
Commands:
  list           list every chip in the database
  locate NAME    set the current chip
  test           test the current chip
  scan PINS      identify an unknown chip of the given pin count
  help           show this summary
  quit           leave the console

Errors abort only the current command; the console keeps running.`,
	RunE: runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

func runConsole(cmd *cobra.Command, args []string) error {
	session, closer, err := newSession()
	if err != nil {
		return err
	}
	defer closer()
	defer session.Release()

	in := cmd.InOrStdin()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "IC tester console. Type 'help' for commands, 'quit' to leave.")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprintln(out, "commands: list, locate NAME, test, scan PINS, help, quit")
		case "list":
			for _, name := range session.Catalog().Names() {
				fmt.Fprintf(out, "  %s\n", name)
			}
		case "locate":
			consoleLocate(out, session, fields[1:])
		case "test":
			consoleTest(out, session)
		case "scan":
			consoleScan(out, session, fields[1:])
		default:
			fmt.Fprintf(out, "unknown command %q, try 'help'\n", fields[0])
		}
	}
}

func consoleLocate(out io.Writer, session *probe.Session, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(out, "usage: locate NAME")
		return
	}
	if session.Locate(args[0]) {
		name, _ := session.Located()
		fmt.Fprintf(out, "located %s\n", name)
	} else {
		fmt.Fprintf(out, "chip %q not found\n", args[0])
	}
}

func consoleTest(out io.Writer, session *probe.Session) {
	var trace io.Writer
	if verbose {
		trace = out
	}
	res, err := session.Test(trace)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	verdict := "PASS"
	if res.Fail > 0 {
		verdict = "FAIL"
	}
	fmt.Fprintf(out, "%s: %d passed, %d failed: %s\n", res.Chip, res.Pass, res.Fail, verdict)
}

func consoleScan(out io.Writer, session *probe.Session, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(out, "usage: scan PINS")
		return
	}
	pins, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(out, "bad pin count %q\n", args[0])
		return
	}

	results, err := session.Scan(pins)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(out, "tried %d candidate(s)\n", len(results))
	for _, r := range results {
		status := "not detected"
		if r.Detected {
			status = "DETECTED"
		}
		fmt.Fprintf(out, "  %-16s %s\n", r.Name, status)
	}
}
