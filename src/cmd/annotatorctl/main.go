package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"screen-annotator/src/config"
	"screen-annotator/src/host"
	"screen-annotator/src/singleinstance"
)

type ctlOptions struct {
	jsonOutput bool
	verbose    bool
	timeout    time.Duration
}

// sender delivers one command line to the resident overlay.
type sender interface {
	Send(ctx context.Context, line string) error
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return runWithArgs(normalizeLegacyArgs(os.Args), singleinstance.NewClient(), os.Stdout)
}

func runWithArgs(args []string, client sender, out io.Writer) error {
	if len(args) == 0 {
		args = []string{"annotatorctl"}
	}
	opts := &ctlOptions{}
	cmd := newRootCmd(opts, client, out)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *ctlOptions, client sender, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "annotatorctl <command> [argument]",
		Short:         "Send a command to the running screen annotator",
		Long:          "Commands: " + strings.Join(commandNames(), ", "),
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(cmd.Context(), *opts, strings.Join(args, " "), client, out)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the result as JSON")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 2*time.Second, "How long to wait for the overlay")

	return cmd
}

func commandNames() []string {
	names := []host.CommandName{host.ClearCanvas, host.Undo, host.Redo, host.SetTool, host.ToggleSpotlight, host.DrawingModeChanged, host.OpenSettings,
		host.SetStrokeSize, host.SetSpotlightSize, host.SetColor}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}

func runWithOptions(ctx context.Context, opts ctlOptions, line string, client sender, out io.Writer) error {
	// Configure logging BEFORE any other operations.
	if !opts.verbose {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stderr)
	}
	// .env may carry SINGLEINSTANCE_PORT_*.
	if _, err := config.Load(); err != nil {
		log.Printf("config: %v", err)
	}

	cmd, err := host.ParseCommand(line)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	start := time.Now()
	err = client.Send(ctx, cmd.String())
	elapsed := time.Since(start)
	log.Printf("sent %q in %v: %v", cmd, elapsed, err)
	return outputResult(out, cmd, elapsed, err, opts.jsonOutput)
}

type CommandResult struct {
	Command   string  `json:"command"`
	Status    string  `json:"status"`
	Error     string  `json:"error,omitempty"`
	Timestamp string  `json:"timestamp"`
	Duration  float64 `json:"duration_seconds"`
}

func outputResult(out io.Writer, cmd host.Command, elapsed time.Duration, sendErr error, jsonOutput bool) error {
	if !jsonOutput {
		if sendErr != nil {
			return fmt.Errorf("%s: %w", cmd, sendErr)
		}
		fmt.Fprintln(out, "OK")
		return nil
	}

	result := CommandResult{
		Command:   cmd.String(),
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Duration:  elapsed.Seconds(),
	}
	if sendErr != nil {
		result.Status = "error"
		result.Error = sendErr.Error()
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	if sendErr != nil {
		return fmt.Errorf("%s: %w", cmd, sendErr)
	}
	return nil
}

func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	normalized := make([]string, len(args))
	copy(normalized, args)

	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		switch {
		case arg == "-json", strings.HasPrefix(arg, "-json="),
			arg == "-verbose", strings.HasPrefix(arg, "-verbose="),
			arg == "-timeout", strings.HasPrefix(arg, "-timeout="):
			normalized[i] = "-" + arg
		}
	}

	return normalized
}
