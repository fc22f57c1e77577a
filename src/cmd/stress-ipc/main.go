package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"screen-annotator/src/host"
	"screen-annotator/src/singleinstance"
)

type stressOptions struct {
	n        int
	command  string
	deadline time.Duration
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	opts := &stressOptions{}
	cmd := newRootCmd(opts)
	return cmd.Execute()
}

func newRootCmd(opts *stressOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "stress-ipc",
		Short:         "Send many concurrent commands to the running overlay",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(*opts)
		},
	}

	cmd.Flags().IntVar(&opts.n, "n", 50, "number of clients to launch")
	cmd.Flags().StringVar(&opts.command, "command", "undo", "command line each client sends")
	cmd.Flags().DurationVar(&opts.deadline, "deadline", 5*time.Second, "per-client timeout")

	return cmd
}

type counts struct {
	ok, absent, failed int32
}

func runWithOptions(opts stressOptions) error {
	cmd, err := host.ParseCommand(opts.command)
	if err != nil {
		return err
	}
	start := time.Now()
	c := stress(opts.n, opts.deadline, func(ctx context.Context) error {
		return singleinstance.NewClient().Send(ctx, cmd.String())
	})
	fmt.Fprintf(os.Stdout, "launched=%d ok=%d no-resident=%d err=%d elapsed=%s\n", opts.n, c.ok, c.absent, c.failed, time.Since(start))
	return nil
}

func stress(n int, deadline time.Duration, send func(context.Context) error) counts {
	var wg sync.WaitGroup
	var c counts
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), deadline)
			defer cancel()
			switch err := send(ctx); {
			case err == nil:
				atomic.AddInt32(&c.ok, 1)
			case errors.Is(err, singleinstance.ErrNoResident):
				atomic.AddInt32(&c.absent, 1)
			default:
				atomic.AddInt32(&c.failed, 1)
			}
		}()
	}
	wg.Wait()
	return c
}
