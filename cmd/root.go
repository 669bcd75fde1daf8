// Package cmd holds the obsctl subcommands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/smazurov/obsctl/internal/logging"
	"github.com/smazurov/obsctl/pkg/obsws"
	"github.com/spf13/cobra"
)

// obsFlags are the connection flags shared by every command that talks
// to an OBS instance.
type obsFlags struct {
	addr     string
	password string
	timeout  time.Duration
	logJSON  bool
}

func (f *obsFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.addr, "addr", "ws://localhost:4444", "OBS websocket address")
	cmd.PersistentFlags().StringVar(&f.password, "password", "", "OBS websocket password")
	cmd.PersistentFlags().DurationVar(&f.timeout, "timeout", 10*time.Second, "Request timeout")
	cmd.PersistentFlags().BoolVar(&f.logJSON, "log-json", false, "Use JSON log format")
}

// dial initializes logging, connects to OBS and returns a client plus a
// request context bounded by the timeout flag.
func (f *obsFlags) dial() (*obsws.Client, context.Context, context.CancelFunc, error) {
	loggingConfig := logging.Config{Level: "warn", Format: "text"}
	if f.logJSON {
		loggingConfig.Format = "json"
	}
	logging.Initialize(loggingConfig)

	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)

	var opts []obsws.Option
	if f.password != "" {
		opts = append(opts, obsws.WithPassword(f.password))
	}
	opts = append(opts, obsws.WithLogger(logging.GetLogger("obsws")))

	client, err := obsws.Connect(ctx, f.addr, opts...)
	if err != nil {
		cancel()
		return nil, nil, nil, fmt.Errorf("failed to connect to %s: %w", f.addr, err)
	}
	return client, ctx, cancel, nil
}

// fail prints an error and exits. Subcommands are one-shot, there is
// nothing to clean up beyond the deferred closes.
func fail(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
