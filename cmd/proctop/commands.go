package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/loykin/proctop"
	"github.com/loykin/proctop/internal/config"
	"github.com/loykin/proctop/internal/render"
)

// command holds the streams shared by all subcommands.
type command struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	flags  *GlobalFlags
}

func (c command) setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := loadConfig(cmd, c.flags)
	if err != nil {
		return nil, nil, err
	}
	return cfg, cfg.Log.Logger().NewSlogger(c.errOut), nil
}

// Run starts the interactive monitor and blocks until quit or cancellation.
func (c command) Run(cmd *cobra.Command) error {
	cfg, logger, err := c.setup(cmd)
	if err != nil {
		return err
	}
	if cfg.Metrics.Enabled {
		if err := proctop.RegisterMetricsDefault(); err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
	}
	mon, err := proctop.NewMonitor(cfg, c.in, c.out, logger)
	if err != nil {
		return err
	}
	if cfg.HTTP.Listen != "" {
		srv, err := mon.NewHTTPServer(cfg.HTTP.Listen, cfg.HTTP.BasePath, logger)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}
	return mon.Run(cmd.Context())
}

// Snapshot scans once and prints the table or its JSON rows.
func (c command) Snapshot(cmd *cobra.Command, flags SnapshotFlags) error {
	cfg, logger, err := c.setup(cmd)
	if err != nil {
		return err
	}
	records, err := proctop.Snapshot(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	if flags.JSON {
		if records == nil {
			records = []proctop.Record{}
		}
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	return render.New(c.out, render.Options{}).Render(records)
}

var errSignalArgs = errors.New("pid and signal must be integers")

// Signal dispatches one signal and prints the acknowledgement. A failed
// delivery is returned as the error so the process exits non-zero.
func (c command) Signal(cmd *cobra.Command, args []string) error {
	_, logger, err := c.setup(cmd)
	if err != nil {
		return err
	}
	pid, err1 := strconv.Atoi(args[0])
	sig, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		return fmt.Errorf("%w: %q %q", errSignalArgs, args[0], args[1])
	}
	res := proctop.Signal(pid, sig, logger)
	if !res.OK() {
		return errors.New(res.Message())
	}
	_, err = fmt.Fprintln(c.out, res.Message())
	return err
}
