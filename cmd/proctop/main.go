package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	root := buildRoot(os.Stdin, os.Stdout, os.Stderr)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildRoot creates the root command and its subcommands over the given streams.
func buildRoot(in io.Reader, out, errOut io.Writer) *cobra.Command {
	globalFlags := &GlobalFlags{}
	snapshotFlags := &SnapshotFlags{}
	proctopCommand := command{in: in, out: out, errOut: errOut, flags: globalFlags}

	root := createRootCommand(proctopCommand, globalFlags)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	root.AddCommand(
		createSnapshotCommand(proctopCommand, snapshotFlags),
		createSignalCommand(proctopCommand),
	)
	return root
}

func createRootCommand(proctopCommand command, flags *GlobalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:   "proctop",
		Short: "Interactive process monitor",
		Long: `proctop redraws a table of running processes every interval and reads
commands from standard input:

  <PID> <SIGNAL>   send SIGNAL (a number) to PID
  q                quit

Examples:
  proctop
  proctop --interval=500ms --capacity=40
  proctop --http-listen=127.0.0.1:9090   # also serve /api/processes and /metrics
  proctop snapshot --json
  proctop signal 1234 15`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return proctopCommand.Run(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.ConfigPath, "config", "", "path to TOML config file (optional)")
	pf.DurationVar(&flags.Interval, "interval", 0, "refresh interval (default 1s)")
	pf.IntVar(&flags.Capacity, "capacity", 0, "maximum rows shown (default 20)")
	pf.StringVar(&flags.Source, "source", "", "process source: auto, procfs or gopsutil")
	pf.StringVar(&flags.ProcRoot, "proc-root", "", "procfs mount point (default /proc)")
	pf.BoolVar(&flags.QuitOnEOF, "quit-on-eof", false, "quit when standard input is closed")
	pf.BoolVar(&flags.NoColor, "no-color", false, "disable header and log colors")
	pf.StringVar(&flags.HTTPListen, "http-listen", "", "serve the read-only status API on this address")
	pf.StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&flags.LogFile, "log-file", "", "write logs to this rotating file instead of stderr")
	return root
}

func createSnapshotCommand(proctopCommand command, flags *SnapshotFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print one process table and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return proctopCommand.Snapshot(cmd, *flags)
		},
	}
	cmd.Flags().BoolVar(&flags.JSON, "json", false, "print rows as JSON")
	return cmd
}

func createSignalCommand(proctopCommand command) *cobra.Command {
	return &cobra.Command{
		Use:   "signal <pid> <signal>",
		Short: "Send one signal to a process and exit",
		Long: `Send a numeric signal to a process, exactly like typing "<pid> <signal>"
in the interactive monitor. Exits non-zero when delivery fails.

Examples:
  proctop signal 1234 15
  proctop signal 1234 0    # probe only`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return proctopCommand.Signal(cmd, args)
		},
	}
}
