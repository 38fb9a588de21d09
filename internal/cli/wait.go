// Package cli — wait.go implements the "dbup wait" command.
//
// The wait command blocks until a local TCP port accepts connections, or
// fails after a bounded number of probe attempts. It is the standalone
// surface over the readiness package, intended for scripts that launch a
// service by other means and need to pause until it is connectable.
//
// Exit codes: 0 once the port is connectable, 4 on malformed arguments
// (wrong arity, non-numeric port, non-positive budget), 5 when the
// attempt budget is exhausted.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/dbup/internal/model"
	"github.com/mmr-tortoise/dbup/internal/readiness"
)

// waitFlags holds the flag values for the wait command.
type waitFlags struct {
	// attempts is the probe budget.
	attempts int

	// interval is the fixed pause between failed probes.
	interval time.Duration
}

// NewWaitCommand creates the "wait" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewWaitCommand() *cobra.Command {
	flags := &waitFlags{}

	cmd := &cobra.Command{
		Use:   "wait <service> <port>",
		Short: "Block until a local TCP port accepts connections",
		Long: `Block until the given local TCP port accepts a connection, probing at a
fixed interval up to a bounded number of attempts.

The service argument is a free-form label used only in output; the port
is probed on localhost. Each probe is a plain TCP connect that is closed
immediately — no protocol payload is sent.

Examples:
  dbup wait mysql 13306
  dbup wait mariadb 23306 --attempts 40 --interval 500ms`,

		// Arity errors must map to the usage exit code, so argument
		// validation returns a CLIError instead of cobra's default.
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return model.NewCLIError(model.ExitUsage,
					fmt.Sprintf("expected exactly 2 arguments (service, port), got %d\nUsage: %s", len(args), cmd.UseLine()))
			}
			return nil
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			return runWait(cmd.Context(), args[0], args[1], flags)
		},
	}

	cmd.Flags().IntVar(&flags.attempts, "attempts", readiness.DefaultMaxAttempts,
		"Maximum number of connection probes before giving up")
	cmd.Flags().DurationVar(&flags.interval, "interval", readiness.DefaultInterval,
		"Pause between failed probes")

	return cmd
}

// runWait parses the port argument, runs the readiness waiter, and maps
// its terminal outcomes onto CLI exit codes.
func runWait(ctx context.Context, service, portArg string, flags *waitFlags) error {
	port, err := strconv.Atoi(portArg)
	if err != nil {
		return model.NewCLIError(model.ExitUsage,
			fmt.Sprintf("invalid port %q: must be a number", portArg))
	}

	err = readiness.Wait(ctx, readiness.Config{
		Name:        service,
		Port:        port,
		MaxAttempts: flags.attempts,
		Interval:    flags.interval,
		Logf:        VerboseLog,
	})

	if err != nil {
		return waitErrorToCLI(service, err)
	}

	printWaitResult(service, port)
	return nil
}

// waitErrorToCLI translates readiness package errors into CLIErrors with
// the documented exit codes. Validation failures (bad port, non-positive
// budget or interval) are usage errors; exhaustion is the timeout code;
// anything else (cancellation) is a general error.
func waitErrorToCLI(service string, err error) error {
	var timeoutErr *readiness.TimeoutError
	if errors.As(err, &timeoutErr) {
		return model.WrapCLIError(model.ExitWaitTimeout,
			fmt.Sprintf("service %q did not become ready", service), err)
	}

	if errors.Is(err, readiness.ErrInvalidPort) ||
		errors.Is(err, readiness.ErrAttemptsNotPositive) ||
		errors.Is(err, readiness.ErrIntervalNotPositive) {
		return model.WrapCLIError(model.ExitUsage, "invalid wait parameters", err)
	}

	return model.WrapCLIError(model.ExitGeneralError,
		fmt.Sprintf("wait for service %q aborted", service), err)
}

// printWaitResult outputs the success message in text or JSON format.
func printWaitResult(service string, port int) {
	if IsJSONOutput() {
		printJSON(map[string]interface{}{
			"service": service,
			"port":    port,
			"ready":   true,
		})
		return
	}
	fmt.Printf("Service %q is ready on port %d\n", service, port)
}
