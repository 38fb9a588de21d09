// Package cli — start.go implements the "dbup start" command.
//
// The start command restarts the stopped container of a managed service
// and, like up, blocks until its published port accepts connections. The
// service spec is recovered from the container's labels, so start works
// without a catalog file.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/dbup/internal/docker"
	"github.com/mmr-tortoise/dbup/internal/readiness"
)

// startFlags holds the flag values for the start command.
type startFlags struct {
	// noWait skips the readiness wait after starting the container.
	noWait bool

	// attempts and interval configure the readiness waiter.
	attempts int
	interval time.Duration
}

// NewStartCommand creates the "start" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewStartCommand() *cobra.Command {
	flags := &startFlags{}

	cmd := &cobra.Command{
		Use:   "start <service>",
		Short: "Start a stopped database service and wait for readiness",
		Long: `Start the stopped container of a managed database service.

The existing container is reused, so data written before the service was
stopped is still there. The command then blocks until the published port
accepts TCP connections (up to the attempt budget).

Examples:
  dbup start mysql
  dbup start mariadb --attempts 40 --interval 500ms
  dbup start mysql --no-wait`,

		// Exactly one positional argument (service name) is required.
		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.noWait, "no-wait", false,
		"Return immediately after starting the container")
	cmd.Flags().IntVar(&flags.attempts, "attempts", readiness.DefaultMaxAttempts,
		"Maximum number of readiness probes before giving up")
	cmd.Flags().DurationVar(&flags.interval, "interval", readiness.DefaultInterval,
		"Pause between failed readiness probes")

	return cmd
}

// runStart locates the named service's container, starts it, and waits
// for its published port.
func runStart(ctx context.Context, serviceName string, flags *startFlags) error {
	cli, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	VerboseLog("Connected to Docker daemon")

	c, err := docker.FindServiceContainer(ctx, cli, serviceName)
	if err != nil {
		return err // FindServiceContainer already returns a CLIError
	}

	// The host port comes from the labels written at launch time, not
	// from the catalog: the container keeps the binding it was created
	// with even if the catalog changed since.
	spec, _, err := docker.ParseLabels(c.Labels)
	if err != nil {
		return err
	}

	VerboseLog("Starting container %s (%s)...", c.ContainerName, shortID(c.ContainerID))
	if err := docker.StartContainer(ctx, cli, c.ContainerID); err != nil {
		return err
	}

	if !flags.noWait {
		err = readiness.Wait(ctx, readiness.Config{
			Name:        spec.Name,
			Port:        spec.HostPort,
			MaxAttempts: flags.attempts,
			Interval:    flags.interval,
			Logf:        VerboseLog,
		})
		if err != nil {
			return waitErrorToCLI(spec.Name, err)
		}
	}

	if IsJSONOutput() {
		printJSON(map[string]interface{}{
			"service":   serviceName,
			"container": c.ContainerName,
			"hostPort":  spec.HostPort,
			"action":    "started",
			"ready":     !flags.noWait,
		})
		return nil
	}
	fmt.Printf("Started service %q (container %s) on port %d\n",
		serviceName, c.ContainerName, spec.HostPort)
	return nil
}
