// Package cli — stop.go implements the "dbup stop" command.
//
// The stop command stops the container of a managed service without
// removing it, so the database's data survives and a later start (or
// docker start) resumes it.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/dbup/internal/docker"
)

// NewStopCommand creates the "stop" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewStopCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop <service>",
		Short: "Stop a managed database service",
		Long: `Stop the container of a managed database service.

The container is stopped gracefully (SIGTERM, then SIGKILL after the
daemon's timeout) but not removed — its data is preserved.

Examples:
  dbup stop mysql
  dbup stop mariadb --json`,

		// Exactly one positional argument (service name) is required.
		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runStop(cmd.Context(), args[0])
		},
	}

	return cmd
}

// runStop locates the named service's container and stops it.
func runStop(ctx context.Context, serviceName string) error {
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

	VerboseLog("Stopping container %s (%s)...", c.ContainerName, shortID(c.ContainerID))
	if err := docker.StopContainer(ctx, cli, c.ContainerID); err != nil {
		return err
	}

	if IsJSONOutput() {
		printJSON(map[string]interface{}{
			"service":   serviceName,
			"container": c.ContainerName,
			"action":    "stopped",
		})
		return nil
	}
	fmt.Printf("Stopped service %q (container %s)\n", serviceName, c.ContainerName)
	return nil
}
