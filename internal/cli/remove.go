// Package cli — remove.go implements the "dbup rm" command.
//
// The rm command removes a managed service's container. By default the
// container must already be stopped; --force kills and removes a running
// one.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/dbup/internal/docker"
)

// removeFlags holds the flag values for the rm command.
type removeFlags struct {
	// force kills a running container before removal.
	force bool
}

// NewRemoveCommand creates the "rm" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewRemoveCommand() *cobra.Command {
	flags := &removeFlags{}

	cmd := &cobra.Command{
		Use:   "rm <service>",
		Short: "Remove a managed database service container",
		Long: `Remove the container of a managed database service.

Without --force the container must already be stopped. With --force a
running container is killed first. The database's data is discarded
with the container.

Examples:
  dbup rm mysql
  dbup rm mariadb --force`,

		// Exactly one positional argument (service name) is required.
		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false,
		"Kill a running container before removing it")

	return cmd
}

// runRemove locates the named service's container and removes it.
func runRemove(ctx context.Context, serviceName string, flags *removeFlags) error {
	cli, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	VerboseLog("Connected to Docker daemon")

	c, err := docker.FindServiceContainer(ctx, cli, serviceName)
	if err != nil {
		return err
	}

	VerboseLog("Removing container %s (%s, force=%t)...", c.ContainerName, shortID(c.ContainerID), flags.force)
	if err := docker.RemoveContainer(ctx, cli, c.ContainerID, flags.force); err != nil {
		return err
	}

	if IsJSONOutput() {
		printJSON(map[string]interface{}{
			"service":   serviceName,
			"container": c.ContainerName,
			"action":    "removed",
		})
		return nil
	}
	fmt.Printf("Removed service %q (container %s)\n", serviceName, c.ContainerName)
	return nil
}
