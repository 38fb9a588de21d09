// Package cli — up.go implements the "dbup up" command.
//
// The up command launches one database service from the catalog: it
// resolves the service spec, verifies the host port is free, starts the
// container via the Docker SDK, and then blocks until the published port
// accepts connections (unless --no-wait is given).
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/dbup/internal/catalog"
	"github.com/mmr-tortoise/dbup/internal/docker"
	"github.com/mmr-tortoise/dbup/internal/model"
	"github.com/mmr-tortoise/dbup/internal/port"
	"github.com/mmr-tortoise/dbup/internal/readiness"
)

// upFlags holds the flag values for the up command.
type upFlags struct {
	// catalogPath is an optional catalog file merged over the built-ins.
	catalogPath string

	// hostPort overrides the spec's published host port when non-zero.
	hostPort int

	// noWait skips the readiness wait after starting the container.
	noWait bool

	// attempts and interval configure the readiness waiter.
	attempts int
	interval time.Duration
}

// NewUpCommand creates the "up" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewUpCommand() *cobra.Command {
	flags := &upFlags{}

	cmd := &cobra.Command{
		Use:   "up <service>",
		Short: "Launch a database service container and wait for readiness",
		Long: `Launch the named database service from the catalog.

The container is started detached with the service's fixed port mapping
and configuration, then the command blocks until the published port
accepts TCP connections (up to the attempt budget).

Examples:
  dbup up mysql
  dbup up mariadb --attempts 40 --interval 500ms
  dbup up mysql57 --catalog ./dbup.jsonc
  dbup up mysql --port 13307 --no-wait`,

		// Exactly one positional argument (service name) is required.
		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runUp(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.catalogPath, "catalog", "",
		"Catalog file (.jsonc/.json/.yaml/.yml) merged over the built-in services")
	cmd.Flags().IntVar(&flags.hostPort, "port", 0,
		"Override the published host port")
	cmd.Flags().BoolVar(&flags.noWait, "no-wait", false,
		"Return immediately after starting the container")
	cmd.Flags().IntVar(&flags.attempts, "attempts", readiness.DefaultMaxAttempts,
		"Maximum number of readiness probes before giving up")
	cmd.Flags().DurationVar(&flags.interval, "interval", readiness.DefaultInterval,
		"Pause between failed readiness probes")

	return cmd
}

// runUp is the main logic function for the up command.
func runUp(ctx context.Context, serviceName string, flags *upFlags) error {
	// Step 1: Resolve the service spec from the catalog.
	cat, err := catalog.Load(flags.catalogPath)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to load catalog", err)
	}

	spec, err := cat.Resolve(serviceName)
	if err != nil {
		return err // Resolve already returns CLIError with ExitServiceNotFound
	}

	if flags.hostPort != 0 {
		if err := model.ValidatePort(flags.hostPort); err != nil {
			return model.WrapCLIError(model.ExitUsage, "invalid --port", err)
		}
		spec.HostPort = flags.hostPort
	}

	VerboseLog("Resolved service %q: image=%s ports=%s", spec.Name, spec.Image, spec.PortMapping())

	// Step 2: Verify the host port is free before asking Docker to bind
	// it. Failing here gives a clearer message than the daemon's bind
	// error, and can suggest a nearby alternative.
	scanner := port.NewScanner()
	if !scanner.IsAvailable(spec.HostPort) {
		msg := fmt.Sprintf("host port %d is already in use", spec.HostPort)
		if alt, scanErr := scanner.FindAvailable(spec.HostPort+1, spec.HostPort+100); scanErr == nil {
			msg += fmt.Sprintf(" (try --port %d)", alt)
		}
		return model.NewCLIError(model.ExitGeneralError, msg)
	}

	// Step 3: Connect to the Docker daemon.
	cli, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	if err := cli.Ping(ctx); err != nil {
		return err
	}
	VerboseLog("Connected to Docker daemon")

	// Step 4: Launch the container.
	containerID, err := docker.RunService(ctx, cli, spec)
	if err != nil {
		return err
	}
	VerboseLog("Started container %s (%s)", spec.ContainerName, shortID(containerID))

	// Step 5: Block until the database accepts connections.
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

	printUpResult(spec, containerID, !flags.noWait)
	return nil
}

// shortID truncates a container ID to the familiar 12-character form
// used by docker ps.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// printUpResult outputs the up command result in text or JSON format.
func printUpResult(spec model.ServiceSpec, containerID string, waited bool) {
	if IsJSONOutput() {
		printJSON(map[string]interface{}{
			"service":     spec.Name,
			"image":       spec.Image,
			"container":   spec.ContainerName,
			"containerId": shortID(containerID),
			"hostPort":    spec.HostPort,
			"ready":       waited,
		})
		return
	}

	fmt.Printf("Started %s (%s) as %s\n", spec.Name, spec.Image, spec.ContainerName)
	fmt.Printf("  Port: localhost:%d → %d\n", spec.HostPort, spec.ContainerPort)
	if waited {
		fmt.Printf("  Ready: accepting connections on port %d\n", spec.HostPort)
	} else {
		fmt.Printf("  Ready: not checked (--no-wait)\n")
	}
}
