// Package cli — list.go implements the "dbup list" command.
//
// The list command displays all managed database services by querying
// Docker for containers with the "dbup.managed-by=dbup" label. Results
// are presented as a text table or JSON, depending on the --json flag.
//
// An optional --status flag allows filtering by lifecycle state
// (running, stopped, or all).
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/dbup/internal/docker"
	"github.com/mmr-tortoise/dbup/internal/model"
)

// listFlags holds the flag values for the list command.
type listFlags struct {
	// status filters services by their lifecycle state.
	// Valid values: "running", "stopped", "all" (default).
	status string
}

// NewListCommand creates the "list" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewListCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List managed database services",
		Long: `List all database containers managed by dbup and their status.

Each service is shown with its name, image, lifecycle status, and
published port mapping.

Examples:
  dbup list
  dbup list --status running
  dbup list --json`,

		// No positional arguments are required for the list command.
		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.status, "status", "all",
		"Filter by status: running, stopped, all (default: all)")

	return cmd
}

// runList is the main logic function for the list command.
// It connects to Docker, discovers managed services, applies the status
// filter, and outputs results in the appropriate format.
func runList(ctx context.Context, flags *listFlags) error {
	// Step 1: Validate the --status flag value.
	if flags.status != "all" {
		if _, err := model.ParseServiceStatus(flags.status); err != nil {
			return model.NewCLIError(model.ExitUsage,
				fmt.Sprintf("invalid status filter %q: valid values are running, stopped, all", flags.status))
		}
	}

	// Step 2: Connect to Docker and verify the daemon is available.
	cli, err := docker.NewClient()
	if err != nil {
		return err // NewClient already returns CLIError with ExitDockerNotRunning
	}
	defer func() { _ = cli.Close() }()

	VerboseLog("Connected to Docker daemon")

	// Step 3: Discover managed containers and rebuild the domain model
	// from their labels.
	containers, err := docker.ListManagedContainers(ctx, cli)
	if err != nil {
		return err
	}
	VerboseLog("Found %d managed containers", len(containers))

	instances, skippedNames := docker.BuildInstances(containers)
	for _, name := range skippedNames {
		// A single corrupted container should not prevent listing others.
		VerboseLog("Warning: skipping container %q: unparseable dbup labels", name)
	}

	// Step 4: Apply the --status filter.
	instances = filterInstances(instances, flags.status)

	// Step 5: Output results in the appropriate format.
	printListResult(instances)
	return nil
}

// filterInstances returns the instances matching the status filter.
// "all" passes everything through.
func filterInstances(instances []model.ServiceInstance, status string) []model.ServiceInstance {
	if status == "all" {
		return instances
	}
	filtered := make([]model.ServiceInstance, 0, len(instances))
	for _, inst := range instances {
		if inst.Status.String() == status {
			filtered = append(filtered, inst)
		}
	}
	return filtered
}

// printListResult outputs the service list in text or JSON format,
// depending on the global --json flag.
func printListResult(instances []model.ServiceInstance) {
	if IsJSONOutput() {
		printListResultJSON(instances)
	} else {
		printListResultText(instances)
	}
}

// listServiceJSON is the JSON output structure for a single service in
// the list command.
type listServiceJSON struct {
	Name          string `json:"name"`
	Image         string `json:"image"`
	Container     string `json:"container"`
	Status        string `json:"status"`
	HostPort      int    `json:"hostPort"`
	ContainerPort int    `json:"containerPort"`
	CreatedAt     string `json:"createdAt"`
}

// buildListJSON converts instances to the JSON output structure.
// Split out from printing for testability.
func buildListJSON(instances []model.ServiceInstance) []listServiceJSON {
	// An empty slice instead of nil ensures JSON output shows []
	// instead of null when no services are found.
	services := make([]listServiceJSON, 0, len(instances))
	for _, inst := range instances {
		services = append(services, listServiceJSON{
			Name:          inst.Spec.Name,
			Image:         inst.Spec.Image,
			Container:     inst.Spec.ContainerName,
			Status:        inst.Status.String(),
			HostPort:      inst.Spec.HostPort,
			ContainerPort: inst.Spec.ContainerPort,
			CreatedAt:     inst.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return services
}

// printListResultJSON outputs the service list as structured JSON.
// The top-level key is "services" containing an array of service objects.
func printListResultJSON(instances []model.ServiceInstance) {
	printJSON(map[string]interface{}{
		"services": buildListJSON(instances),
	})
}

// printListResultText outputs the service list as a human-readable text
// table with aligned columns.
//
// The table format is:
//
//	NAME      IMAGE          STATUS    PORT
//	mariadb   mariadb:10.5   stopped   23306:3306
//	mysql     mysql:8.0      running   13306:3306
func printListResultText(instances []model.ServiceInstance) {
	if len(instances) == 0 {
		fmt.Println("No managed database services found.")
		return
	}

	fmt.Printf("%-12s %-24s %-10s %s\n", "NAME", "IMAGE", "STATUS", "PORT")
	for _, inst := range instances {
		fmt.Printf("%-12s %-24s %-10s %s\n",
			inst.Spec.Name,
			inst.Spec.Image,
			inst.Status.String(),
			inst.Spec.PortMapping(),
		)
	}
}
