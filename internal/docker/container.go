// container.go implements Docker container lifecycle operations for the
// dbup CLI: launching a database container from a ServiceSpec, and
// listing, starting, stopping, and removing managed containers.
//
// All managed containers are identified by the "dbup.managed-by" label,
// which enables filtering them from unrelated containers on the same host.
package docker

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	// Docker API types for container listing results.
	// types.Container is the struct returned by ContainerList.
	"github.com/docker/docker/api/types"

	// container package provides Config, HostConfig, and the
	// List/Start/Stop/Remove option structs.
	"github.com/docker/docker/api/types/container"

	// filters package provides Args for building Docker API query filters.
	"github.com/docker/docker/api/types/filters"

	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/api/types/strslice"

	// nat provides typed port and port-binding values for publishing
	// container ports on the host.
	"github.com/docker/go-connections/nat"

	"github.com/mmr-tortoise/dbup/internal/model"
)

// RunService creates and starts a database container from the given spec
// using the Docker SDK. The container is launched detached with:
//   - the spec's host port published against its container port (TCP)
//   - the spec's config file (if any) bind-mounted read-only
//   - dbup management labels for later discovery
//
// The image is assumed to be present locally or pullable by the daemon's
// configured registries; dbup never builds images.
//
// Returns the new container's ID, or a CLIError with ExitDockerNotRunning
// when the daemon rejects the request.
func RunService(ctx context.Context, cli *Client, spec model.ServiceSpec) (string, error) {
	natPort, err := nat.NewPort("tcp", strconv.Itoa(spec.ContainerPort))
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("invalid container port %d", spec.ContainerPort), err)
	}

	// Environment variables use the SDK's "KEY=VALUE" slice form.
	// Sorted for deterministic container configuration.
	env := make([]string, 0, len(spec.Env))
	for k, v := range spec.Env {
		env = append(env, k+"="+v)
	}
	sort.Strings(env)

	cfg := &container.Config{
		Image:        spec.Image,
		Env:          env,
		Cmd:          strslice.StrSlice(spec.Command),
		Labels:       BuildLabels(spec, time.Now()),
		ExposedPorts: nat.PortSet{natPort: struct{}{}},
	}

	hostCfg := &container.HostConfig{
		PortBindings: nat.PortMap{
			natPort: []nat.PortBinding{
				{HostIP: "0.0.0.0", HostPort: strconv.Itoa(spec.HostPort)},
			},
		},
	}

	// The server configuration file is mounted read-only so the
	// container can never modify the caller's file.
	if spec.ConfigFile != "" {
		hostCfg.Mounts = append(hostCfg.Mounts, mount.Mount{
			Type:     mount.TypeBind,
			Source:   spec.ConfigFile,
			Target:   spec.ConfigTarget,
			ReadOnly: true,
		})
	}

	resp, err := cli.Inner().ContainerCreate(ctx, cfg, hostCfg, nil, nil, spec.ContainerName)
	if err != nil {
		return "", model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to create container %q from image %q", spec.ContainerName, spec.Image),
			err,
		)
	}

	if err := cli.Inner().ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return "", model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to start container %q", spec.ContainerName),
			err,
		)
	}

	return resp.ID, nil
}

// ListManagedContainers queries the Docker daemon for all containers that
// have the "dbup.managed-by=dbup" label. It returns a ContainerInfo for
// each managed container, including stopped ones.
//
// This function is the primary entry point for discovering which services
// currently exist. All state is derived from Docker labels rather than
// any external database.
func ListManagedContainers(ctx context.Context, cli *Client) ([]model.ContainerInfo, error) {
	// Filtering server-side by label is more efficient than listing all
	// containers and filtering in Go.
	filterArgs := filters.NewArgs(
		filters.Arg("label", LabelManagedBy+"="+ManagedByValue),
	)

	// The All flag includes stopped/exited containers, which still need
	// to be tracked for the list and rm commands.
	containers, err := cli.Inner().ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			"failed to list Docker containers",
			err,
		)
	}

	// Convert Docker API structs to domain model ContainerInfo.
	// This decouples the rest of the application from the SDK types.
	result := make([]model.ContainerInfo, 0, len(containers))
	for _, c := range containers {
		result = append(result, containerToInfo(c))
	}

	return result, nil
}

// containerToInfo converts a Docker API Container struct to our domain
// model ContainerInfo. This is a pure mapping function with no side effects.
//
// The Docker API returns container names with a leading "/" prefix
// (e.g., "/dbup-mysql"), which we strip for cleaner display in CLI output.
func containerToInfo(c types.Container) model.ContainerInfo {
	name := ""
	if len(c.Names) > 0 {
		// The leading "/" is an artifact of the API, not meaningful
		// to users.
		name = strings.TrimPrefix(c.Names[0], "/")
	}

	return model.ContainerInfo{
		ContainerID:   c.ID,
		ContainerName: name,
		State:         c.State,
		Labels:        c.Labels,
	}
}

// FindServiceContainer locates the managed container for the named catalog
// service. Returns a CLIError with ExitServiceNotFound when no managed
// container carries the service's label.
func FindServiceContainer(ctx context.Context, cli *Client, serviceName string) (model.ContainerInfo, error) {
	containers, err := ListManagedContainers(ctx, cli)
	if err != nil {
		return model.ContainerInfo{}, err
	}

	for _, c := range containers {
		if c.Labels[LabelService] == serviceName {
			return c, nil
		}
	}

	return model.ContainerInfo{}, model.NewCLIError(model.ExitServiceNotFound,
		fmt.Sprintf("no managed container found for service %q", serviceName))
}

// BuildInstances converts raw container records into ServiceInstance
// domain objects by parsing each container's dbup labels. Containers with
// unparseable labels are skipped (a single corrupted container should not
// prevent listing the others); the skipped names are returned for the
// caller to report in verbose output.
func BuildInstances(containers []model.ContainerInfo) (instances []model.ServiceInstance, skipped []string) {
	for _, c := range containers {
		spec, createdAt, err := ParseLabels(c.Labels)
		if err != nil {
			skipped = append(skipped, c.ContainerName)
			continue
		}
		spec.ContainerName = c.ContainerName

		instances = append(instances, model.ServiceInstance{
			Spec:      spec,
			Container: c,
			Status:    stateToStatus(c.State),
			CreatedAt: createdAt,
		})
	}

	// Sort by service name for stable CLI output.
	sort.Slice(instances, func(i, j int) bool {
		return instances[i].Spec.Name < instances[j].Spec.Name
	})

	return instances, skipped
}

// stateToStatus maps a Docker container state string onto the service
// lifecycle model. Anything other than "running" (exited, created,
// paused, dead) is presented as stopped.
func stateToStatus(state string) model.ServiceStatus {
	if state == "running" {
		return model.StatusRunning
	}
	return model.StatusStopped
}

// StartContainer starts a stopped container by its ID using the Docker
// SDK. If the container is already running, Docker returns an error.
func StartContainer(ctx context.Context, cli *Client, containerID string) error {
	err := cli.Inner().ContainerStart(ctx, containerID, container.StartOptions{})
	if err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to start container %q", containerID),
			err,
		)
	}
	return nil
}

// StopContainer stops a running container by its ID using the Docker SDK.
// It sends a SIGTERM to the container's main process and waits for it to
// exit gracefully; the daemon escalates to SIGKILL after its default
// timeout (typically 10 seconds).
func StopContainer(ctx context.Context, cli *Client, containerID string) error {
	// StopOptions with nil Timeout uses Docker's default timeout,
	// giving the database a chance to shut down cleanly.
	err := cli.Inner().ContainerStop(ctx, containerID, container.StopOptions{})
	if err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to stop container %q", containerID),
			err,
		)
	}
	return nil
}

// RemoveContainer removes a container by its ID using the Docker SDK.
// The container must be stopped first unless force is true, in which case
// Docker kills it (SIGKILL) before removal.
func RemoveContainer(ctx context.Context, cli *Client, containerID string, force bool) error {
	err := cli.Inner().ContainerRemove(ctx, containerID, container.RemoveOptions{
		Force: force,
	})
	if err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to remove container %q", containerID),
			err,
		)
	}
	return nil
}
