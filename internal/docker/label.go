package docker

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mmr-tortoise/dbup/internal/model"
)

// Label key constants define the Docker label keys used to persist
// service metadata on containers. These labels serve as the sole
// persistence mechanism — there is no external state file.
//
// All keys share the "dbup." prefix to namespace them and avoid
// collisions with labels set by other tools.
const (
	// LabelPrefix is the common prefix for all dbup labels.
	// Using a consistent prefix enables efficient label-based filtering
	// when listing containers via the Docker API.
	LabelPrefix = "dbup."

	// LabelManagedBy identifies containers managed by dbup.
	// This is the primary label used for filtering and discovery.
	// Key: "dbup.managed-by", Value: always "dbup".
	LabelManagedBy = LabelPrefix + "managed-by"

	// LabelService stores the catalog service name.
	// Key: "dbup.service", Value: service name (e.g., "mysql").
	LabelService = LabelPrefix + "service"

	// LabelImage stores the image reference the service was launched from.
	// Key: "dbup.image", Value: image reference (e.g., "mysql:8.0").
	LabelImage = LabelPrefix + "image"

	// LabelHostPort stores the published host port.
	// Key: "dbup.host-port", Value: decimal port number.
	LabelHostPort = LabelPrefix + "host-port"

	// LabelContainerPort stores the database's listening port inside
	// the container.
	// Key: "dbup.container-port", Value: decimal port number.
	LabelContainerPort = LabelPrefix + "container-port"

	// LabelConfigFile stores the host path of the mounted server
	// configuration file, if any.
	// Key: "dbup.config", Value: absolute path, may be empty.
	LabelConfigFile = LabelPrefix + "config"

	// LabelCreatedAt stores the launch timestamp.
	// Key: "dbup.created-at", Value: RFC3339 formatted timestamp.
	LabelCreatedAt = LabelPrefix + "created-at"
)

// ManagedByValue is the constant value for the LabelManagedBy label.
// All containers created by this CLI are tagged with this value,
// enabling discovery via Docker API label filters.
const ManagedByValue = "dbup"

// BuildLabels constructs a Docker label map from a ServiceSpec.
// These labels are applied to the service's container at launch,
// allowing full reconstruction of the spec from container inspection
// alone (no external state file needed).
func BuildLabels(spec model.ServiceSpec, createdAt time.Time) map[string]string {
	return map[string]string{
		LabelManagedBy:     ManagedByValue,
		LabelService:       spec.Name,
		LabelImage:         spec.Image,
		LabelHostPort:      strconv.Itoa(spec.HostPort),
		LabelContainerPort: strconv.Itoa(spec.ContainerPort),
		LabelConfigFile:    spec.ConfigFile,
		// RFC3339 in UTC keeps timestamps consistent regardless of the
		// host machine's timezone.
		LabelCreatedAt: createdAt.UTC().Format(time.RFC3339),
	}
}

// ParseLabels reconstructs a ServiceSpec and launch timestamp from Docker
// container labels. This is the inverse of BuildLabels and is used when
// listing or inspecting containers to rebuild the domain model.
//
// Required labels: managed-by, service, image, host-port, container-port,
// created-at. Missing required labels cause an error. Env and Command are
// not reconstructed — they are runtime inputs, queryable via docker
// inspect when needed.
func ParseLabels(labels map[string]string) (model.ServiceSpec, time.Time, error) {
	// Check all required labels at once rather than failing on the
	// first missing one, so the error message can list every missing
	// label for easier debugging.
	requiredKeys := []string{
		LabelManagedBy,
		LabelService,
		LabelImage,
		LabelHostPort,
		LabelContainerPort,
		LabelCreatedAt,
	}

	var missing []string
	for _, key := range requiredKeys {
		if _, ok := labels[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return model.ServiceSpec{}, time.Time{},
			fmt.Errorf("missing required Docker labels: %s", strings.Join(missing, ", "))
	}

	if labels[LabelManagedBy] != ManagedByValue {
		return model.ServiceSpec{}, time.Time{}, fmt.Errorf(
			"label %s has unexpected value %q (expected %q)",
			LabelManagedBy, labels[LabelManagedBy], ManagedByValue,
		)
	}

	hostPort, err := strconv.Atoi(labels[LabelHostPort])
	if err != nil {
		return model.ServiceSpec{}, time.Time{},
			fmt.Errorf("invalid label %s=%q: %w", LabelHostPort, labels[LabelHostPort], err)
	}

	containerPort, err := strconv.Atoi(labels[LabelContainerPort])
	if err != nil {
		return model.ServiceSpec{}, time.Time{},
			fmt.Errorf("invalid label %s=%q: %w", LabelContainerPort, labels[LabelContainerPort], err)
	}

	createdAt, err := time.Parse(time.RFC3339, labels[LabelCreatedAt])
	if err != nil {
		return model.ServiceSpec{}, time.Time{},
			fmt.Errorf("invalid label %s: %w", LabelCreatedAt, err)
	}

	spec := model.ServiceSpec{
		Name:          labels[LabelService],
		Image:         labels[LabelImage],
		ConfigFile:    labels[LabelConfigFile],
		HostPort:      hostPort,
		ContainerPort: containerPort,
	}

	return spec, createdAt, nil
}
