package docker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/dbup/internal/model"
)

// makeTestContainer is a helper that creates a model.ContainerInfo with
// dbup management labels. This avoids repetitive label construction
// across test cases.
func makeTestContainer(id, name, service, state string, hostPort string) model.ContainerInfo {
	return model.ContainerInfo{
		ContainerID:   id,
		ContainerName: name,
		State:         state,
		Labels: map[string]string{
			LabelManagedBy:     ManagedByValue,
			LabelService:       service,
			LabelImage:         "mysql:8.0",
			LabelHostPort:      hostPort,
			LabelContainerPort: "3306",
			LabelConfigFile:    "",
			LabelCreatedAt:     "2026-08-28T10:00:00Z",
		},
	}
}

// TestBuildInstances verifies that container records are converted into
// ServiceInstance objects sorted by service name, with states mapped onto
// the lifecycle model.
func TestBuildInstances(t *testing.T) {
	containers := []model.ContainerInfo{
		makeTestContainer("bbb222", "dbup-mysql", "mysql", "running", "13306"),
		makeTestContainer("aaa111", "dbup-mariadb", "mariadb", "exited", "23306"),
	}

	instances, skipped := BuildInstances(containers)

	require.Len(t, instances, 2)
	assert.Empty(t, skipped)

	// Sorted alphabetically: mariadb before mysql.
	assert.Equal(t, "mariadb", instances[0].Spec.Name)
	assert.Equal(t, model.StatusStopped, instances[0].Status)
	assert.Equal(t, 23306, instances[0].Spec.HostPort)

	assert.Equal(t, "mysql", instances[1].Spec.Name)
	assert.Equal(t, model.StatusRunning, instances[1].Status)
	assert.Equal(t, "dbup-mysql", instances[1].Spec.ContainerName,
		"container name should come from the live container, not labels")
}

// TestBuildInstances_SkipsCorrupted verifies that a container with broken
// labels is skipped and reported, without failing the whole conversion.
func TestBuildInstances_SkipsCorrupted(t *testing.T) {
	good := makeTestContainer("aaa111", "dbup-mysql", "mysql", "running", "13306")
	bad := makeTestContainer("bbb222", "dbup-broken", "broken", "running", "not-a-port")

	instances, skipped := BuildInstances([]model.ContainerInfo{good, bad})

	require.Len(t, instances, 1)
	assert.Equal(t, "mysql", instances[0].Spec.Name)
	assert.Equal(t, []string{"dbup-broken"}, skipped)
}

// TestBuildInstances_Empty verifies the zero-container case.
func TestBuildInstances_Empty(t *testing.T) {
	instances, skipped := BuildInstances(nil)
	assert.Empty(t, instances)
	assert.Empty(t, skipped)
}

// TestStateToStatus pins the mapping from Docker container states onto
// the two-state service lifecycle.
func TestStateToStatus(t *testing.T) {
	tests := []struct {
		state    string
		expected model.ServiceStatus
	}{
		{"running", model.StatusRunning},
		{"exited", model.StatusStopped},
		{"created", model.StatusStopped},
		{"paused", model.StatusStopped},
		{"dead", model.StatusStopped},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			assert.Equal(t, tt.expected, stateToStatus(tt.state))
		})
	}
}
