package docker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/dbup/internal/model"
)

// TestBuildLabels verifies that BuildLabels converts a ServiceSpec into a
// Docker label map with all required keys and values.
func TestBuildLabels(t *testing.T) {
	createdAt := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	spec := model.ServiceSpec{
		Name:          "mysql",
		Image:         "mysql:8.0",
		ContainerName: "dbup-mysql",
		ConfigFile:    "/etc/dbup/my.cnf",
		HostPort:      13306,
		ContainerPort: 3306,
	}

	labels := BuildLabels(spec, createdAt)

	assert.Equal(t, ManagedByValue, labels[LabelManagedBy],
		"managed-by label should always be set to the constant value")
	assert.Equal(t, "mysql", labels[LabelService])
	assert.Equal(t, "mysql:8.0", labels[LabelImage])
	assert.Equal(t, "13306", labels[LabelHostPort])
	assert.Equal(t, "3306", labels[LabelContainerPort])
	assert.Equal(t, "/etc/dbup/my.cnf", labels[LabelConfigFile])
	assert.Equal(t, "2026-08-28T10:00:00Z", labels[LabelCreatedAt])
	assert.Len(t, labels, 7)
}

// TestBuildLabels_NonUTC verifies that timestamps are normalized to UTC
// regardless of the input zone.
func TestBuildLabels_NonUTC(t *testing.T) {
	jst := time.FixedZone("JST", 9*3600)
	createdAt := time.Date(2026, 8, 28, 19, 0, 0, 0, jst)

	labels := BuildLabels(model.ServiceSpec{Name: "mariadb", Image: "mariadb:10.5",
		HostPort: 23306, ContainerPort: 3306}, createdAt)

	assert.Equal(t, "2026-08-28T10:00:00Z", labels[LabelCreatedAt])
}

// TestParseLabels_RoundTrip verifies that ParseLabels is the inverse of
// BuildLabels for the fields that labels persist.
func TestParseLabels_RoundTrip(t *testing.T) {
	createdAt := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	original := model.ServiceSpec{
		Name:          "mariadb",
		Image:         "mariadb:10.5",
		ConfigFile:    "/etc/dbup/mariadb.cnf",
		HostPort:      23306,
		ContainerPort: 3306,
	}

	spec, parsedAt, err := ParseLabels(BuildLabels(original, createdAt))
	require.NoError(t, err)

	assert.Equal(t, original.Name, spec.Name)
	assert.Equal(t, original.Image, spec.Image)
	assert.Equal(t, original.ConfigFile, spec.ConfigFile)
	assert.Equal(t, original.HostPort, spec.HostPort)
	assert.Equal(t, original.ContainerPort, spec.ContainerPort)
	assert.True(t, createdAt.Equal(parsedAt))
}

// TestParseLabels_MissingRequired verifies that every missing required
// label is reported, not just the first one.
func TestParseLabels_MissingRequired(t *testing.T) {
	_, _, err := ParseLabels(map[string]string{
		LabelManagedBy: ManagedByValue,
		LabelService:   "mysql",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), LabelImage)
	assert.Contains(t, err.Error(), LabelHostPort)
	assert.Contains(t, err.Error(), LabelContainerPort)
	assert.Contains(t, err.Error(), LabelCreatedAt)
}

// TestParseLabels_WrongManagedBy verifies that containers labeled by some
// other tool are rejected even if all keys are present.
func TestParseLabels_WrongManagedBy(t *testing.T) {
	labels := BuildLabels(model.ServiceSpec{Name: "mysql", Image: "mysql:8.0",
		HostPort: 13306, ContainerPort: 3306}, time.Now())
	labels[LabelManagedBy] = "someone-else"

	_, _, err := ParseLabels(labels)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected value")
}

// TestParseLabels_MalformedValues covers non-numeric ports and an
// unparseable timestamp.
func TestParseLabels_MalformedValues(t *testing.T) {
	valid := func() map[string]string {
		return BuildLabels(model.ServiceSpec{Name: "mysql", Image: "mysql:8.0",
			HostPort: 13306, ContainerPort: 3306}, time.Now())
	}

	t.Run("bad host port", func(t *testing.T) {
		labels := valid()
		labels[LabelHostPort] = "not-a-port"
		_, _, err := ParseLabels(labels)
		assert.Error(t, err)
	})

	t.Run("bad container port", func(t *testing.T) {
		labels := valid()
		labels[LabelContainerPort] = ""
		_, _, err := ParseLabels(labels)
		assert.Error(t, err)
	})

	t.Run("bad timestamp", func(t *testing.T) {
		labels := valid()
		labels[LabelCreatedAt] = "yesterday"
		_, _, err := ParseLabels(labels)
		assert.Error(t, err)
	})
}
