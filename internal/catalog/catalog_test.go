package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/dbup/internal/model"
)

// writeCatalog writes a catalog file with the given name and content into
// a temp directory and returns its path.
func writeCatalog(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestBuiltin verifies the stock catalog carries the MySQL and MariaDB
// services with their fixed host ports.
func TestBuiltin(t *testing.T) {
	c := Builtin()

	assert.Equal(t, []string{"mariadb", "mysql"}, c.Names())

	mysql, err := c.Resolve("mysql")
	require.NoError(t, err)
	assert.Equal(t, "mysql:8.0", mysql.Image)
	assert.Equal(t, DefaultMySQLPort, mysql.HostPort)
	assert.Equal(t, 3306, mysql.ContainerPort)
	assert.Equal(t, "dbup-mysql", mysql.ContainerName)
	assert.Contains(t, mysql.Command, "--binlog-format=ROW")

	mariadb, err := c.Resolve("mariadb")
	require.NoError(t, err)
	assert.Equal(t, DefaultMariaDBPort, mariadb.HostPort)
}

// TestResolve_Unknown verifies that an unknown service yields a CLIError
// with the service-not-found exit code and lists the known services.
func TestResolve_Unknown(t *testing.T) {
	_, err := Builtin().Resolve("postgres")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitServiceNotFound, cliErr.Code)
	assert.Contains(t, cliErr.Message, "mysql")
	assert.Contains(t, cliErr.Message, "mariadb")
}

// TestLoad_JSONC verifies parsing of a JSONC catalog with comments and
// trailing commas, and that file entries are added to the built-ins.
func TestLoad_JSONC(t *testing.T) {
	path := writeCatalog(t, "dbup.jsonc", `{
  // local MySQL 5.7 for legacy compatibility testing
  "services": {
    "mysql57": {
      "image": "mysql:5.7",
      "hostPort": 33306,
      "containerPort": 3306,
      "env": {"MYSQL_ROOT_PASSWORD": "password"},
    },
  },
}`)

	c, err := Load(path)
	require.NoError(t, err)

	spec, err := c.Resolve("mysql57")
	require.NoError(t, err)
	assert.Equal(t, "mysql:5.7", spec.Image)
	assert.Equal(t, 33306, spec.HostPort)
	assert.Equal(t, "dbup-mysql57", spec.ContainerName, "container name should be defaulted")

	// Built-ins remain available alongside file entries.
	_, err = c.Resolve("mysql")
	assert.NoError(t, err)
}

// TestLoad_YAML verifies parsing of a YAML catalog.
func TestLoad_YAML(t *testing.T) {
	path := writeCatalog(t, "dbup.yaml", `
services:
  tidb:
    image: pingcap/tidb:v5.0.0
    hostPort: 14000
    containerPort: 4000
`)

	c, err := Load(path)
	require.NoError(t, err)

	spec, err := c.Resolve("tidb")
	require.NoError(t, err)
	assert.Equal(t, "pingcap/tidb:v5.0.0", spec.Image)
	assert.Equal(t, 14000, spec.HostPort)
	assert.Equal(t, 4000, spec.ContainerPort)
}

// TestLoad_Override verifies that a catalog entry with a built-in name
// replaces the built-in definition.
func TestLoad_Override(t *testing.T) {
	path := writeCatalog(t, "dbup.yaml", `
services:
  mysql:
    image: mysql:8.0.21
    hostPort: 13307
    containerPort: 3306
`)

	c, err := Load(path)
	require.NoError(t, err)

	spec, err := c.Resolve("mysql")
	require.NoError(t, err)
	assert.Equal(t, "mysql:8.0.21", spec.Image)
	assert.Equal(t, 13307, spec.HostPort)
}

// TestLoad_RelativeConfigFile verifies that relative configFile paths
// resolve against the catalog file's directory, not the process cwd.
func TestLoad_RelativeConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dbup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
services:
  mysql-cnf:
    image: mysql:8.0
    hostPort: 13308
    containerPort: 3306
    configFile: conf/my.cnf
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	spec, err := c.Resolve("mysql-cnf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "conf", "my.cnf"), spec.ConfigFile)
	assert.Equal(t, "/etc/mysql/conf.d/dbup.cnf", spec.ConfigTarget,
		"mount target should be defaulted when a config file is present")
}

// TestLoad_Errors covers the failure modes: missing file, unsupported
// extension, malformed content, and invalid specs.
func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeCatalog(t, "dbup.toml", "[services]")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported catalog file extension")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeCatalog(t, "dbup.yaml", "services: [broken")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("invalid spec", func(t *testing.T) {
		path := writeCatalog(t, "dbup.yaml", `
services:
  bad:
    image: mysql:8.0
    hostPort: 99999
    containerPort: 3306
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "out of range")
	})
}

// TestLoad_EmptyPath verifies that an empty path returns the built-ins.
func TestLoad_EmptyPath(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Builtin().Names(), c.Names())
}
