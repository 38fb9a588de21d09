package catalog

import "github.com/mmr-tortoise/dbup/internal/model"

// Built-in host ports. MySQL publishes on 13306 and MariaDB on 23306 so
// both can run next to a natively installed server on 3306 and next to
// each other.
const (
	// DefaultMySQLPort is the published host port for the built-in
	// MySQL service.
	DefaultMySQLPort = 13306

	// DefaultMariaDBPort is the published host port for the built-in
	// MariaDB service.
	DefaultMariaDBPort = 23306
)

// builtinSpecs returns the stock service definitions. These mirror the
// canonical local-testing setup: a MySQL 8.0 and a MariaDB 10.5 server,
// each with binary logging enabled in row format so replication and
// binlog-consuming tools can be exercised against them.
//
// The root password is intentionally trivial — these containers exist for
// throwaway local testing only and must never hold real data.
func builtinSpecs() []model.ServiceSpec {
	return []model.ServiceSpec{
		{
			Name:          "mysql",
			Image:         "mysql:8.0",
			HostPort:      DefaultMySQLPort,
			ContainerPort: 3306,
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "password",
			},
			// The MySQL image reads extra server options from command
			// line arguments, which avoids needing a config file on
			// disk for the built-in service. User catalogs can mount a
			// full my.cnf via configFile instead.
			Command: []string{
				"--server-id=1",
				"--log-bin=mysql-bin",
				"--binlog-format=ROW",
			},
		},
		{
			Name:          "mariadb",
			Image:         "mariadb:10.5",
			HostPort:      DefaultMariaDBPort,
			ContainerPort: 3306,
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "password",
			},
			Command: []string{
				"--server-id=1",
				"--log-bin=mysql-bin",
				"--binlog-format=ROW",
			},
		},
	}
}
