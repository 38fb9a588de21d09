// Package model defines the domain types for the dbup CLI.
//
// All entities in this package are pure data structures used for passing
// data between components. Container-side state is persisted exclusively
// via Docker labels, so these types are transient representations
// reconstructed from Docker API queries at runtime.
package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ServiceStatus represents the lifecycle state of a managed database
// container. The state transitions are:
//
//	[Created] → Running → Stopped ⇄ Running → [Removed]
type ServiceStatus string

const (
	// StatusRunning indicates the service container is running.
	StatusRunning ServiceStatus = "running"

	// StatusStopped indicates the container exists but is not running.
	// Its data and configuration are preserved.
	StatusStopped ServiceStatus = "stopped"
)

// String returns the string representation of ServiceStatus.
// This method satisfies the fmt.Stringer interface, enabling
// human-readable output in CLI commands.
func (s ServiceStatus) String() string {
	return string(s)
}

// IsValid checks whether the ServiceStatus value is one of the
// predefined valid states.
func (s ServiceStatus) IsValid() bool {
	switch s {
	case StatusRunning, StatusStopped:
		return true
	default:
		return false
	}
}

// ParseServiceStatus converts a string to a ServiceStatus.
// Returns an error if the string does not match any valid status.
func ParseServiceStatus(s string) (ServiceStatus, error) {
	status := ServiceStatus(strings.ToLower(s))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid service status: %q (valid: running, stopped)", s)
	}
	return status, nil
}

// ServiceSpec describes everything needed to launch one database container:
// the image, the published port, the server configuration file, and the
// container name. It replaces any reliance on ambient working directory or
// filesystem layout — every input is an explicit field.
type ServiceSpec struct {
	// Name is the unique identifier for this service within the catalog.
	// Must contain only alphanumeric characters and hyphens.
	Name string `json:"name" yaml:"name"`

	// Image is the full container image reference, including the tag
	// (e.g., "mysql:8.0"). Images are assumed to be pre-built; dbup
	// never builds images.
	Image string `json:"image" yaml:"image"`

	// ContainerName is the Docker container name used when launching.
	// If empty, it defaults to "dbup-<name>".
	ContainerName string `json:"containerName,omitempty" yaml:"containerName,omitempty"`

	// ConfigFile is the path to the database server configuration file
	// mounted read-only into the container (e.g., a my.cnf enabling
	// row-format binary logging). Optional. Relative paths are resolved
	// by the catalog loader against the catalog file's directory.
	ConfigFile string `json:"configFile,omitempty" yaml:"configFile,omitempty"`

	// ConfigTarget is the mount destination for ConfigFile inside the
	// container. Defaults to /etc/mysql/conf.d/dbup.cnf when empty,
	// which both MySQL and MariaDB images pick up automatically.
	ConfigTarget string `json:"configTarget,omitempty" yaml:"configTarget,omitempty"`

	// HostPort is the port published on the host machine (1-65535).
	HostPort int `json:"hostPort" yaml:"hostPort"`

	// ContainerPort is the port the database listens on inside the
	// container (1-65535). For MySQL and MariaDB this is 3306.
	ContainerPort int `json:"containerPort" yaml:"containerPort"`

	// Env holds environment variables passed to the container, such as
	// MYSQL_ROOT_PASSWORD.
	Env map[string]string `json:"env,omitempty" yaml:"env,omitempty"`

	// Command overrides the image's default command, if non-empty.
	Command []string `json:"command,omitempty" yaml:"command,omitempty"`
}

// nameRegex validates service names: alphanumeric + hyphens only,
// must start and end with alphanumeric.
var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*[a-zA-Z0-9]$|^[a-zA-Z0-9]$`)

// ValidateName checks if the given name is a valid service name.
// Valid names contain only alphanumeric characters and hyphens,
// and must start/end with an alphanumeric character.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("service name must not be empty")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("invalid service name %q: must contain only alphanumeric characters and hyphens, and start/end with alphanumeric", name)
	}
	return nil
}

// ValidatePort checks that a port number is within the valid TCP range.
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port %d out of range (1-65535)", port)
	}
	return nil
}

// Validate checks whether the ServiceSpec has valid field values and
// fills in defaulted fields (ContainerName, ConfigTarget). It verifies
// the name, image presence, and port number ranges.
func (s *ServiceSpec) Validate() error {
	if err := ValidateName(s.Name); err != nil {
		return err
	}
	if s.Image == "" {
		return fmt.Errorf("service %q: image must not be empty", s.Name)
	}
	if err := ValidatePort(s.HostPort); err != nil {
		return fmt.Errorf("service %q: host port: %w", s.Name, err)
	}
	if err := ValidatePort(s.ContainerPort); err != nil {
		return fmt.Errorf("service %q: container port: %w", s.Name, err)
	}
	if s.ContainerName == "" {
		s.ContainerName = "dbup-" + s.Name
	}
	if s.ConfigFile != "" && s.ConfigTarget == "" {
		s.ConfigTarget = "/etc/mysql/conf.d/dbup.cnf"
	}
	return nil
}

// PortMapping renders the service's port publication in the familiar
// "hostPort:containerPort" form used by CLI output.
func (s *ServiceSpec) PortMapping() string {
	return fmt.Sprintf("%d:%d", s.HostPort, s.ContainerPort)
}

// ServiceInstance pairs a ServiceSpec reconstructed from container labels
// with the runtime state of its container. This is the primary entity
// surfaced by the list command.
type ServiceInstance struct {
	// Spec is the launch configuration, rebuilt from labels.
	Spec ServiceSpec `json:"spec"`

	// Container holds the runtime container details.
	Container ContainerInfo `json:"container"`

	// Status is the current lifecycle state of the service.
	Status ServiceStatus `json:"status"`

	// CreatedAt is the timestamp when the service was launched.
	CreatedAt time.Time `json:"createdAt"`
}

// ContainerInfo holds runtime information about a Docker container.
// This data is fetched dynamically from the Docker API, not persisted.
type ContainerInfo struct {
	// ContainerID is the unique Docker container identifier.
	ContainerID string `json:"containerId"`

	// ContainerName is the human-readable Docker container name.
	ContainerName string `json:"containerName"`

	// State is the Docker container state (e.g., "running", "exited").
	State string `json:"state"`

	// Labels is the full set of Docker labels on the container,
	// including the dbup management labels (dbup.* prefix).
	Labels map[string]string `json:"labels,omitempty"`
}

// ExitCode defines the CLI exit codes. These codes allow scripts and CI
// systems to programmatically determine the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitDockerNotRunning indicates the Docker daemon is not accessible.
	ExitDockerNotRunning ExitCode = 3

	// ExitUsage indicates malformed or missing arguments: wrong arity,
	// a non-numeric or out-of-range port, or a non-positive attempt
	// budget. Reported before any probing or container operation begins.
	ExitUsage ExitCode = 4

	// ExitWaitTimeout indicates the readiness probe budget was exhausted
	// without a successful connection.
	ExitWaitTimeout ExitCode = 5

	// ExitServiceNotFound indicates the named service does not exist in
	// the catalog or has no managed container.
	ExitServiceNotFound ExitCode = 6
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
