// Package docker wraps the Docker Engine SDK for dbup's container
// operations: launching database containers with published ports and
// read-only config mounts, and discovering managed containers via the
// dbup.* label schema.
//
// The label schema is the sole persistence mechanism — a ServiceSpec can
// be fully reconstructed from a container's labels, so there is no state
// file to keep in sync with the daemon.
package docker
