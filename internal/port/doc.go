// Package port implements TCP port availability scanning on the host.
//
// The up command uses it to verify that a service's published host port
// is free before asking Docker to bind it, and to suggest a nearby free
// port when it is not.
package port
