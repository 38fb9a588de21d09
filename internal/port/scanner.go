// Package port implements host port availability scanning for dbup.
//
// Before launching a database container, the up command verifies that the
// spec's published host port is actually free. Failing up front with a
// clear message beats letting Docker bind the port and produce a daemon
// error, or silently shadowing another service.
package port

import (
	"fmt"
	"net"
)

// Scanner checks whether specific TCP ports are available on the host.
//
// It uses the operating system's network stack (net.Listen) to determine
// if a port is free. This is the most reliable method because it asks the
// OS directly, rather than parsing /proc/net/* or relying on external
// commands like `lsof` or `ss` which may require elevated permissions.
//
// The struct is currently stateless, but is defined as a struct (rather
// than bare functions) so that future options (e.g., bind address) can be
// added without breaking the API, and so the Scanner is injectable as a
// dependency in tests.
type Scanner struct{}

// NewScanner creates a new Scanner instance.
func NewScanner() *Scanner {
	return &Scanner{}
}

// IsAvailable checks whether a single TCP port is free on the host.
//
// It attempts net.Listen("tcp", ":port"). If the bind succeeds, the port
// is available — the listener is immediately closed. We bind to all
// interfaces (":port" rather than "127.0.0.1:port") because Docker
// publishes ports on 0.0.0.0, so the same address space must be checked
// to avoid false positives.
//
// Returns true if the port is free, false if it is already in use.
func (s *Scanner) IsAvailable(port int) bool {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	// Close immediately — only availability was being tested, not
	// accepting connections.
	defer func() { _ = listener.Close() }()
	return true
}

// FindAvailable scans [startPort, endPort] (inclusive) and returns the
// first TCP port that is free. The sequential search means the same free
// port is selected consistently, which helps reproducibility.
//
// The up command uses this to suggest an alternative when the requested
// host port is busy. Returns an error if no port in the range is free.
func (s *Scanner) FindAvailable(startPort, endPort int) (int, error) {
	for port := startPort; port <= endPort; port++ {
		if s.IsAvailable(port) {
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available TCP port found in range %d-%d", startPort, endPort)
}
