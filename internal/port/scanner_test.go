package port

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIsAvailable_FreePort verifies that IsAvailable returns true for a
// port that no process is currently using.
func TestIsAvailable_FreePort(t *testing.T) {
	scanner := NewScanner()

	// Use FindAvailable to get a port we know is free, rather than
	// hardcoding a port number that might be in use on some CI machines.
	freePort, err := scanner.FindAvailable(50000, 50100)
	require.NoError(t, err, "should find at least one free port in 50000-50100")

	assert.True(t, scanner.IsAvailable(freePort), "port %d should be available", freePort)
}

// TestIsAvailable_UsedPort verifies that IsAvailable returns false when a
// port is already bound by another listener. This simulates a database
// server already occupying the port dbup wants to publish on.
func TestIsAvailable_UsedPort(t *testing.T) {
	// ":0" lets the OS pick a free port, avoiding flaky hardcoded ports.
	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err, "failed to start test listener")
	defer func() { _ = listener.Close() }()

	tcpAddr, ok := listener.Addr().(*net.TCPAddr)
	require.True(t, ok)

	scanner := NewScanner()
	assert.False(t, scanner.IsAvailable(tcpAddr.Port),
		"port %d should be in use (we have a listener on it)", tcpAddr.Port)
}

// TestFindAvailable verifies that FindAvailable returns a free port
// within the requested range.
func TestFindAvailable(t *testing.T) {
	scanner := NewScanner()

	port, err := scanner.FindAvailable(50000, 50100)
	require.NoError(t, err, "should find an available port in range 50000-50100")

	assert.GreaterOrEqual(t, port, 50000)
	assert.LessOrEqual(t, port, 50100)
	assert.True(t, scanner.IsAvailable(port))
}

// TestFindAvailable_EmptyRange verifies that an inverted range (end before
// start) reports failure rather than scanning anything.
func TestFindAvailable_EmptyRange(t *testing.T) {
	scanner := NewScanner()
	_, err := scanner.FindAvailable(50100, 50000)
	assert.Error(t, err)
}
