// Package instance enforces single-instance operation. The resident process
// claims a loopback TCP port for its lifetime; a second instance fails to
// bind and exits instead of installing a second keyboard hook.
package instance

import (
	"fmt"
	"io"
	"net"
)

// AcquireLock binds the loopback lock port and holds it until the returned
// closer is closed. A bind failure means another instance is already running.
func AcquireLock(port int) (io.Closer, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("another instance appears to be running (port %d): %w", port, err)
	}
	return ln, nil
}
