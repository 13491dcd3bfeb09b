//go:build !windows

package channel

import (
	"context"
	"errors"
	"net"

	"golang.org/x/sys/unix"
)

// DialEndpoint connects to the helper's Unix domain socket.
func DialEndpoint(ctx context.Context, endpoint string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "unix", endpoint)
}

// IsEndpointMissing reports whether err means the helper has not created its
// endpoint yet. A socket file left behind by a dead helper refuses
// connections, which is treated the same way.
func IsEndpointMissing(err error) bool {
	return errors.Is(err, unix.ENOENT) || errors.Is(err, unix.ECONNREFUSED)
}
