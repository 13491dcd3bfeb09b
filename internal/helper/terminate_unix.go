//go:build !windows

package helper

import "golang.org/x/sys/unix"

// terminate asks the helper to exit. It reports false when the signal could
// not be delivered and the caller should kill instead.
func terminate(p *process) bool {
	return p.cmd.Process.Signal(unix.SIGTERM) == nil
}
