//go:build windows

package helper

// terminate reports false so the helper is killed at once. Windows has no
// SIGTERM equivalent for a console-less child.
func terminate(p *process) bool {
	return false
}
