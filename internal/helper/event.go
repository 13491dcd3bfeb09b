package helper

import "time"

// EventKind identifies a supervisor lifecycle event.
type EventKind string

const (
	EventStarted      EventKind = "started"
	EventExited       EventKind = "exited"
	EventLaunchFailed EventKind = "launch_failed"
	EventStopped      EventKind = "stopped"
)

// Event describes a change in the helper process lifecycle.
type Event struct {
	Kind EventKind
	PID  int
	// ExitCode is set for EventExited; -1 when the process was killed by a signal.
	ExitCode int
	// Err is set for EventLaunchFailed, and for EventExited when the wait failed.
	Err error
	At  time.Time
}
