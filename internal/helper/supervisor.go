// Package helper supervises the input-method helper process.
//
// The Supervisor owns at most one live helper process. When the helper exits,
// for any reason and with any exit code, it is started again after a fixed
// delay, indefinitely. A helper that cannot be launched at all is reported
// and left alone.
package helper

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/tessro/caretip/internal/event"
	"github.com/tessro/caretip/internal/logging"
	"github.com/tessro/caretip/internal/loop"
)

// Errors returned by supervisor operations.
var (
	ErrNoPath = errors.New("helper: no executable path configured")
	ErrClosed = errors.New("helper: event loop closed")
	ErrStuck  = errors.New("helper: process did not exit after kill")
)

const (
	// DefaultRestartDelay is the delay between a helper exit and its restart.
	DefaultRestartDelay = 1000 * time.Millisecond

	// DefaultStopTimeout is how long Stop waits before killing the helper.
	DefaultStopTimeout = 5 * time.Second

	// waitDelay bounds how long Wait blocks on output copying after exit.
	waitDelay = time.Second

	// killTimeout bounds the wait for a killed helper to be reaped.
	killTimeout = waitDelay + time.Second
)

// Config configures a Supervisor.
type Config struct {
	// Path is the absolute path of the helper executable.
	// See paths.ResolveHelper.
	Path string

	// RestartDelay is the delay before restarting an exited helper.
	RestartDelay time.Duration

	// StopTimeout is the grace period between SIGTERM and SIGKILL. Stop
	// blocks for at most this long plus the time to reap a killed helper.
	StopTimeout time.Duration

	// LogOutput forwards helper stdout/stderr lines to the debug log.
	LogOutput bool

	// BuildCommand overrides how the helper command is built.
	// The returned command must not be started.
	BuildCommand func() (*exec.Cmd, error)

	Logger *slog.Logger
}

type process struct {
	cmd    *exec.Cmd
	exited chan struct{}
}

// Supervisor keeps the helper process running. Fields below cfg are owned by
// the loop goroutine.
type Supervisor struct {
	loop *loop.Loop
	cfg  Config
	log  *slog.Logger

	proc     *process
	restart  *loop.Timer
	restarts int

	events event.Emitter[Event]
}

// New creates a supervisor whose callbacks run on l. Nothing is started
// until Start is called.
func New(l *loop.Loop, cfg Config) *Supervisor {
	if cfg.RestartDelay <= 0 {
		cfg.RestartDelay = DefaultRestartDelay
	}
	if cfg.StopTimeout <= 0 {
		cfg.StopTimeout = DefaultStopTimeout
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Supervisor{
		loop: l,
		cfg:  cfg,
		log:  log.With("component", "helper"),
	}
}

// OnEvent registers fn for lifecycle events. fn runs on the loop.
func (s *Supervisor) OnEvent(fn func(Event)) (remove func()) {
	return s.events.OnEvent(fn)
}

// Start launches the helper unless one is already running, in which case it
// does nothing. A launch error is reported and returned; it never schedules
// a restart.
func (s *Supervisor) Start() error {
	var err error
	if !s.loop.Call(func() { err = s.start() }) {
		return ErrClosed
	}
	return err
}

// Stop terminates the helper and cancels any pending restart. It returns once
// the helper has exited, killing it if it outlives StopTimeout. Stopping a
// supervisor with no live helper does nothing.
func (s *Supervisor) Stop() error {
	var p *process
	s.loop.Call(func() { p = s.stop() })
	if p == nil {
		return nil
	}
	return s.await(p)
}

// Running reports whether a helper process handle is held.
func (s *Supervisor) Running() bool {
	var running bool
	s.loop.Call(func() { running = s.proc != nil })
	return running
}

// PID returns the live helper's process ID, or 0.
func (s *Supervisor) PID() int {
	var pid int
	s.loop.Call(func() {
		if s.proc != nil {
			pid = s.proc.cmd.Process.Pid
		}
	})
	return pid
}

// Restarts returns how many automatic restarts have been attempted.
func (s *Supervisor) Restarts() int {
	var n int
	s.loop.Call(func() { n = s.restarts })
	return n
}

func (s *Supervisor) emit(ev Event) {
	ev.At = time.Now()
	s.events.Emit(ev)
}

func (s *Supervisor) command() (*exec.Cmd, error) {
	if s.cfg.BuildCommand != nil {
		return s.cfg.BuildCommand()
	}
	if s.cfg.Path == "" {
		return nil, ErrNoPath
	}
	cmd := exec.Command(s.cfg.Path)
	cmd.Dir = filepath.Dir(s.cfg.Path)
	return cmd, nil
}

func (s *Supervisor) start() error {
	if s.proc != nil {
		s.log.Debug("helper already running", "pid", s.proc.cmd.Process.Pid)
		return nil
	}

	cmd, err := s.command()
	if err != nil {
		s.launchFailed(err)
		return fmt.Errorf("build helper command: %w", err)
	}
	if s.cfg.LogOutput {
		cmd.Stdout = &lineLogger{log: s.log, stream: "stdout"}
		cmd.Stderr = &lineLogger{log: s.log, stream: "stderr"}
	}
	cmd.WaitDelay = waitDelay

	if err := cmd.Start(); err != nil {
		s.launchFailed(err)
		return fmt.Errorf("start helper: %w", err)
	}

	p := &process{cmd: cmd, exited: make(chan struct{})}
	s.proc = p

	s.log.Info("helper started", "pid", cmd.Process.Pid, "path", cmd.Path)
	s.emit(Event{Kind: EventStarted, PID: cmd.Process.Pid})

	go s.wait(p)
	return nil
}

func (s *Supervisor) launchFailed(err error) {
	s.log.Error("helper launch failed", "path", s.cfg.Path, "error", err)
	s.emit(Event{Kind: EventLaunchFailed, Err: err})
}

// wait blocks until the process exits and reports the exit on the loop.
func (s *Supervisor) wait(p *process) {
	defer logging.LogPanic("helper-wait", nil)

	err := p.cmd.Wait()
	close(p.exited)

	code := -1
	if p.cmd.ProcessState != nil {
		code = p.cmd.ProcessState.ExitCode()
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// A non-zero exit is reported through the code alone.
		err = nil
	}
	s.loop.Post(func() { s.exited(p, code, err) })
}

func (s *Supervisor) exited(p *process, code int, err error) {
	if s.proc != p {
		s.log.Debug("ignoring exit of stopped helper", "pid", p.cmd.Process.Pid, "code", code)
		return
	}
	s.proc = nil

	s.log.Info("helper exited", "pid", p.cmd.Process.Pid, "code", code, "restart_in", s.cfg.RestartDelay)
	s.emit(Event{Kind: EventExited, PID: p.cmd.Process.Pid, ExitCode: code, Err: err})

	s.restart.Stop()
	s.restart = s.loop.AfterFunc(s.cfg.RestartDelay, func() {
		s.restart = nil
		s.restarts++
		_ = s.start()
	})
}

// stop detaches the live helper and asks it to exit. The caller waits for
// the returned process off the loop.
func (s *Supervisor) stop() *process {
	if s.restart.Stop() {
		s.log.Debug("pending restart cancelled")
	}
	s.restart = nil

	p := s.proc
	if p == nil {
		return nil
	}
	s.proc = nil

	pid := p.cmd.Process.Pid
	s.log.Info("stopping helper", "pid", pid)
	if !terminate(p) {
		_ = p.cmd.Process.Kill()
	}
	s.emit(Event{Kind: EventStopped, PID: pid})
	return p
}

// await blocks until p exits, escalating to a kill after StopTimeout.
func (s *Supervisor) await(p *process) error {
	select {
	case <-p.exited:
		return nil
	case <-time.After(s.cfg.StopTimeout):
	}

	pid := p.cmd.Process.Pid
	s.log.Warn("helper did not exit, killing", "pid", pid, "timeout", s.cfg.StopTimeout)
	_ = p.cmd.Process.Kill()

	select {
	case <-p.exited:
		return nil
	case <-time.After(killTimeout):
		return fmt.Errorf("stop helper %d: %w", pid, ErrStuck)
	}
}
