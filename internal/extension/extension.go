// Package extension wires the caretip components into a host.
//
// Activate builds the event loop, paints the initial marker, launches the
// helper and connects to its status endpoint. Every decoded status flows
// into the presentation binder. Deactivate tears it all down.
package extension

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"

	"github.com/tessro/caretip/internal/channel"
	"github.com/tessro/caretip/internal/config"
	"github.com/tessro/caretip/internal/helper"
	"github.com/tessro/caretip/internal/imestate"
	"github.com/tessro/caretip/internal/loop"
	"github.com/tessro/caretip/internal/marker"
)

// ErrNoConfig is returned by Activate when no config is given.
var ErrNoConfig = errors.New("extension: nil config")

// Option configures an Extension.
type Option func(*options)

type options struct {
	onConn   func(channel.ConnState)
	onHelper func(helper.Event)
	onStatus func(imestate.Status)
	onError  func(error)
	dial     channel.DialFunc
	command  func() (*exec.Cmd, error)
	logger   *slog.Logger
}

// WithConnObserver is called on the loop for each connection state change.
func WithConnObserver(fn func(channel.ConnState)) Option {
	return func(o *options) { o.onConn = fn }
}

// WithHelperObserver is called on the loop for each helper lifecycle event.
func WithHelperObserver(fn func(helper.Event)) Option {
	return func(o *options) { o.onHelper = fn }
}

// WithStatusObserver is called on the loop with every decoded status, after
// the binder has applied it.
func WithStatusObserver(fn func(imestate.Status)) Option {
	return func(o *options) { o.onStatus = fn }
}

// WithErrorObserver is called on the loop with fatal channel errors.
func WithErrorObserver(fn func(error)) Option {
	return func(o *options) { o.onError = fn }
}

// WithDialer replaces the platform endpoint dialer.
func WithDialer(dial channel.DialFunc) Option {
	return func(o *options) { o.dial = dial }
}

// WithHelperCommand replaces how the helper command is built.
func WithHelperCommand(build func() (*exec.Cmd, error)) Option {
	return func(o *options) { o.command = build }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Extension is an activated caretip instance.
type Extension struct {
	loop   *loop.Loop
	binder *marker.Binder
	client *channel.Client
	helper *helper.Supervisor
	log    *slog.Logger

	endpoint       string
	deactivateOnce sync.Once
}

// Activate starts caretip with cfg, painting on surface. Helper launch
// failures are logged and do not fail activation.
func Activate(cfg *config.Config, surface marker.Surface, opts ...Option) (*Extension, error) {
	if cfg == nil {
		return nil, ErrNoConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("activate: %w", err)
	}

	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	e := &Extension{
		loop:     loop.New(),
		log:      o.logger.With("component", "extension"),
		endpoint: cfg.Endpoint,
	}

	e.binder = marker.NewBinder(cfg.Palette, surface)
	e.loop.Call(e.binder.Refresh)

	if cfg.Helper.Enabled {
		e.startHelper(cfg, o)
	}

	clientOpts := []channel.Option{
		channel.WithRetryDelay(cfg.RetryDelay.Std()),
		channel.WithRedialOnClose(cfg.RedialOnClose),
		channel.WithLogger(o.logger),
	}
	if o.dial != nil {
		clientOpts = append(clientOpts, channel.WithDialer(o.dial))
	}
	e.client = channel.New(e.loop, clientOpts...)
	if o.onConn != nil {
		e.client.OnStateChange(o.onConn)
	}

	e.client.Connect(cfg.Endpoint, func(st imestate.Status) {
		e.binder.Apply(st)
		if o.onStatus != nil {
			o.onStatus(st)
		}
	}, o.onError)

	e.log.Info("activated", "endpoint", cfg.Endpoint, "helper", e.helper != nil)
	return e, nil
}

func (e *Extension) startHelper(cfg *config.Config, o *options) {
	hc := helper.Config{
		RestartDelay: cfg.Helper.RestartDelay.Std(),
		StopTimeout:  cfg.Helper.StopTimeout.Std(),
		LogOutput:    cfg.Helper.LogOutput,
		BuildCommand: o.command,
		Logger:       o.logger,
	}
	if o.command == nil {
		path, err := cfg.HelperPath()
		if err != nil {
			e.log.Error("resolve helper path", "path", cfg.Helper.Path, "error", err)
			return
		}
		hc.Path = path
	}

	e.helper = helper.New(e.loop, hc)
	if o.onHelper != nil {
		e.helper.OnEvent(o.onHelper)
	}
	if err := e.helper.Start(); err != nil {
		e.log.Error("helper not started", "error", err)
	}
}

// CursorMoved repaints the marker at the new cursor position.
func (e *Extension) CursorMoved() {
	e.loop.Post(e.binder.Refresh)
}

// EditorChanged repaints the marker in the newly active editor.
func (e *Extension) EditorChanged() {
	e.loop.Post(e.binder.Refresh)
}

// Reload applies cfg's palette. Connection and helper settings take effect
// on the next activation.
func (e *Extension) Reload(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	if cfg.Endpoint != e.endpoint {
		e.log.Warn("endpoint change requires restart", "current", e.endpoint, "configured", cfg.Endpoint)
	}
	p := cfg.Palette
	e.loop.Post(func() { e.binder.SetPalette(p) })
	return nil
}

// Color returns the marker color currently shown.
func (e *Extension) Color() marker.Color {
	var c marker.Color
	e.loop.Call(func() { c = e.binder.Color() })
	return c
}

// ConnState returns the status channel's connection state.
func (e *Extension) ConnState() channel.ConnState {
	return e.client.State()
}

// HelperRunning reports whether a helper process is alive.
func (e *Extension) HelperRunning() bool {
	return e.helper != nil && e.helper.Running()
}

// Deactivate closes the status channel, stops the helper and shuts the loop
// down, cancelling any pending retry or restart. Safe to call more than once.
func (e *Extension) Deactivate() {
	e.deactivateOnce.Do(func() {
		_ = e.client.Close()
		if e.helper != nil {
			if err := e.helper.Stop(); err != nil {
				e.log.Error("helper stop failed", "error", err)
			}
		}
		e.loop.Close()
		e.log.Info("deactivated")
	})
}
