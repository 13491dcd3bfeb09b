package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tessro/caretip/internal/channel"
	"github.com/tessro/caretip/internal/config"
	"github.com/tessro/caretip/internal/extension"
	"github.com/tessro/caretip/internal/marker"
)

var (
	watchNoHelper bool
	watchVerbose  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the marker color as it changes",
	Long: "Run caretip without an editor. One rendered marker line is printed each " +
		"time the marker color changes. Stops on SIGINT or SIGTERM.",
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchNoHelper, "no-helper", false, "do not launch the helper; only connect to its endpoint")
	watchCmd.Flags().BoolVarP(&watchVerbose, "verbose", "v", false, "copy log records to stderr")
	rootCmd.AddCommand(watchCmd)
}

// lineSurface prints one line per paint.
type lineSurface struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *lineSurface) Paint(c marker.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "%s %s\n", marker.Render(c), c)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}
	if watchNoHelper {
		cfg.Helper.Enabled = false
	}
	var extra io.Writer
	if watchVerbose {
		extra = os.Stderr
	}
	defer setupLogging(cfg, extra)()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watch(ctx, cfg, path, &lineSurface{w: cmd.OutOrStdout()})
}

func watch(ctx context.Context, cfg *config.Config, path string, surface marker.Surface, opts ...extension.Option) error {
	opts = append(opts, extension.WithErrorObserver(func(err error) {
		slog.Error("status channel failed", "error", err)
	}), extension.WithConnObserver(func(s channel.ConnState) {
		slog.Debug("status channel", "state", s)
	}))

	ext, err := extension.Activate(cfg, surface, opts...)
	if err != nil {
		return err
	}
	defer ext.Deactivate()

	if path != "" {
		w, err := config.NewWatcher(path, func(next *config.Config) {
			if err := ext.Reload(next); err != nil {
				slog.Warn("config reload rejected", "error", err)
			}
		})
		if err != nil {
			slog.Warn("config watcher not started", "path", path, "error", err)
		} else {
			defer w.Close()
		}
	}

	<-ctx.Done()
	return nil
}
