package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tessro/caretip/internal/config"
	"github.com/tessro/caretip/internal/extension"
	"github.com/tessro/caretip/internal/tui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the editor with the input-method marker",
	Long: "Open a terminal editor that draws the input-method marker next to the cursor. " +
		"The helper is launched and supervised while the editor runs, and palette " +
		"changes in the config file apply immediately.",
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}
	defer setupLogging(cfg, nil)()

	var (
		ext     *extension.Extension
		watcher *config.Watcher
	)
	err = tui.Run(func(s *tui.Surface) (tui.Host, error) {
		e, err := extension.Activate(cfg, s,
			extension.WithConnObserver(s.Conn),
			extension.WithHelperObserver(s.Helper),
			extension.WithStatusObserver(s.Status),
			extension.WithErrorObserver(s.Error),
		)
		if err != nil {
			return nil, err
		}
		ext = e

		watcher, err = config.NewWatcher(path, func(next *config.Config) {
			if err := e.Reload(next); err != nil {
				s.Error(err)
			}
		})
		if err != nil {
			// Not fatal: the editor works without hot reload.
			slog.Warn("config watcher not started", "path", path, "error", err)
		}
		return e, nil
	})

	if watcher != nil {
		_ = watcher.Close()
	}
	if ext != nil {
		ext.Deactivate()
	}
	return err
}
