package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tessro/caretip/internal/helper"
	"github.com/tessro/caretip/internal/loop"
)

var helperCmd = &cobra.Command{
	Use:   "helper",
	Short: "Run and supervise the helper in the foreground",
	Long: "Launch the ime_checker helper and restart it whenever it exits, until " +
		"SIGINT or SIGTERM. Useful when the marker runs elsewhere.",
	Args: cobra.NoArgs,
	RunE: runHelper,
}

func init() {
	rootCmd.AddCommand(helperCmd)
}

func runHelper(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	defer setupLogging(cfg, os.Stderr)()

	path, err := cfg.HelperPath()
	if err != nil {
		return fmt.Errorf("resolve helper: %w", err)
	}

	l := loop.New()
	defer l.Close()

	sup := helper.New(l, helper.Config{
		Path:         path,
		RestartDelay: cfg.Helper.RestartDelay.Std(),
		StopTimeout:  cfg.Helper.StopTimeout.Std(),
		LogOutput:    cfg.Helper.LogOutput,
	})
	out := cmd.OutOrStdout()
	sup.OnEvent(func(ev helper.Event) { printHelperEvent(out, ev) })

	if err := sup.Start(); err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)
	<-sig

	return sup.Stop()
}

func printHelperEvent(w io.Writer, ev helper.Event) {
	ts := ev.At.Format("15:04:05")
	switch ev.Kind {
	case helper.EventStarted:
		fmt.Fprintf(w, "%s helper started (pid %d)\n", ts, ev.PID)
	case helper.EventExited:
		fmt.Fprintf(w, "%s helper exited (pid %d, code %d)\n", ts, ev.PID, ev.ExitCode)
	case helper.EventLaunchFailed:
		fmt.Fprintf(w, "%s helper failed to launch: %v\n", ts, ev.Err)
	case helper.EventStopped:
		fmt.Fprintf(w, "%s helper stopped (pid %d)\n", ts, ev.PID)
	}
}
