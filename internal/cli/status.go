package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/caretip/internal/channel"
	"github.com/tessro/caretip/internal/marker"
)

var statusTimeout time.Duration

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current input-method status",
	Long:  "Connect to the helper's endpoint once, read one status line, and print it with the marker color it maps to.",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().DurationVar(&statusTimeout, "timeout", 2*time.Second, "how long to wait for a status line")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), statusTimeout)
	defer cancel()

	out := cmd.OutOrStdout()
	st, err := channel.ReadOnce(ctx, channel.DialEndpoint, cfg.Endpoint)
	switch {
	case err == nil:
	case channel.IsEndpointMissing(err):
		fmt.Fprintf(out, "helper is not running (no endpoint at %s)\n", cfg.Endpoint)
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("no status from %s within %s", cfg.Endpoint, statusTimeout)
	default:
		return fmt.Errorf("read status: %w", err)
	}

	caps := "off"
	if st.CapsLock {
		caps = "on"
	}
	color := cfg.Palette.Color(marker.Resolve(st, marker.KindInitial))
	fmt.Fprintf(out, "mode:  %s\n", st.Mode)
	fmt.Fprintf(out, "caps:  %s\n", caps)
	fmt.Fprintf(out, "color: %s %s\n", marker.Render(color), color)
	return nil
}
