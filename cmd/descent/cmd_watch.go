package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhamidi/descent/watch"
)

func newWatchCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Re-parse grammar files under a directory whenever they change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if info, err := os.Stat(dir); err != nil {
				return err
			} else if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", dir)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			w := watch.New(dir, interval, func(r watch.Result) {
				switch {
				case r.Removed:
					fmt.Fprintf(out, "%s: removed\n", r.Path)
				case r.Err != nil:
					fmt.Fprintf(out, "%s: %v\n", r.Path, parseError(r.Err))
				default:
					fmt.Fprintf(out, "%s: ok (%s)\n", r.Path, r.Grammar)
				}
			})
			w.Start()
			<-ctx.Done()
			w.Stop()
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", time.Second, "polling interval")

	return cmd
}
