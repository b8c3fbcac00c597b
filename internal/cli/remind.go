package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRemindCmd(a *app) *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Announce tasks whose reminder time has passed",
		Long: `Remind polls the to-do list and prints each open task once its reminder
date and time have passed. It runs until interrupted; with --once it checks
a single time and exits. A task is announced at most once per run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.open(cmd)
			if err != nil {
				return err
			}
			scanner := sess.Scanner()

			if once {
				n, err := scanner.Scan(cmd.Context())
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]int{"fired": n})
				}
				if n == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No reminders due.")
				}
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			fmt.Fprintf(cmd.ErrOrStderr(), "Watching reminders every %s. Press Ctrl-C to stop.\n", scanner.Interval())
			return scanner.Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "check once and exit")
	cmd.Flags().DurationVar(&a.interval, "interval", 0, "polling interval (default: reminder_interval from config)")
	return cmd
}
