package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/workbench/internal/sqlite"
)

func newBackupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backup <dir>",
		Short: "Write all profiles, tasks and notes to JSONL files",
		Long: "Backup writes profiles.jsonl, tasks.jsonl and notes.jsonl to dir.\n" +
			"Each file is replaced atomically.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.open(cmd); err != nil {
				return err
			}
			sum, err := a.backend.Dump(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printSummary(cmd, a, "Backed up", sum)
		},
	}
}

func newRestoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <dir>",
		Short: "Add the records of a backup to the store",
		Long: "Restore loads a directory written by backup. Records get new ids;\n" +
			"profiles whose name already exists are skipped.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.open(cmd); err != nil {
				return err
			}
			sum, err := a.backend.Restore(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printSummary(cmd, a, "Restored", sum)
		},
	}
}

func printSummary(cmd *cobra.Command, a *app, verb string, sum sqlite.BackupSummary) error {
	if a.flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), sum)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d profiles, %d tasks, %d notes", verb, sum.Profiles, sum.Tasks, sum.Notes)
	if sum.Skipped > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), " (%d skipped)", sum.Skipped)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
