package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/workbench/pkg/types"
)

// taskFlags backs the add and edit commands.
type taskFlags struct {
	title       string
	description string
	date        string
	time        string
}

func (f *taskFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "task title")
	cmd.Flags().StringVar(&f.description, "description", "", "task description")
	cmd.Flags().StringVar(&f.date, "date", "", "reminder date, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.time, "time", "", "reminder time, HH:MM (24h)")
}

func newTaskCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage the to-do list",
		Long: "Task manages to-do items. A task with both --date and --time set is\n" +
			"announced by \"workbench remind\" once that moment has passed.",
	}
	cmd.AddCommand(
		newTaskAddCmd(a),
		newTaskListCmd(a),
		newTaskShowCmd(a),
		newTaskEditCmd(a),
		newTaskDoneCmd(a, "done", true),
		newTaskDoneCmd(a, "undone", false),
		newTaskDeleteCmd(a),
	)
	return cmd
}

func newTaskAddCmd(a *app) *cobra.Command {
	var f taskFlags
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a task",
		Example: `  workbench task add --title "Renew passport" --date 2025-07-01 --time 09:00`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.open(cmd)
			if err != nil {
				return err
			}
			t := &types.Task{Title: f.title, Description: f.description, ReminderDate: f.date, ReminderTime: f.time}
			if _, err := sess.AddTask(cmd.Context(), t); err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), t)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task %d: %s\n", t.ID, t.Title)
			return nil
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTaskListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tasks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.open(cmd)
			if err != nil {
				return err
			}
			tasks, err := sess.Store().Tasks().ListTasks(cmd.Context())
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				if tasks == nil {
					tasks = []types.Task{}
				}
				return printJSON(cmd.OutOrStdout(), tasks)
			}
			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks.")
				return nil
			}
			for i := range tasks {
				printTaskLine(out, &tasks[i])
			}
			return nil
		},
	}
}

func printTaskLine(w io.Writer, t *types.Task) {
	mark := " "
	if t.Done {
		mark = "x"
	}
	fmt.Fprintf(w, "[%s] %4d  %s", mark, t.ID, t.Title)
	if t.HasReminder() {
		fmt.Fprintf(w, "  (due %s %s)", t.ReminderDate, t.ReminderTime)
	}
	fmt.Fprintln(w)
	if preview := t.Preview(); preview != "" {
		fmt.Fprintf(w, "          %s\n", preview)
	}
}

func newTaskShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			sess, err := a.open(cmd)
			if err != nil {
				return err
			}
			t, err := sess.Store().Tasks().GetTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), t)
			}
			out := cmd.OutOrStdout()
			status := "open"
			if t.Done {
				status = "done"
			}
			fmt.Fprintf(out, "Task %d (%s)\nTitle: %s\n", t.ID, status, t.Title)
			if t.ReminderDate != "" || t.ReminderTime != "" {
				fmt.Fprintf(out, "Reminder: %s %s\n", t.ReminderDate, t.ReminderTime)
			}
			if t.Description != "" {
				fmt.Fprintf(out, "\n%s\n", t.Description)
			}
			return nil
		},
	}
}

func newTaskEditCmd(a *app) *cobra.Command {
	var f taskFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task's title, description or reminder",
		Long: "Edit changes only the fields whose flags are given. Pass an empty\n" +
			"--date or --time to clear the reminder. An edited task may remind again.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			sess, err := a.open(cmd)
			if err != nil {
				return err
			}
			t, err := sess.Store().Tasks().GetTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("title") {
				t.Title = f.title
			}
			if flags.Changed("description") {
				t.Description = f.description
			}
			if flags.Changed("date") {
				t.ReminderDate = f.date
			}
			if flags.Changed("time") {
				t.ReminderTime = f.time
			}
			if err := sess.UpdateTask(cmd.Context(), t); err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), t)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %d.\n", t.ID)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newTaskDoneCmd(a *app, use string, done bool) *cobra.Command {
	short := "Mark a task as done"
	if !done {
		short = "Mark a task as not done"
	}
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			sess, err := a.open(cmd)
			if err != nil {
				return err
			}
			if err := sess.Store().Tasks().SetTaskDone(cmd.Context(), id, done); err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]any{"id": id, "done": done})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %d marked %s.\n", id, use)
			return nil
		},
	}
}

func newTaskDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			sess, err := a.open(cmd)
			if err != nil {
				return err
			}
			if err := sess.DeleteTask(cmd.Context(), id); err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]int64{"deleted": id})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d.\n", id)
			return nil
		},
	}
}
