package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/workbench/pkg/types"
)

func newNoteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Manage notes",
	}
	cmd.AddCommand(
		newNoteAddCmd(a),
		newNoteListCmd(a),
		newNoteSearchCmd(a),
		newNoteShowCmd(a),
		newNoteEditCmd(a),
		newNoteDeleteCmd(a),
	)
	return cmd
}

func newNoteAddCmd(a *app) *cobra.Command {
	var title, content string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a note",
		Long:  "Add saves a note. With --content - the body is read from stdin.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := noteContent(content, cmd.InOrStdin())
			if err != nil {
				return err
			}
			sess, err := a.open(cmd)
			if err != nil {
				return err
			}
			n := &types.Note{Title: title, Content: body}
			if _, err := sess.Store().Notes().AddNote(cmd.Context(), n); err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), n)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added note %d: %s\n", n.ID, n.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "note title")
	cmd.Flags().StringVar(&content, "content", "", "note body (\"-\" for stdin)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func noteContent(flag string, stdin io.Reader) (string, error) {
	if flag != "-" {
		return flag, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read note content: %w", err)
	}
	return string(data), nil
}

func printNotes(cmd *cobra.Command, a *app, notes []types.Note, empty string) error {
	if a.flags.jsonMode {
		if notes == nil {
			notes = []types.Note{}
		}
		return printJSON(cmd.OutOrStdout(), notes)
	}
	out := cmd.OutOrStdout()
	if len(notes) == 0 {
		fmt.Fprintln(out, empty)
		return nil
	}
	for _, n := range notes {
		fmt.Fprintf(out, "%4d  %s\n", n.ID, n.Title)
	}
	return nil
}

func newNoteListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List notes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.open(cmd)
			if err != nil {
				return err
			}
			notes, err := sess.Store().Notes().ListNotes(cmd.Context())
			if err != nil {
				return err
			}
			return printNotes(cmd, a, notes, "No notes.")
		},
	}
}

func newNoteSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Find notes whose title or body contains text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.open(cmd)
			if err != nil {
				return err
			}
			notes, err := sess.Store().Notes().SearchNotes(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printNotes(cmd, a, notes, "No matching notes.")
		},
	}
}

func newNoteShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a note",
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
			n, err := sess.Store().Notes().GetNote(cmd.Context(), id)
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), n)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", n.Title, n.Content)
			return nil
		},
	}
}

func newNoteEditCmd(a *app) *cobra.Command {
	var title, content string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a note's title or body",
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
			n, err := sess.Store().Notes().GetNote(cmd.Context(), id)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("title") {
				n.Title = title
			}
			if cmd.Flags().Changed("content") {
				if n.Content, err = noteContent(content, cmd.InOrStdin()); err != nil {
					return err
				}
			}
			if err := sess.Store().Notes().UpdateNote(cmd.Context(), n); err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), n)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated note %d.\n", n.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&content, "content", "", "new body (\"-\" for stdin)")
	return cmd
}

func newNoteDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
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
			if err := sess.Store().Notes().DeleteNote(cmd.Context(), id); err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]int64{"deleted": id})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %d.\n", id)
			return nil
		},
	}
}
