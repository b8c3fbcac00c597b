package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/workbench/pkg/types"
)

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage CV profiles",
		Long: `Profile manages saved CVs. A profile document is YAML or JSON with the
fields name, contact_number, email, location, objective, skills, photo_path,
education (course, year_completion, grade, institution) and experience
(title, description, duration).

Profiles are addressed by their unique profile name or by id.`,
	}
	cmd.AddCommand(
		newProfileListCmd(a),
		newProfileShowCmd(a),
		newProfileCreateCmd(a),
		newProfileUpdateCmd(a),
		newProfileDeleteCmd(a),
		newProfileExportCmd(a),
	)
	return cmd
}

func newProfileListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved profiles by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.open(cmd)
			if err != nil {
				return err
			}
			refs, err := sess.ListProfiles(cmd.Context())
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				if refs == nil {
					refs = []types.ProfileRef{}
				}
				return printJSON(cmd.OutOrStdout(), refs)
			}
			out := cmd.OutOrStdout()
			if len(refs) == 0 {
				fmt.Fprintln(out, "No profiles saved.")
				return nil
			}
			for _, r := range refs {
				fmt.Fprintf(out, "%4d  %s\n", r.ID, r.Name)
			}
			return nil
		},
	}
}

func newProfileShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <profile>",
		Short: "Print a profile document",
		Long:  "Show prints the profile as YAML (or JSON with --json), in the same shape\nthat create and update accept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.open(cmd)
			if err != nil {
				return err
			}
			id, err := resolveProfile(cmd.Context(), sess, args[0])
			if err != nil {
				return err
			}
			p, err := sess.LoadProfile(cmd.Context(), id)
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), p)
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(p); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

func newProfileCreateCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create <profile-name>",
		Short: "Save a profile document under a new name",
		Example: `  workbench profile create main --file cv.yaml
  cat cv.json | workbench profile create main --file -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readProfileFile(file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			sess, err := a.open(cmd)
			if err != nil {
				return err
			}
			id, err := sess.SaveAsNew(cmd.Context(), args[0], p)
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), types.ProfileRef{ID: id, Name: p.ProfileName})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' saved (id %d).\n", p.ProfileName, id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "profile document, YAML or JSON (\"-\" for stdin)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newProfileUpdateCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "update <profile>",
		Short: "Overwrite a saved profile with a document",
		Long:  "Update replaces every field and both education and experience lists.\nThe profile name is kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readProfileFile(file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			sess, err := a.open(cmd)
			if err != nil {
				return err
			}
			id, err := resolveProfile(cmd.Context(), sess, args[0])
			if err != nil {
				return err
			}
			if _, err := sess.LoadProfile(cmd.Context(), id); err != nil {
				return err
			}
			if err := sess.SaveCurrent(cmd.Context(), p); err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]int64{"id": id})
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Profile updated successfully!")
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "profile document, YAML or JSON (\"-\" for stdin)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newProfileDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <profile>",
		Short: "Delete a profile with its education and experience",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.open(cmd)
			if err != nil {
				return err
			}
			id, err := resolveProfile(cmd.Context(), sess, args[0])
			if err != nil {
				return err
			}
			if _, err := sess.LoadProfile(cmd.Context(), id); err != nil {
				return err
			}
			if err := sess.DeleteCurrent(cmd.Context()); err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]int64{"deleted": id})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' deleted.\n", args[0])
			return nil
		},
	}
}

func newProfileExportCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <profile>",
		Short: "Render a profile to PDF",
		Long: `Export renders the profile as a one-column CV. A photo is required.
Without --output the file is <Full_Name>_CV.pdf in export_dir, or in the
current directory when export_dir is not configured.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.open(cmd)
			if err != nil {
				return err
			}
			id, err := resolveProfile(cmd.Context(), sess, args[0])
			if err != nil {
				return err
			}
			p, err := sess.LoadProfile(cmd.Context(), id)
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = filepath.Join(a.cfg.ExportDir, types.DefaultFileName(p.Name))
			}
			if err := sess.ExportProfile(p, path); err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]string{"path": path})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "CV successfully generated at:\n%s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "destination PDF path")
	return cmd
}
