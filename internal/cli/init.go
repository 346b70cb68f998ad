package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/imyousuf/graphselect/internal/config"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default .graphselect.yaml",
		Long: `Write a default configuration to .graphselect.yaml in the current directory
(or to --config).

The file names the graph catalog, the default selection, the base graphs to
select from and the path search limits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfgFile
			if path == "" {
				path = config.DefaultConfigFile + "." + config.DefaultConfigType
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists; use --force to overwrite", path)
			}

			if err := config.WriteConfig(config.Default(), path); err != nil {
				return fmt.Errorf("write config file: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created %s\n", path)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  1. List base graph files (or store:<name> entries) under graphs")
			fmt.Fprintln(out, "  2. Set selection.type and selection.selected_variables")
			fmt.Fprintln(out, "  3. Run 'graphselect select' or 'graphselect watch'")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}
