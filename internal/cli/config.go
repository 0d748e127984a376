package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/ui"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
		Args:  usageArgs(cobra.NoArgs),
	}
	cmd.AddCommand(a.configInitCmd())
	return cmd
}

func (a *app) configInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective settings to the config file",
		Long: `Write the settings tada would run with (defaults, then environment,
then --server and --theme) to the config file.

Examples:
  tada config init
  tada --server http://todo.lan:8080 config init --force`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfgPath == "" {
				return errors.New("config init: no config path, pass --config")
			}
			if _, err := os.Stat(a.cfgPath); err == nil && !force {
				return fmt.Errorf("config init: %s already exists (use --force to overwrite)", a.cfgPath)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("config init: %w", err)
			}
			if err := a.cfg.Save(a.cfgPath); err != nil {
				return fmt.Errorf("config init: %w", err)
			}
			ui.OK(a.stdout, "wrote "+a.cfgPath)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}
