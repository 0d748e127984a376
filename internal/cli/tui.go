package cli

import (
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/tui"
)

func (a *app) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive list (default)",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  a.runTUI,
	}
}

func (a *app) runTUI(cmd *cobra.Command, _ []string) error {
	ctrl, err := a.controller()
	if err != nil {
		return err
	}
	return tui.Run(cmd.Context(), ctrl)
}
