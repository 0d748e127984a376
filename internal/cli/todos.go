package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/ui"
)

func (a *app) lsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List todos",
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl, err := a.controller()
			if err != nil {
				return err
			}
			if err := ctrl.Load(cmd.Context()); err != nil {
				return fmt.Errorf("load: %w", err)
			}
			st := ctrl.State()
			t := ui.Current()

			lines := []string{ui.Header(a.stdout, len(st.Todos)), ""}
			lines = append(lines, ui.TodoLines(a.stdout, st.Todos)...)
			lines = append(lines, "", ui.Paint(a.stdout, t.Muted, `Tip: add with tada add "süt al"`))
			ui.Panel(a.stdout, lines)
			return nil
		},
	}
}

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a todo (text can be multiple words)",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return usagef("add: empty text")
			}
			ctrl, err := a.controller()
			if err != nil {
				return err
			}
			todo, err := ctrl.Add(cmd.Context(), text)
			if err != nil {
				return fmt.Errorf("add: %w", err)
			}
			ui.OK(a.stdout, fmt.Sprintf("added #%d", todo.ID))
			return nil
		},
	}
}

func (a *app) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <text...>",
		Short: "Replace the text of a todo",
		Args:  usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			text := strings.TrimSpace(strings.Join(args[1:], " "))
			if text == "" {
				return usagef("edit: empty text")
			}
			ctrl, err := a.controller()
			if err != nil {
				return err
			}
			if err := ctrl.Load(cmd.Context()); err != nil {
				return fmt.Errorf("load: %w", err)
			}
			if err := ctrl.BeginEdit(id); err != nil {
				return missing(id, err)
			}
			if err := ctrl.UpdateDraft(text); err != nil {
				return err
			}
			if err := ctrl.SaveEdit(cmd.Context()); err != nil {
				return fmt.Errorf("edit: %w", err)
			}
			ui.OK(a.stdout, fmt.Sprintf("updated #%d", id))
			return nil
		},
	}
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Remove a todo",
		Args:    usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctrl, err := a.controller()
			if err != nil {
				return err
			}
			if err := ctrl.Load(cmd.Context()); err != nil {
				return fmt.Errorf("load: %w", err)
			}
			if err := ctrl.Delete(cmd.Context(), id); err != nil {
				return missing(id, err)
			}
			ui.OK(a.stdout, fmt.Sprintf("removed #%d", id))
			return nil
		},
	}
}

func (a *app) resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every todo (needs a server in test mode)",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			if err := c.Truncate(cmd.Context()); err != nil {
				return fmt.Errorf("reset: %w", err)
			}
			ui.OK(a.stdout, "reset")
			return nil
		},
	}
}

// missing turns a refusal on an unknown id into a readable error.
func missing(id int64, err error) error {
	if errors.Is(err, store.ErrInvalidState) {
		return fmt.Errorf("no todo #%d (run `tada ls` to see ids)", id)
	}
	return err
}
