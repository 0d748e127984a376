package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/log"
	"github.com/Makepad-fr/tada/internal/remote"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/ui"
)

// app carries root flags and what PersistentPreRunE resolved from them.
type app struct {
	stdout, stderr io.Writer

	configPath string
	server     string
	theme      string
	color      bool
	noColor    bool
	verbose    bool

	cfg     *config.Config
	cfgPath string
	closers []io.Closer
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tada",
		Short: "tada - a tiny todo list backed by a todo service",
		Long: `tada keeps a single todo list on a Remote Todo Service.

Run without a subcommand to open the interactive list.`,
		Example: `  tada serve --storage memory
  tada add "süt al"
  tada ls
  tada edit 2 "taze ekmek al"
  tada rm 1`,
		Args:              usageArgs(cobra.NoArgs),
		PersistentPreRunE: a.setup,
		RunE:              a.runTUI,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default ~/.tada/config.yaml)")
	pf.StringVarP(&a.server, "server", "s", "", "todo service URL (overrides config and TADA_SERVER)")
	pf.StringVar(&a.theme, "theme", "", "output theme: "+strings.Join(ui.Themes, ", "))
	pf.BoolVar(&a.color, "color", false, "force colored output")
	pf.BoolVar(&a.noColor, "no-color", false, "disable colored output")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		a.tuiCmd(),
		a.lsCmd(),
		a.addCmd(),
		a.editCmd(),
		a.rmCmd(),
		a.resetCmd(),
		a.serveCmd(),
		a.configCmd(),
	)
	return root
}

// setup loads config, then applies flags on top, then starts logging.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	path := a.configPath
	if path == "" {
		if p, err := config.DefaultPath(); err == nil {
			path = p
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if a.server != "" {
		cfg.Client.URL = a.server
	}
	if a.theme != "" {
		cfg.Theme = a.theme
	}
	if err := ui.SetTheme(cfg.Theme); err != nil {
		return &usageError{err: err}
	}
	ui.SetColorForcing(a.color, a.noColor)
	a.cfg, a.cfgPath = cfg, path

	level := cfg.Log.Level
	switch cmd.Name() {
	case "tada", "tui":
		// the alt screen owns the terminal
		f, err := log.OpenFile(cfg.Log.File)
		if err != nil {
			log.Init(log.Options{Level: "disabled"})
			return nil
		}
		a.closers = append(a.closers, f)
		log.Init(log.Options{Level: level, Out: f})
	case "serve":
		log.Init(log.Options{Level: level, Format: cfg.Log.Format, Out: a.stderr})
	default:
		log.Init(log.Options{Level: "warn", Out: a.stderr})
	}
	if a.verbose {
		log.SetLevel("debug")
	}
	log.Debug().Str("config", path).Str("server", cfg.Client.URL).Str("command", cmd.Name()).Msg("starting")
	return nil
}

func (a *app) client() (*remote.Client, error) {
	timeout, err := a.cfg.ClientTimeout()
	if err != nil {
		return nil, err
	}
	return remote.New(a.cfg.Client.URL, remote.WithTimeout(timeout)), nil
}

func (a *app) controller() (*store.Controller, error) {
	c, err := a.client()
	if err != nil {
		return nil, err
	}
	return store.New(c), nil
}

func (a *app) close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
	a.closers = nil
}
