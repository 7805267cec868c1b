package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mchmarny/gradebook/pkg/config"
	"github.com/mchmarny/gradebook/pkg/input"
	"github.com/mchmarny/gradebook/pkg/logging"
	"github.com/mchmarny/gradebook/pkg/roster"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	appName      = "gradebook"
	appConfigKey = "app-config"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""
)

const (
	debugFlag  = "debug"
	configFlag = "config"
	inputFlag  = "input"
	formatFlag = "format"
	idFlag     = "id"
)

// Flags and commands keep parse state, so every app builds its own.
func newIDFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     idFlag,
		Usage:    "Student ID",
		Required: true,
	}
}

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefaultCLILogger("info")

	app := newApp()
	if err := app.Run(context.Background(), os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

// appConfig is the per-run state shared with the subcommands.
type appConfig struct {
	Config *config.Config
	roster *roster.Roster
}

// Roster loads the roster file on first use. A file that can not be read or
// parsed is reported and leaves the roster empty; invalid weights are fatal.
func (a *appConfig) Roster() (*roster.Roster, error) {
	if a.roster != nil {
		return a.roster, nil
	}

	w, err := a.Config.WeightVector()
	if err != nil {
		return nil, err
	}

	r, err := input.Load(a.Config.Input, w)
	if err != nil {
		slog.Error("roster not loaded, starting empty", "path", a.Config.Input, "error", err)
		if r, err = roster.New(w); err != nil {
			return nil, fmt.Errorf("invalid weights: %w", err)
		}
	}

	a.roster = r
	return r, nil
}

func getConfig(cmd *cli.Command) *appConfig {
	return cmd.Root().Metadata[appConfigKey].(*appConfig)
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:                  appName,
		Version:               fmt.Sprintf("%s (%s - %s)", version, commit, date),
		Usage:                 "Student roster with weighted averages, letter grades and rankings",
		EnableShellCompletion: true,
		HideHelpCommand:       true,
		Metadata:              map[string]any{},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  debugFlag,
				Usage: "Prints verbose logs (optional, default: false)",
			},
			&cli.StringFlag{
				Name:    configFlag,
				Usage:   "Path to the YAML config file (optional, defaults to environment only)",
				Sources: cli.EnvVars("GRADEBOOK_CONFIG"),
			},
			&cli.StringFlag{
				Name:  inputFlag,
				Usage: "Path to the roster file (overrides config)",
			},
			&cli.StringFlag{
				Name:  formatFlag,
				Usage: "Output format [json, yaml] (overrides config)",
			},
		},
		Commands: append(queryCommands(),
			newAddCmd(),
			newUpdateCmd(),
			newShellCmd(),
			newServeCmd(),
			newConfigCmd(),
		),
		Before: before,
	}
}

func before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := config.Load(cmd.String(configFlag))
	if err != nil {
		return ctx, err
	}

	if cmd.IsSet(inputFlag) {
		cfg.Input = cmd.String(inputFlag)
	}
	if cmd.IsSet(formatFlag) {
		cfg.Format = cmd.String(formatFlag)
		if cfg.Format == "yml" {
			cfg.Format = config.FormatYAML
		}
	}
	if cmd.Bool(debugFlag) {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return ctx, err
	}

	logging.SetDefaultCLILogger(cfg.LogLevel)

	cmd.Root().Metadata[appConfigKey] = &appConfig{Config: cfg}
	return ctx, nil
}

func writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func reader(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}
	return os.Stdin
}

// encode writes v in the configured output format.
func encode(cmd *cli.Command, v any) error {
	w := writer(cmd)
	if getConfig(cmd).Config.Format == config.FormatYAML {
		e := yaml.NewEncoder(w)
		defer e.Close()
		return e.Encode(v)
	}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
