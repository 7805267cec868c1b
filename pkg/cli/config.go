package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mchmarny/gradebook/pkg/config"
	"github.com/urfave/cli/v3"
)

const outFlag = "out"

func newConfigCmd() *cli.Command {
	return &cli.Command{
		Name:            "config",
		Usage:           "Manage the config file",
		HideHelpCommand: true,
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write the effective config to a YAML file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  outFlag,
						Usage: "Path of the config file to write",
						Value: config.FileName,
					},
				},
				Action: cmdConfigInit,
			},
			{
				Name:   "show",
				Usage:  "Print the effective config",
				Action: cmdConfigShow,
			},
		},
	}
}

func cmdConfigInit(_ context.Context, cmd *cli.Command) error {
	path := cmd.String(outFlag)
	if err := config.Save(path, getConfig(cmd).Config); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	slog.Info("config saved", "path", path)
	return nil
}

func cmdConfigShow(_ context.Context, cmd *cli.Command) error {
	return encode(cmd, getConfig(cmd).Config)
}
