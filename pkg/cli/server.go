package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mchmarny/gradebook/pkg/server"
	"github.com/urfave/cli/v3"
)

const addressFlag = "address"

func newServeCmd() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"server"},
		Usage:   "Start local HTTP server over the loaded roster",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  addressFlag,
				Usage: "Address on which the server will listen (overrides config)",
			},
		},
		Action: cmdServe,
	}
}

func cmdServe(ctx context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)
	r, err := cfg.Roster()
	if err != nil {
		return err
	}

	addr := cfg.Config.Server.Address
	if cmd.IsSet(addressFlag) {
		addr = cmd.String(addressFlag)
	}

	s, err := server.New(r, slog.Default())
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return s.Run(ctx, addr)
}
