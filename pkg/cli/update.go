package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/mchmarny/gradebook/pkg/grade"
	"github.com/mchmarny/gradebook/pkg/input"
	"github.com/mchmarny/gradebook/pkg/roster"
	"github.com/urfave/cli/v3"
)

func newAddCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a student and print the resulting record and distribution",
		ArgsUsage: `"<id> <name> <lab1> <lab2> <lab3> <midterm> <final>"`,
		UsageText: `gradebook add "00005 Kim 80 85 90 75 88"`,
		Action:    cmdAdd,
	}
}

func newUpdateCmd() *cli.Command {
	return &cli.Command{
		Name:            "update",
		Usage:           "Update student scores or component weights",
		HideHelpCommand: true,
		Commands: []*cli.Command{
			{
				Name:      "score",
				Usage:     "Update one or more scores of a student",
				ArgsUsage: `"<id> <component> <value> [<component> <value> ...]"`,
				UsageText: `gradebook update score "00001 lab1 50 lab3 40 midterm 100"`,
				Action:    cmdUpdateScore,
			},
			{
				Name:      "weight",
				Usage:     "Update one or more component weights",
				ArgsUsage: `"<component> <value> [<component> <value> ...]"`,
				UsageText: `gradebook update weight "lab1 0.1 lab2 0.1 lab3 0.1 midterm 0.3 final 0.4"`,
				Action:    cmdUpdateWeight,
			},
		},
	}
}

// recordState is the state after a record mutation.
type recordState struct {
	Record       roster.Record  `json:"record" yaml:"record"`
	Distribution []grade.Bucket `json:"distribution" yaml:"distribution"`
}

// weightState is the state after a weight mutation.
type weightState struct {
	Weights      map[grade.Component]float64 `json:"weights" yaml:"weights"`
	Distribution []grade.Bucket              `json:"distribution" yaml:"distribution"`
}

// argLine joins the positional args so both quoted and unquoted forms work.
func argLine(cmd *cli.Command) string {
	return strings.Join(cmd.Args().Slice(), " ")
}

func cmdAdd(_ context.Context, cmd *cli.Command) error {
	line := argLine(cmd)
	if line == "" {
		return cli.ShowSubcommandHelp(cmd)
	}

	s, err := input.ParseStudent(line)
	if err != nil {
		return fmt.Errorf("failed to parse student: %w", err)
	}

	r, err := getConfig(cmd).Roster()
	if err != nil {
		return err
	}

	rec, err := r.Add(s)
	if err != nil {
		return fmt.Errorf("failed to add student: %w", err)
	}

	return encode(cmd, recordState{Record: rec, Distribution: r.Distribution().Buckets()})
}

func cmdUpdateScore(_ context.Context, cmd *cli.Command) error {
	line := argLine(cmd)
	if line == "" {
		return cli.ShowSubcommandHelp(cmd)
	}

	u, err := input.ParseScoreUpdate(line)
	if err != nil {
		return fmt.Errorf("failed to parse score update: %w", err)
	}

	r, err := getConfig(cmd).Roster()
	if err != nil {
		return err
	}

	rec, err := r.UpdateScores(u.ID, u.Changes)
	if err != nil {
		return fmt.Errorf("failed to update scores: %w", err)
	}

	return encode(cmd, recordState{Record: rec, Distribution: r.Distribution().Buckets()})
}

func cmdUpdateWeight(_ context.Context, cmd *cli.Command) error {
	line := argLine(cmd)
	if line == "" {
		return cli.ShowSubcommandHelp(cmd)
	}

	changes, err := input.ParseWeightUpdate(line)
	if err != nil {
		return fmt.Errorf("failed to parse weight update: %w", err)
	}

	r, err := getConfig(cmd).Roster()
	if err != nil {
		return err
	}

	w, err := r.UpdateWeights(changes)
	if err != nil {
		return fmt.Errorf("failed to update weights: %w", err)
	}

	return encode(cmd, weightState{Weights: w.Map(), Distribution: r.Distribution().Buckets()})
}
