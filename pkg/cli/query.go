package cli

import (
	"context"
	"fmt"

	"github.com/mchmarny/gradebook/pkg/grade"
	"github.com/mchmarny/gradebook/pkg/input"
	"github.com/urfave/cli/v3"
)

const thresholdFlag = "threshold"

func queryCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:   "list",
			Usage:  "List all students in insertion order",
			Action: cmdList,
		},
		{
			Name:   "scores",
			Usage:  "Show the component scores of a student",
			Flags:  []cli.Flag{newIDFlag()},
			Action: cmdScores,
		},
		{
			Name:   "grade",
			Usage:  "Show the letter grade of a student",
			Flags:  []cli.Flag{newIDFlag()},
			Action: cmdGrade,
		},
		{
			Name:    "average",
			Aliases: []string{"avg"},
			Usage:   "Show the weighted average of a student",
			Flags:   []cli.Flag{newIDFlag()},
			Action:  cmdAverage,
		},
		{
			Name:   "rank",
			Usage:  "Show the 1-based rank of a student by average",
			Flags:  []cli.Flag{newIDFlag()},
			Action: cmdRank,
		},
		{
			Name:    "distribution",
			Aliases: []string{"dist"},
			Usage:   "Show the letter grade distribution",
			Action:  cmdDistribution,
		},
		{
			Name:      "filter",
			Usage:     "List ranked students above a threshold",
			UsageText: `gradebook filter --threshold 60`,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     thresholdFlag,
					Aliases:  []string{"t"},
					Usage:    "Lists students whose average is strictly above this value",
					Required: true,
				},
			},
			Action: cmdFilter,
		},
	}
}

type scoresResult struct {
	ID      string    `json:"id" yaml:"id"`
	Labs    []float64 `json:"labs" yaml:"labs"`
	Midterm float64   `json:"midterm" yaml:"midterm"`
	Final   float64   `json:"final" yaml:"final"`
}

type gradeResult struct {
	ID    string       `json:"id" yaml:"id"`
	Grade grade.Letter `json:"grade" yaml:"grade"`
}

type averageResult struct {
	ID      string  `json:"id" yaml:"id"`
	Average float64 `json:"average" yaml:"average"`
}

type rankResult struct {
	ID   string `json:"id" yaml:"id"`
	Rank int    `json:"rank" yaml:"rank"`
}

func cmdList(_ context.Context, cmd *cli.Command) error {
	r, err := getConfig(cmd).Roster()
	if err != nil {
		return err
	}
	return encode(cmd, r.Students())
}

func cmdScores(_ context.Context, cmd *cli.Command) error {
	r, err := getConfig(cmd).Roster()
	if err != nil {
		return err
	}

	id := cmd.String(idFlag)
	s, err := r.Scores(id)
	if err != nil {
		return fmt.Errorf("failed to get scores: %w", err)
	}

	return encode(cmd, scoresResult{
		ID:      id,
		Labs:    s.Labs(),
		Midterm: s[grade.Midterm],
		Final:   s[grade.Final],
	})
}

func cmdGrade(_ context.Context, cmd *cli.Command) error {
	r, err := getConfig(cmd).Roster()
	if err != nil {
		return err
	}

	id := cmd.String(idFlag)
	l, err := r.LetterGrade(id)
	if err != nil {
		return fmt.Errorf("failed to get letter grade: %w", err)
	}
	return encode(cmd, gradeResult{ID: id, Grade: l})
}

func cmdAverage(_ context.Context, cmd *cli.Command) error {
	r, err := getConfig(cmd).Roster()
	if err != nil {
		return err
	}

	id := cmd.String(idFlag)
	avg, err := r.Average(id)
	if err != nil {
		return fmt.Errorf("failed to get average: %w", err)
	}
	return encode(cmd, averageResult{ID: id, Average: avg})
}

func cmdRank(_ context.Context, cmd *cli.Command) error {
	r, err := getConfig(cmd).Roster()
	if err != nil {
		return err
	}

	id := cmd.String(idFlag)
	rank, err := r.Rank(id)
	if err != nil {
		return fmt.Errorf("failed to get rank: %w", err)
	}
	return encode(cmd, rankResult{ID: id, Rank: rank})
}

func cmdDistribution(_ context.Context, cmd *cli.Command) error {
	r, err := getConfig(cmd).Roster()
	if err != nil {
		return err
	}
	return encode(cmd, r.Distribution().Buckets())
}

func cmdFilter(_ context.Context, cmd *cli.Command) error {
	threshold, err := input.ParseValue(cmd.String(thresholdFlag))
	if err != nil {
		return fmt.Errorf("invalid threshold: %w", err)
	}

	r, err := getConfig(cmd).Roster()
	if err != nil {
		return err
	}
	return encode(cmd, r.Filter(threshold))
}
