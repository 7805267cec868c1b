package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mchmarny/gradebook/pkg/grade"
	"github.com/mchmarny/gradebook/pkg/input"
	"github.com/mchmarny/gradebook/pkg/roster"
	"github.com/urfave/cli/v3"
)

const menu = `Welcome to Grade System.
Function menu:
1) Show grades
2) Show grade letters
3) Show average
4) Show rank
5) Show distribution
6) Filtering
7) Add Student
8) Update Score
9) Update weights
10) Exit
`

func newShellCmd() *cli.Command {
	return &cli.Command{
		Name:    "shell",
		Aliases: []string{"menu"},
		Usage:   "Start the interactive numbered menu",
		Action:  cmdShell,
	}
}

func cmdShell(_ context.Context, cmd *cli.Command) error {
	r, err := getConfig(cmd).Roster()
	if err != nil {
		return err
	}
	return newShell(r, reader(cmd), writer(cmd)).run()
}

// shell drives one roster from a line oriented menu. Every roster error is
// printed and the loop continues; only reading the input can end it early.
type shell struct {
	roster *roster.Roster
	in     *bufio.Scanner
	out    io.Writer
}

func newShell(r *roster.Roster, in io.Reader, out io.Writer) *shell {
	return &shell{roster: r, in: bufio.NewScanner(in), out: out}
}

func (s *shell) run() error {
	for {
		fmt.Fprint(s.out, menu)
		choice, ok := s.prompt("Enter your choice: ")
		if !ok {
			return s.in.Err()
		}

		switch choice {
		case "1":
			s.withID(s.showScores)
		case "2":
			s.withID(s.showLetterGrade)
		case "3":
			s.withID(s.showAverage)
		case "4":
			s.withID(s.showRank)
		case "5":
			s.showDistribution()
		case "6":
			if line, ok := s.prompt("Enter threshold score: "); ok {
				s.filter(line)
			}
		case "7":
			if line, ok := s.prompt("Enter student info (sID name lab1 lab2 lab3 mid final): "); ok {
				s.add(line)
			}
		case "8":
			if line, ok := s.prompt("Update grades, input format : StudentID score_name new_grades ... \n" +
				"Example: 00001 lab1 50 lab3 40 midterm 100\n"); ok {
				s.updateScore(line)
			}
		case "9":
			if line, ok := s.prompt("Update weights, input format: weight_name new_weight \n" +
				"Example: lab1 0.1 lab2 0.1 lab3 0.1 midterm 0.3 final 0.4\n"); ok {
				s.updateWeight(line)
			}
		case "10":
			fmt.Fprintln(s.out, "Exiting the program.")
			return nil
		default:
			fmt.Fprintln(s.out, "Invalid choice")
		}
	}
}

// prompt prints p and reads one trimmed line. It returns false at end of input.
func (s *shell) prompt(p string) (string, bool) {
	fmt.Fprint(s.out, p)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *shell) withID(fn func(id string) error) {
	id, ok := s.prompt("Enter student ID: ")
	if !ok {
		return
	}
	if err := fn(id); err != nil {
		s.printErr(id, err)
	}
}

func (s *shell) printErr(id string, err error) {
	if errors.Is(err, roster.ErrNotFound) {
		fmt.Fprintf(s.out, "Student with ID %s not found.\n", id)
		return
	}
	fmt.Fprintf(s.out, "Error: %v\n", err)
}

func (s *shell) showScores(id string) error {
	sc, err := s.roster.Scores(id)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "\nLab Scores:", sc.Labs())
	fmt.Fprintln(s.out, "Midterm Score:", sc[grade.Midterm])
	fmt.Fprintf(s.out, "Final Score: %v\n\n", sc[grade.Final])
	return nil
}

func (s *shell) showLetterGrade(id string) error {
	l, err := s.roster.LetterGrade(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "\nLetter Grade: %s\n\n", l)
	return nil
}

func (s *shell) showAverage(id string) error {
	avg, err := s.roster.Average(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "\nAverage Score: %.2f\n\n", avg)
	return nil
}

func (s *shell) showRank(id string) error {
	rank, err := s.roster.Rank(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "\nRanking: %d\n\n", rank)
	return nil
}

func (s *shell) showDistribution() {
	fmt.Fprintln(s.out, "Grade Distribution:")
	for _, b := range s.roster.Distribution().Buckets() {
		fmt.Fprintf(s.out, "%s: %d\n", b.Grade, b.Count)
	}
}

func (s *shell) filter(line string) {
	threshold, err := input.ParseValue(line)
	if err != nil {
		s.printErr("", err)
		return
	}
	fmt.Fprintln(s.out)
	for _, r := range s.roster.Filter(threshold) {
		fmt.Fprintf(s.out, "%d %s %s %s %.2f\n", r.Rank, r.Name, r.ID, r.Grade, r.Average)
	}
}

func (s *shell) add(line string) {
	st, err := input.ParseStudent(line)
	if err != nil {
		s.printErr("", err)
		return
	}
	rec, err := s.roster.Add(st)
	if err != nil {
		s.printErr("", err)
		return
	}
	fmt.Fprintf(s.out, "Added %s %s: %s %.2f\n", rec.ID, rec.Name, rec.Grade, rec.Average)
}

func (s *shell) updateScore(line string) {
	u, err := input.ParseScoreUpdate(line)
	if err != nil {
		s.printErr("", err)
		return
	}
	rec, err := s.roster.UpdateScores(u.ID, u.Changes)
	if err != nil {
		s.printErr(u.ID, err)
		return
	}
	fmt.Fprintf(s.out, "Updated %s %s: %s %.2f\n", rec.ID, rec.Name, rec.Grade, rec.Average)
}

func (s *shell) updateWeight(line string) {
	changes, err := input.ParseWeightUpdate(line)
	if err != nil {
		s.printErr("", err)
		return
	}
	w, err := s.roster.UpdateWeights(changes)
	if err != nil {
		s.printErr("", err)
		return
	}
	parts := make([]string, 0, grade.ComponentCount)
	for _, c := range grade.Components() {
		parts = append(parts, fmt.Sprintf("%s %v", c, w[c]))
	}
	fmt.Fprintf(s.out, "Weights: %s\n", strings.Join(parts, " "))
}
