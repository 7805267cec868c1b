// Package input turns the whitespace separated text formats (roster file
// lines and the add / update command strings) into typed roster requests.
// It is the only place where raw tokens are parsed.
package input

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mchmarny/gradebook/pkg/grade"
	"github.com/mchmarny/gradebook/pkg/roster"
)

// StudentFieldCount is the token count of an add command or roster file line:
// id, name and one score per component.
const StudentFieldCount = 2 + grade.ComponentCount

// ScoreUpdate is a parsed update score command.
type ScoreUpdate struct {
	ID      string         `json:"id" yaml:"id"`
	Changes []grade.Change `json:"changes" yaml:"changes"`
}

// ParseStudent parses "<id> <name> <lab1> <lab2> <lab3> <mid> <final>".
func ParseStudent(line string) (roster.Student, error) {
	return studentFromFields(strings.Fields(line))
}

// ParseScoreUpdate parses "<id> <component> <value> [<component> <value> ...]".
func ParseScoreUpdate(line string) (*ScoreUpdate, error) {
	f := strings.Fields(line)
	if len(f) == 0 {
		return nil, fmt.Errorf("%w: student id required", roster.ErrMalformedInput)
	}
	changes, err := parseChanges(f[1:])
	if err != nil {
		return nil, err
	}
	return &ScoreUpdate{ID: f[0], Changes: changes}, nil
}

// ParseWeightUpdate parses "<component> <value> [<component> <value> ...]".
func ParseWeightUpdate(line string) ([]grade.Change, error) {
	return parseChanges(strings.Fields(line))
}

// ParseValue parses a finite real number token.
func ParseValue(token string) (float64, error) {
	v, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: not a number: %q", roster.ErrMalformedInput, token)
	}
	return v, nil
}

func studentFromFields(f []string) (roster.Student, error) {
	var s roster.Student
	if len(f) != StudentFieldCount {
		return s, fmt.Errorf("%w: expected %d fields, got %d", roster.ErrMalformedInput, StudentFieldCount, len(f))
	}

	s.ID = f[0]
	s.Name = f[1]
	for i, tok := range f[2:] {
		v, err := ParseValue(tok)
		if err != nil {
			return s, fmt.Errorf("%s score: %w", grade.Component(i), err)
		}
		s.Scores[i] = v
	}
	return s, nil
}

func parseChanges(f []string) ([]grade.Change, error) {
	if len(f) == 0 {
		return nil, fmt.Errorf("%w: at least one component and value required", roster.ErrMalformedInput)
	}

	// names are checked before arity so "lab 95" reports the unknown component
	changes := make([]grade.Change, 0, (len(f)+1)/2)
	for i := 0; i < len(f); i += 2 {
		c, err := grade.ParseComponent(f[i])
		if err != nil {
			return nil, err
		}
		if i+1 >= len(f) {
			return nil, fmt.Errorf("%w: missing value for %s", roster.ErrMalformedInput, c)
		}
		v, err := ParseValue(f[i+1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c, err)
		}
		changes = append(changes, grade.Change{Component: c, Value: v})
	}
	return changes, nil
}
