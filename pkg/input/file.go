package input

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mchmarny/gradebook/pkg/grade"
	"github.com/mchmarny/gradebook/pkg/roster"
)

const commentPrefix = "#"

// Load reads the roster file at path. See Read for the format.
func Load(path string, w grade.Weights) (*roster.Roster, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: path not specified", roster.ErrFileUnreadable)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", roster.ErrFileUnreadable, err)
	}
	defer f.Close()

	r, err := Read(f, w)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	slog.Debug("roster loaded", "path", path, "students", r.Len())
	return r, nil
}

// Read builds a roster from one student per line:
//
//	<id> <name> <lab1> <lab2> <lab3> <midterm> <final>
//
// Blank lines and lines starting with # are skipped. The first malformed or
// duplicate line aborts the load and no roster is returned.
func Read(src io.Reader, w grade.Weights) (*roster.Roster, error) {
	r, err := roster.New(w)
	if err != nil {
		return nil, fmt.Errorf("initial weights: %w", err)
	}

	scanner := bufio.NewScanner(src)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}

		s, err := ParseStudent(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		if _, err := r.Add(s); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", roster.ErrFileUnreadable, err)
	}

	return r, nil
}
