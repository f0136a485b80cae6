package board

import (
	"io/ioutil"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var headerPattern = regexp.MustCompile(`^(\d+)x(\d+)$`)

// ParseFromFile reads a board-file (spec §6 grammar) and returns a
// freshly constructed Board with every cell face-down and uncontrolled.
func ParseFromFile(path string) (*Board, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidFile, "reading %s: %v", path, err)
	}
	return ParseLayout(string(raw))
}

// ParseLayout parses board-file content already held in memory (used by
// ParseFromFile and directly by tests and hosts that load fixtures from
// somewhere other than the filesystem).
func ParseLayout(raw string) (*Board, error) {
	normalized := normalizeLineEndings(raw)
	lines := strings.Split(normalized, "\n")
	// Drop a single trailing empty line (the file's final LF).
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil, ErrInvalidFile
	}

	header := lines[0]
	m := headerPattern.FindStringSubmatch(header)
	if m == nil {
		return nil, errors.Wrapf(ErrInvalidHeader, "line 1: %q", header)
	}
	rows, _ := strconv.Atoi(m[1])
	cols, _ := strconv.Atoi(m[2])
	if rows < 1 || cols < 1 {
		return nil, errors.Wrapf(ErrInvalidDimensions, "line 1: %dx%d", rows, cols)
	}

	tokens := lines[1:]
	want := rows * cols
	if len(tokens) != want {
		return nil, errors.Wrapf(ErrWrongCardCount, "want %d cards, got %d", want, len(tokens))
	}

	pictures := make([][]string, rows)
	for r := 0; r < rows; r++ {
		pictures[r] = make([]string, cols)
		for c := 0; c < cols; c++ {
			idx := r*cols + c
			token := tokens[idx]
			if token == "" || strings.ContainsAny(token, " \t\r\f\v") {
				return nil, errors.Wrapf(ErrInvalidCard, "line %d: %q", idx+2, token)
			}
			pictures[r][c] = token
		}
	}

	return newBoard(rows, cols, pictures)
}

func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s
}
