package board

import (
	"io/ioutil"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// yamlLayout is a structured alternative to the plain-text board-file
// grammar (spec §6), for hosts that prefer YAML fixtures — grounded in
// the teacher's gamescript package, which lists deterministic per-hand
// card orders under a YAML "hands:" section rather than a flat token
// stream.
type yamlLayout struct {
	Rows  int        `yaml:"rows"`
	Cols  int        `yaml:"cols"`
	Cards [][]string `yaml:"cards"`
}

// ParseLayoutYAML loads a board from a YAML layout file. The grammar is
// equivalent to the plain-text form: "none" denotes an empty cell, every
// other token must be non-empty and whitespace-free.
func ParseLayoutYAML(path string) (*Board, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidFile, "reading %s: %v", path, err)
	}
	var layout yamlLayout
	if err := yaml.Unmarshal(raw, &layout); err != nil {
		return nil, errors.Wrapf(ErrInvalidFile, "parsing %s: %v", path, err)
	}
	if layout.Rows < 1 || layout.Cols < 1 {
		return nil, errors.Wrapf(ErrInvalidDimensions, "%dx%d", layout.Rows, layout.Cols)
	}
	if len(layout.Cards) != layout.Rows {
		return nil, errors.Wrapf(ErrWrongCardCount, "want %d rows, got %d", layout.Rows, len(layout.Cards))
	}
	for r, row := range layout.Cards {
		if len(row) != layout.Cols {
			return nil, errors.Wrapf(ErrWrongCardCount, "row %d: want %d cols, got %d", r, layout.Cols, len(row))
		}
		for c, token := range row {
			if token == "" || strings.ContainsAny(token, " \t\n\r\f\v") {
				return nil, errors.Wrapf(ErrInvalidCard, "row %d col %d: %q", r, c, token)
			}
		}
	}
	return newBoard(layout.Rows, layout.Cols, layout.Cards)
}
