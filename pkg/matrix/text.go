package matrix

import (
	"bytes"

	"github.com/matzehuels/emojiqr/pkg/errors"
)

// MarshalText writes one line per row, '1' for dark and '0' for light.
func (m *Matrix) MarshalText() ([]byte, error) {
	buf := make([]byte, 0, (m.width+1)*m.height)
	for y := range m.height {
		for x := range m.width {
			if m.At(x, y) {
				buf = append(buf, '1')
			} else {
				buf = append(buf, '0')
			}
		}
		buf = append(buf, '\n')
	}
	return buf, nil
}

// Parse reads the text form produced by MarshalText. '#' is accepted for dark
// and '.' for light so hand-drawn grids stay readable; blank lines are skipped.
func Parse(data []byte) (*Matrix, error) {
	var rows [][]bool
	for i, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimRight(line, "\r \t")
		if len(line) == 0 {
			continue
		}
		row := make([]bool, len(line))
		for x, c := range line {
			switch c {
			case '1', '#':
				row[x] = true
			case '0', '.':
			default:
				return nil, errors.New(errors.ErrCodeInvalidMatrix, "line %d: unexpected %q at column %d", i+1, c, x+1)
			}
		}
		rows = append(rows, row)
	}
	return New(rows)
}
