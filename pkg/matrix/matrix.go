// Package matrix holds the QR module matrix consumed by the compositor.
//
// A [Matrix] is a rectangular grid of booleans with no quiet zone baked in;
// true marks a dark module. Matrices are immutable once constructed. They come
// either from [New], which copies and validates caller-supplied rows, or from
// [Encode], which runs a payload through the QR encoder.
package matrix

import (
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/matzehuels/emojiqr/pkg/errors"
)

// MinSide is the smallest side length that fits one finder pattern.
const MinSide = 7

// StandardMinSide is the side length of a version-1 symbol.
const StandardMinSide = 21

// Matrix is an immutable grid of QR modules.
type Matrix struct {
	width, height int
	cells         []bool
}

// New copies rows into a Matrix. Rows must be non-empty, rectangular, and at
// least MinSide modules on each side.
func New(rows [][]bool) (*Matrix, error) {
	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidMatrix, "matrix is empty")
	}
	w := len(rows[0])
	for i, row := range rows {
		if len(row) != w {
			return nil, errors.New(errors.ErrCodeInvalidMatrix, "row %d has %d modules, want %d", i, len(row), w)
		}
	}
	h := len(rows)
	if w < MinSide || h < MinSide {
		return nil, errors.New(errors.ErrCodeInvalidMatrix, "matrix is %dx%d, need at least %dx%d", w, h, MinSide, MinSide)
	}

	cells := make([]bool, 0, w*h)
	for _, row := range rows {
		cells = append(cells, row...)
	}
	return &Matrix{width: w, height: h, cells: cells}, nil
}

// Width returns the number of module columns.
func (m *Matrix) Width() int { return m.width }

// Height returns the number of module rows.
func (m *Matrix) Height() int { return m.height }

// At reports whether the module at column x, row y is dark.
// Coordinates outside the grid are light.
func (m *Matrix) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return false
	}
	return m.cells[y*m.width+x]
}

// Dark returns the number of dark modules.
func (m *Matrix) Dark() int {
	n := 0
	for _, c := range m.cells {
		if c {
			n++
		}
	}
	return n
}

// Rows returns a copy of the grid as row slices.
func (m *Matrix) Rows() [][]bool {
	rows := make([][]bool, m.height)
	for y := range rows {
		rows[y] = append([]bool(nil), m.cells[y*m.width:(y+1)*m.width]...)
	}
	return rows
}

// String renders the matrix with half-block characters, two module rows per
// line, for terminal previews.
func (m *Matrix) String() string {
	var b strings.Builder
	for y := 0; y < m.height; y += 2 {
		for x := 0; x < m.width; x++ {
			top, bottom := m.At(x, y), m.At(x, y+1)
			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Level is the QR error-correction level.
type Level string

const (
	LevelL Level = "L" // ~7% recovery
	LevelM Level = "M" // ~15% recovery
	LevelQ Level = "Q" // ~25% recovery
	LevelH Level = "H" // ~30% recovery
)

// DefaultLevel is used when no level is given.
const DefaultLevel = LevelM

// Levels lists the supported levels from lowest to highest recovery.
var Levels = []Level{LevelL, LevelM, LevelQ, LevelH}

// ParseLevel parses a level name. The empty string yields DefaultLevel.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return DefaultLevel, nil
	case "L", "LOW":
		return LevelL, nil
	case "M", "MEDIUM":
		return LevelM, nil
	case "Q", "QUARTILE", "HIGH":
		return LevelQ, nil
	case "H", "HIGHEST":
		return LevelH, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown error-correction level %q (use L, M, Q or H)", s)
}

func (l Level) recovery() qrcode.RecoveryLevel {
	switch l {
	case LevelL:
		return qrcode.Low
	case LevelQ:
		return qrcode.High
	case LevelH:
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

// Encode encodes content as a QR symbol and returns its module matrix
// without the quiet zone.
func Encode(content string, level Level) (*Matrix, error) {
	if err := errors.ValidateContent(content); err != nil {
		return nil, err
	}
	qr, err := qrcode.New(content, level.recovery())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPayload, err, "encode content")
	}
	qr.DisableBorder = true
	return New(qr.Bitmap())
}
