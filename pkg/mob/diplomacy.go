package mob

import (
	"fmt"
	"strings"
)

// DefaultDiplomacySize is the number of groups in a freshly generated table.
const DefaultDiplomacySize = 32

// MaxRelation is the largest relation code a matrix cell can hold; each cell
// is stored as a single decimal digit.
const MaxRelation = 9

// Diplomacy is a square table of relation codes indexed [row][column].
type Diplomacy [][]uint8

// NewDiplomacy returns an all-zero size×size table.
func NewDiplomacy(size int) Diplomacy {
	d := make(Diplomacy, size)
	for i := range d {
		d[i] = make([]uint8, size)
	}
	return d
}

// Size returns the number of rows.
func (d Diplomacy) Size() int {
	return len(d)
}

// Get returns the relation from row to col, or 0 when out of range.
func (d Diplomacy) Get(row, col int) uint8 {
	if row < 0 || row >= len(d) || col < 0 || col >= len(d[row]) {
		return 0
	}
	return d[row][col]
}

// Set stores a relation code. Codes above MaxRelation and out of range
// indices are rejected.
func (d Diplomacy) Set(row, col int, v uint8) error {
	if row < 0 || row >= len(d) || col < 0 || col >= len(d[row]) {
		return fmt.Errorf("diplomacy cell (%d,%d) out of range for size %d", row, col, len(d))
	}
	if v > MaxRelation {
		return fmt.Errorf("%w: relation %d exceeds %d", ErrMalformedValue, v, MaxRelation)
	}
	d[row][col] = v
	return nil
}

// Rows renders the table as one digit string per row.
func (d Diplomacy) Rows() []string {
	rows := make([]string, len(d))
	for i, line := range d {
		var sb strings.Builder
		sb.Grow(len(line))
		for _, v := range line {
			sb.WriteByte('0' + v)
		}
		rows[i] = sb.String()
	}
	return rows
}

// Validate checks the table is square with single-digit cells.
func (d Diplomacy) Validate() error {
	for i, line := range d {
		if len(line) != len(d) {
			return fmt.Errorf("%w: diplomacy row %d has %d cells, want %d", ErrMalformedValue, i, len(line), len(d))
		}
		for j, v := range line {
			if v > MaxRelation {
				return fmt.Errorf("%w: diplomacy cell (%d,%d) = %d", ErrMalformedValue, i, j, v)
			}
		}
	}
	return nil
}

func parseDiplomacyRows(rows []string) (Diplomacy, error) {
	d := make(Diplomacy, len(rows))
	for i, row := range rows {
		if len(row) != len(rows) {
			return nil, fmt.Errorf("%w: diplomacy row %d has %d cells, want %d", ErrMalformedValue, i, len(row), len(rows))
		}
		line := make([]uint8, len(row))
		for j := 0; j < len(row); j++ {
			c := row[j]
			if c < '0' || c > '9' {
				return nil, fmt.Errorf("%w: diplomacy cell (%d,%d) is %q", ErrMalformedValue, i, j, c)
			}
			line[j] = c - '0'
		}
		d[i] = line
	}
	return d, nil
}
