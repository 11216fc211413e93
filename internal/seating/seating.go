// Package seating models the seat layout of a cinema room as a 2-D boolean
// grid.  A cell is true when the seat is occupied.  Rows and columns are
// 1-based at the package boundary and 0-based inside the grid.  The grid is
// stored on the room record as a JSON array of arrays of booleans, e.g.
// "[[false,false],[false,false]]" for a 2x2 room.
package seating

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned when a row or column falls outside the grid.
var ErrOutOfBounds = errors.New("seat out of bounds")

// ErrMalformedGrid is returned when stored seating text cannot be decoded
// into a rectangular boolean grid.  It points at corrupt data and should be
// treated as an internal error.
var ErrMalformedGrid = errors.New("malformed seating grid")

// Grid is a row-major seating matrix.  Grid[r][c] is the seat at row r+1,
// column c+1.
type Grid [][]bool

// Generate builds a rows x columns grid with every seat free.  Non-positive
// dimensions yield an empty grid.
func Generate(rows, columns int) Grid {
	if rows <= 0 || columns <= 0 {
		return Grid{}
	}
	g := make(Grid, rows)
	for r := range g {
		g[r] = make([]bool, columns)
	}
	return g
}

// Rows returns the number of rows in the grid.
func (g Grid) Rows() int { return len(g) }

// Columns returns the number of seats per row.  An empty grid has zero columns.
func (g Grid) Columns() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// InBounds reports whether the 1-based (row, column) pair addresses a cell.
func (g Grid) InBounds(row, column int) bool {
	return row >= 1 && row <= g.Rows() && column >= 1 && column <= g.Columns()
}

// Occupied reports whether the seat at the 1-based position is taken.  Out
// of range positions are reported as free.
func (g Grid) Occupied(row, column int) bool {
	if !g.InBounds(row, column) {
		return false
	}
	return g[row-1][column-1]
}

// Clone returns a deep copy of the grid.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for r := range g {
		out[r] = append([]bool(nil), g[r]...)
	}
	return out
}

// MarkOccupied returns a copy of g with the seat at (row, column) set to
// true.  The input grid is left untouched.
func MarkOccupied(g Grid, row, column int) (Grid, error) {
	if !g.InBounds(row, column) {
		return nil, fmt.Errorf("%w: row %d column %d (grid %dx%d)", ErrOutOfBounds, row, column, g.Rows(), g.Columns())
	}
	out := g.Clone()
	out[row-1][column-1] = true
	return out, nil
}

// Serialize encodes the grid as a JSON array of arrays of booleans.  An
// empty grid encodes as "[]".
func Serialize(g Grid) (string, error) {
	if g == nil {
		g = Grid{}
	}
	b, err := json.Marshal([][]bool(g))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Deserialize decodes seating text produced by Serialize.  Whitespace
// between tokens is accepted.  Anything that is not a rectangular array of
// boolean arrays fails with ErrMalformedGrid.
func Deserialize(text string) (Grid, error) {
	var raw [][]*bool
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGrid, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: null grid", ErrMalformedGrid)
	}
	g := make(Grid, len(raw))
	for i, row := range raw {
		if row == nil || len(row) != len(raw[0]) {
			return nil, fmt.Errorf("%w: row %d has %d seats, want %d", ErrMalformedGrid, i+1, len(row), len(raw[0]))
		}
		g[i] = make([]bool, len(row))
		for j, cell := range row {
			if cell == nil {
				return nil, fmt.Errorf("%w: null seat at row %d column %d", ErrMalformedGrid, i+1, j+1)
			}
			g[i][j] = *cell
		}
	}
	return g, nil
}

// UpdateSeating marks one seat on a serialized grid and returns the new text.
func UpdateSeating(text string, row, column int) (string, error) {
	g, err := Deserialize(text)
	if err != nil {
		return "", err
	}
	g, err = MarkOccupied(g, row, column)
	if err != nil {
		return "", err
	}
	return Serialize(g)
}

// Position is a 1-based seat coordinate.
type Position struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Overlay builds a fresh rows x columns template and forces every listed
// seat to occupied.  Seats that no longer fit the room (after a resize) are
// skipped rather than failing the whole view.
func Overlay(rows, columns int, seats []Position) Grid {
	g := Generate(rows, columns)
	for _, s := range seats {
		if g.InBounds(s.Row, s.Column) {
			g[s.Row-1][s.Column-1] = true
		}
	}
	return g
}
