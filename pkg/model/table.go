package model

import (
	"fmt"
	"slices"
)

// RawTable is the cell grid returned by the spreadsheet API, row-major.
// The first row is the header.
type RawTable [][]string

// NewRawTable converts the loosely typed cell values of the Sheets API into
// a RawTable. Non-string cells are rendered with their default format.
func NewRawTable(values [][]any) RawTable {
	table := make(RawTable, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			switch x := v.(type) {
			case nil:
			case string:
				cells[j] = x
			default:
				cells[j] = fmt.Sprint(x)
			}
		}
		table[i] = cells
	}
	return table
}

// Header returns the first row, or nil for an empty table.
func (t RawTable) Header() []string {
	if len(t) == 0 {
		return nil
	}
	return t[0]
}

// Clone returns a deep copy, so callers can modify the result without
// touching a cached table.
func (t RawTable) Clone() RawTable {
	if t == nil {
		return nil
	}
	out := make(RawTable, len(t))
	for i, row := range t {
		out[i] = slices.Clone(row)
	}
	return out
}
