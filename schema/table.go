package schema

import (
	"github.com/shopspring/decimal"
)

// ColumnData holds one column of a materialized table. Exactly one of the
// slices is populated, chosen by the column kind: Strings for strings,
// Decimals for decimals, Ints for every integer kind and for timestamps
// (UTC microseconds).
type ColumnData struct {
	Column   Column
	Strings  []string
	Ints     []int64
	Decimals []decimal.Decimal
}

// Table is a fully materialized batch of rows.
type Table struct {
	Schema  *TableSchema
	NumRows int
	Columns []ColumnData
}

// NewTable allocates column storage for numRows rows.
func NewTable(s *TableSchema, numRows int) *Table {
	t := &Table{Schema: s, NumRows: numRows, Columns: make([]ColumnData, len(s.Columns))}
	for i, c := range s.Columns {
		t.Columns[i].Column = c
		switch c.Kind {
		case KindString:
			t.Columns[i].Strings = make([]string, numRows)
		case KindDecimal:
			t.Columns[i].Decimals = make([]decimal.Decimal, numRows)
		default:
			t.Columns[i].Ints = make([]int64, numRows)
		}
	}
	return t
}

// Column returns the data of the named column.
func (t *Table) Column(name string) (*ColumnData, bool) {
	for i := range t.Columns {
		if t.Columns[i].Column.Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// Value renders row i of the column as a string, for logs and tests.
func (c *ColumnData) Value(i int) string {
	switch c.Column.Kind {
	case KindString:
		return c.Strings[i]
	case KindDecimal:
		return c.Decimals[i].StringFixed(int32(c.Column.Scale))
	default:
		return decimal.NewFromInt(c.Ints[i]).String()
	}
}
