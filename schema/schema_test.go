package schema

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAllColumnCounts(t *testing.T) {
	schemas, err := LoadAll()
	require.NoError(t, err)

	want := map[TableName]int{
		Authorization:     114,
		AuthorizationHash: 11,
		Clearing:          67,
		ClearingHash:      9,
		Chargeback:        30,
		ChargebackHash:    8,
	}
	require.Len(t, schemas, len(want))
	for name, n := range want {
		s, ok := schemas[name]
		require.True(t, ok, name)
		assert.Equal(t, name, s.Name)
		assert.Len(t, s.Columns, n, name)
		assert.Equal(t, "transaction_id", s.Columns[0].Name, name)
	}
}

func TestLoadUnknownTable(t *testing.T) {
	_, err := Load("settlement")
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestParse(t *testing.T) {
	data := []byte(`{
		"table_name": "demo",
		"total_columns": 6,
		"fields": {
			"decimals_18_6": ["rate"],
			"timestamps": ["created_at"],
			"strings": ["id", "name"],
			"decimals_10_4": ["fee"],
			"ints": ["count"]
		}
	}`)
	s, err := Parse(data)
	require.NoError(t, err)

	var names []string
	for _, c := range s.Columns {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"id", "name", "count", "created_at", "fee", "rate"}, names)
	assert.Equal(t, Column{Name: "fee", Kind: KindDecimal, Precision: 10, Scale: 4}, s.Columns[4])
	assert.Equal(t, Column{Name: "rate", Kind: KindDecimal, Precision: 18, Scale: 6}, s.Columns[5])
	assert.Equal(t, KindTimestamp, s.Columns[3].Kind)
}

func TestParseInvalidDescriptors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: `{`},
		{name: "missing table name", data: `{"fields": {"strings": ["a"]}}`},
		{name: "duplicate column", data: `{"table_name": "t", "fields": {"strings": ["a"], "ints": ["a"]}}`},
		{name: "unknown group", data: `{"table_name": "t", "fields": {"floats": ["a"]}}`},
		{name: "malformed decimal group", data: `{"table_name": "t", "fields": {"decimals_18": ["a"]}}`},
		{name: "scale above precision", data: `{"table_name": "t", "fields": {"decimals_4_6": ["a"]}}`},
		{name: "precision too large", data: `{"table_name": "t", "fields": {"decimals_40_2": ["a"]}}`},
		{name: "wrong total", data: `{"table_name": "t", "total_columns": 3, "fields": {"strings": ["a"]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.ErrorIs(t, err, ErrInvalidDescriptor)
		})
	}
}

func TestTableNameHelpers(t *testing.T) {
	tests := []struct {
		name       TableName
		hash       bool
		chargeback bool
		family     string
	}{
		{Authorization, false, false, "authorization"},
		{AuthorizationHash, true, false, "authorization"},
		{Clearing, false, false, "clearing"},
		{ClearingHash, true, false, "clearing"},
		{Chargeback, false, true, "chargeback"},
		{ChargebackHash, true, true, "chargeback"},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			assert.Equal(t, tt.hash, tt.name.IsHash())
			assert.Equal(t, tt.chargeback, tt.name.IsChargeback())
			assert.Equal(t, tt.family, tt.name.Family())
		})
	}
}

func TestHashTablesHoldNoDecimals(t *testing.T) {
	for _, name := range []TableName{AuthorizationHash, ClearingHash, ChargebackHash} {
		s, err := Load(name)
		require.NoError(t, err)
		for _, c := range s.Columns {
			assert.NotEqual(t, KindDecimal, c.Kind, "%s.%s", name, c.Name)
		}
	}
}

func TestNewTable(t *testing.T) {
	s := &TableSchema{Name: "demo", Columns: []Column{
		{Name: "id", Kind: KindString},
		{Name: "amount", Kind: KindDecimal, Precision: 18, Scale: 2},
		{Name: "count", Kind: KindInt32},
	}}
	tbl := NewTable(s, 2)
	assert.Equal(t, 2, tbl.NumRows)
	assert.Len(t, tbl.Columns[0].Strings, 2)
	assert.Len(t, tbl.Columns[1].Decimals, 2)
	assert.Len(t, tbl.Columns[2].Ints, 2)

	amount, ok := tbl.Column("amount")
	require.True(t, ok)
	amount.Decimals[0] = decimal.RequireFromString("12.5")
	assert.Equal(t, "12.50", amount.Value(0))

	count, _ := tbl.Column("count")
	count.Ints[1] = -3
	assert.Equal(t, "-3", count.Value(1))

	_, ok = tbl.Column("missing")
	assert.False(t, ok)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "bigint", KindInt64.String())
	assert.Equal(t, "decimal", KindDecimal.String())
	assert.Equal(t, "timestamp", KindTimestamp.String())
}
