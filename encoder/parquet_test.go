package encoder

import (
	"bytes"
	"errors"
	"io"
	"math/big"
	"slices"
	"testing"

	"github.com/amirphl/card-transactions-generator/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(rows int) *schema.Table {
	s := &schema.TableSchema{
		Name: "sample",
		Columns: []schema.Column{
			{Name: "transaction_id", Kind: schema.KindString},
			{Name: "daily_transaction_count", Kind: schema.KindInt32},
			{Name: "sequence_number", Kind: schema.KindInt64},
			{Name: "transaction_status_code", Kind: schema.KindInt16},
			{Name: "chargeback_count", Kind: schema.KindInt8},
			{Name: "process_date", Kind: schema.KindTimestamp},
			{Name: "transaction_amount", Kind: schema.KindDecimal, Precision: 18, Scale: 2},
			{Name: "network_reference", Kind: schema.KindDecimal, Precision: 38, Scale: 0},
		},
	}
	t := schema.NewTable(s, rows)
	for i := 0; i < rows; i++ {
		t.Columns[0].Strings[i] = "TXN" + decimal.NewFromInt(int64(i)).String()
		t.Columns[1].Ints[i] = 1
		t.Columns[2].Ints[i] = 1000000000000001 + int64(i)
		t.Columns[3].Ints[i] = int64(i % 7)
		t.Columns[4].Ints[i] = int64(i % 2)
		t.Columns[5].Ints[i] = 1741478400000000 + int64(i)
		t.Columns[6].Decimals[i] = decimal.RequireFromString("123.45").Add(decimal.NewFromInt(int64(i)))
		t.Columns[7].Decimals[i] = decimal.RequireFromString("123456789012345678901234").Neg()
	}
	return t
}

func TestParquetEncoderRoundTrip(t *testing.T) {
	table := sampleTable(5000)

	data, err := NewParquetEncoder().Encode(table)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, int64(5000), f.NumRows())
	assert.Len(t, f.Schema().Columns(), len(table.Columns))
}

func TestParquetEncoderColumnsResolveByName(t *testing.T) {
	table := sampleTable(3)

	data, err := NewParquetEncoder().Encode(table)
	require.NoError(t, err)

	f, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := make([]string, 0, len(table.Columns))
	for _, path := range f.Schema().Columns() {
		names = append(names, path[0])
	}
	assert.True(t, slices.IsSorted(names), "columns %v", names)

	rows := make([]parquet.Row, 3)
	n, err := parquet.NewReader(bytes.NewReader(data)).ReadRows(rows)
	if !errors.Is(err, io.EOF) {
		require.NoError(t, err)
	}
	require.Equal(t, 3, n)

	seq, ok := f.Schema().Lookup("sequence_number")
	require.True(t, ok)
	txn, ok := f.Schema().Lookup("transaction_id")
	require.True(t, ok)
	for i := 0; i < n; i++ {
		assert.Equal(t, table.Columns[2].Ints[i], rows[i][seq.ColumnIndex].Int64())
		assert.Equal(t, table.Columns[0].Strings[i], string(rows[i][txn.ColumnIndex].ByteArray()))
	}
}

func TestParquetEncoderEmptyTable(t *testing.T) {
	data, err := NewParquetEncoder().Encode(sampleTable(0))
	require.NoError(t, err)

	f, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.NumRows())
}

func TestTwosComplement(t *testing.T) {
	b, err := twosComplement(big.NewInt(1), 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 1}, b)

	b, err = twosComplement(big.NewInt(-1), 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, b)

	b, err = twosComplement(big.NewInt(-256), 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0x00}, b)

	_, err = twosComplement(new(big.Int).Lsh(big.NewInt(1), 40), 4)
	assert.Error(t, err)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "parquet", NewParquetEncoder().Extension())
}
