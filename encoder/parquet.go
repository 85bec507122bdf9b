// Package encoder serializes materialized tables into columnar payloads.
package encoder

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/amirphl/card-transactions-generator/schema"
	"github.com/parquet-go/parquet-go"
)

const (
	// ParquetExtension is the object key suffix of encoded payloads.
	ParquetExtension = "parquet"

	// int64 physical storage holds up to 18 decimal digits
	maxInt64DecimalPrecision = 18
	decimalByteWidth         = 16
	writeChunkRows           = 4096
)

// Encoder turns a table into bytes.
type Encoder interface {
	Encode(t *schema.Table) ([]byte, error)
	Extension() string
}

// ParquetEncoder writes Snappy-compressed Parquet files.
type ParquetEncoder struct{}

// NewParquetEncoder creates a Parquet encoder.
func NewParquetEncoder() *ParquetEncoder {
	return &ParquetEncoder{}
}

func (e *ParquetEncoder) Extension() string {
	return ParquetExtension
}

// Encode writes every row of t as one Parquet file.
func (e *ParquetEncoder) Encode(t *schema.Table) ([]byte, error) {
	sch := parquetSchema(t.Schema)

	// leaf indexes follow the schema's own ordering, not the table's
	leaf := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		col, ok := sch.Lookup(c.Column.Name)
		if !ok {
			return nil, fmt.Errorf("column %s missing from parquet schema", c.Column.Name)
		}
		leaf[i] = col.ColumnIndex
	}

	var buf bytes.Buffer
	w := parquet.NewWriter(&buf, sch, parquet.Compression(&parquet.Snappy))

	rows := make([]parquet.Row, 0, min(t.NumRows, writeChunkRows))
	for r := 0; r < t.NumRows; r++ {
		row := make(parquet.Row, len(t.Columns))
		for i := range t.Columns {
			v, err := columnValue(&t.Columns[i], r)
			if err != nil {
				return nil, fmt.Errorf("table %s row %d: %w", t.Schema.Name, r, err)
			}
			row[leaf[i]] = v.Level(0, 0, leaf[i])
		}
		rows = append(rows, row)

		if len(rows) == writeChunkRows {
			if _, err := w.WriteRows(rows); err != nil {
				return nil, fmt.Errorf("failed to write rows of %s: %w", t.Schema.Name, err)
			}
			rows = rows[:0]
		}
	}
	if len(rows) > 0 {
		if _, err := w.WriteRows(rows); err != nil {
			return nil, fmt.Errorf("failed to write rows of %s: %w", t.Schema.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close parquet writer for %s: %w", t.Schema.Name, err)
	}
	return buf.Bytes(), nil
}

// parquetSchema maps descriptor columns to a Parquet group. Group fields are
// ordered by name, so the file's column order is alphabetical rather than the
// descriptor order and readers must resolve columns by name.
func parquetSchema(s *schema.TableSchema) *parquet.Schema {
	group := make(parquet.Group, len(s.Columns))
	for _, c := range s.Columns {
		group[c.Name] = columnNode(c)
	}
	return parquet.NewSchema(string(s.Name), group)
}

func columnNode(c schema.Column) parquet.Node {
	switch c.Kind {
	case schema.KindString:
		return parquet.String()
	case schema.KindInt8:
		return parquet.Int(8)
	case schema.KindInt16:
		return parquet.Int(16)
	case schema.KindInt32:
		return parquet.Int(32)
	case schema.KindInt64:
		return parquet.Int(64)
	case schema.KindTimestamp:
		return parquet.Timestamp(parquet.Microsecond)
	default:
		if c.Precision <= maxInt64DecimalPrecision {
			return parquet.Decimal(c.Scale, c.Precision, parquet.Int64Type)
		}
		return parquet.Decimal(c.Scale, c.Precision, parquet.FixedLenByteArrayType(decimalByteWidth))
	}
}

func columnValue(c *schema.ColumnData, row int) (parquet.Value, error) {
	switch c.Column.Kind {
	case schema.KindString:
		return parquet.ByteArrayValue([]byte(c.Strings[row])), nil
	case schema.KindInt8, schema.KindInt16, schema.KindInt32:
		return parquet.Int32Value(int32(c.Ints[row])), nil
	case schema.KindInt64, schema.KindTimestamp:
		return parquet.Int64Value(c.Ints[row]), nil
	default:
		unscaled := c.Decimals[row].Shift(int32(c.Column.Scale)).BigInt()
		if c.Column.Precision <= maxInt64DecimalPrecision {
			return parquet.Int64Value(unscaled.Int64()), nil
		}
		b, err := twosComplement(unscaled, decimalByteWidth)
		if err != nil {
			return parquet.Value{}, fmt.Errorf("column %s: %w", c.Column.Name, err)
		}
		return parquet.FixedLenByteArrayValue(b), nil
	}
}

// twosComplement renders v as a big-endian two's complement integer of size bytes.
func twosComplement(v *big.Int, size int) ([]byte, error) {
	if v.BitLen() >= size*8 {
		return nil, fmt.Errorf("decimal %s does not fit in %d bytes", v, size)
	}
	b := make([]byte, size)
	if v.Sign() >= 0 {
		return v.FillBytes(b), nil
	}
	mod := new(big.Int).Lsh(big.NewInt(1), uint(size*8))
	return new(big.Int).Add(mod, v).FillBytes(b), nil
}
