package generator

import (
	"strconv"
	"time"

	"github.com/amirphl/card-transactions-generator/schema"
	"github.com/shopspring/decimal"
)

// BatchInput describes one table's worth of rows for one worker thread.
type BatchInput struct {
	Schema            *schema.TableSchema
	Seeds             []uint64
	Job               JobMeta
	Chargebacks       ChargebackSet
	IsChargebackTable bool
	ProcessDate       time.Time
	ReferencePool     []string
	Now               func() time.Time
}

// TableBuilder materializes tables column by column through a Resolver.
type TableBuilder struct {
	resolver *Resolver
}

// NewTableBuilder creates a builder backed by resolver.
func NewTableBuilder(resolver *Resolver) *TableBuilder {
	return &TableBuilder{resolver: resolver}
}

// Build produces one row per input seed. In the chargeback tables the row
// index is recovered from the seed so sequence numbers line up with the
// authorization row the chargeback belongs to.
func (b *TableBuilder) Build(in BatchInput) *schema.Table {
	t := schema.NewTable(in.Schema, len(in.Seeds))

	rows := make([]RowContext, len(in.Seeds))
	for i, seed := range in.Seeds {
		rowIndex := i
		if in.IsChargebackTable {
			rowIndex = RowIndex(seed)
		}
		rows[i] = RowContext{
			Seed:              seed,
			RowIndex:          rowIndex,
			Job:               in.Job,
			Chargebacks:       in.Chargebacks,
			IsChargebackTable: in.IsChargebackTable,
			ProcessDate:       in.ProcessDate,
			ReferencePool:     in.ReferencePool,
			Now:               in.Now,
		}
	}

	for c := range t.Columns {
		col := &t.Columns[c]
		for i := range rows {
			literal := b.resolver.Resolve(col.Column.Name, &rows[i])
			switch col.Column.Kind {
			case schema.KindString:
				col.Strings[i] = literal
			case schema.KindDecimal:
				col.Decimals[i] = coerceDecimal(literal, col.Column, rows[i].Seed)
			case schema.KindTimestamp:
				col.Ints[i] = coerceTimestamp(literal, rows[i].Seed, in.ProcessDate)
			default:
				col.Ints[i] = coerceInt(literal, col.Column.Kind, rows[i].Seed)
			}
		}
	}
	return t
}

// intFallbacks are the seeded ranges used when a literal does not fit its column.
var intFallbacks = map[schema.Kind]struct {
	bits   int
	lo, hi int64
}{
	schema.KindInt8:  {8, 1, 100},
	schema.KindInt16: {16, 1, 30000},
	schema.KindInt32: {32, 1, 1_000_000},
	schema.KindInt64: {64, 1, 1_000_000_000},
}

func coerceInt(literal string, kind schema.Kind, seed uint64) int64 {
	spec := intFallbacks[kind]
	if v, err := strconv.ParseInt(literal, 10, spec.bits); err == nil {
		return v
	}
	return NewRand(seed).Int64Range(spec.lo, spec.hi)
}

func coerceTimestamp(literal string, seed uint64, processDate time.Time) int64 {
	if v, err := strconv.ParseInt(literal, 10, 64); err == nil {
		return v
	}
	return timeOnDay(NewRand(seed), processDate).UnixMicro()
}

// coerceDecimal parses literal and rounds it to the column scale. Values that
// do not parse or exceed the column precision fall back to a seeded amount.
func coerceDecimal(literal string, col schema.Column, seed uint64) decimal.Decimal {
	limit := decimal.New(1, int32(col.Precision-col.Scale))
	d, err := decimal.NewFromString(literal)
	if err == nil {
		d = d.Round(int32(col.Scale))
	}
	if err != nil || d.Abs().GreaterThanOrEqual(limit) {
		d = decimal.NewFromInt(NewRand(seed).Int64Range(1, 1_000_000))
		if d.GreaterThanOrEqual(limit) {
			d = d.Mod(limit)
		}
	}
	return d
}
