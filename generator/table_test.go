package generator

import (
	"testing"
	"time"

	"github.com/amirphl/card-transactions-generator/schema"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildInput(t *testing.T, name schema.TableName, seeds []uint64, chargebacks ChargebackSet) BatchInput {
	t.Helper()
	s, err := schema.Load(name)
	require.NoError(t, err)
	return BatchInput{
		Schema:            s,
		Seeds:             seeds,
		Job:               testJobMeta(),
		Chargebacks:       chargebacks,
		IsChargebackTable: name.IsChargeback(),
		ProcessDate:       testProcessDate,
		ReferencePool:     []string{"pan-a", "pan-b"},
		Now:               func() time.Time { return testProcessDate.Add(30 * time.Hour) },
	}
}

func TestBuildAuthorizationTable(t *testing.T) {
	builder := NewTableBuilder(NewResolver())
	seeds := RowSeeds(12, 2, 50)

	table := builder.Build(buildInput(t, schema.Authorization, seeds, ChargebackSet{}))
	require.Equal(t, 50, table.NumRows)
	require.Len(t, table.Columns, len(table.Schema.Columns))

	seq, ok := table.Column("sequence_number")
	require.True(t, ok)
	for i := 0; i < table.NumRows; i++ {
		assert.Equal(t, int64(testJobMeta().SequenceNumber(i)), seq.Ints[i])
	}

	amount, ok := table.Column("transaction_amount")
	require.True(t, ok)
	for i, d := range amount.Decimals {
		expected := decimal.RequireFromString(money(Synthesize(seeds[i]).BaseAmount))
		assert.True(t, expected.Equal(d), "row %d: %s != %s", i, expected, d)
	}

	cb, ok := table.Column("chargeback_count")
	require.True(t, ok)
	for _, v := range cb.Ints {
		assert.Equal(t, int64(0), v)
	}
}

func TestChargebackTableLinksToAuthorization(t *testing.T) {
	builder := NewTableBuilder(NewResolver())
	seeds := RowSeeds(12, 2, 400)
	chargebacks := SelectChargebackSeeds(seeds, 0.05, 12, 2)
	require.Len(t, chargebacks, 20)

	auth := builder.Build(buildInput(t, schema.Authorization, seeds, chargebacks))
	cbSeeds := chargebacks.Seeds()
	cb := builder.Build(buildInput(t, schema.Chargeback, cbSeeds, nil))
	require.Equal(t, len(cbSeeds), cb.NumRows)

	authRow := make(map[int64]int)
	authSeq, _ := auth.Column("sequence_number")
	for i, v := range authSeq.Ints {
		authRow[v] = i
	}

	cbSeq, _ := cb.Column("sequence_number")
	for i, seq := range cbSeq.Ints {
		row, ok := authRow[seq]
		require.True(t, ok, "chargeback sequence %d has no authorization row", seq)
		for _, name := range []string{"merchant_country_code", "issuer_country_code", "currency_code", "transaction_id", "hash_pan", "chargeback_amount"} {
			a, _ := auth.Column(name)
			c, _ := cb.Column(name)
			assert.Equal(t, a.Value(row), c.Value(i), "column %s", name)
		}
	}
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name    string
		literal string
		kind    schema.Kind
		lo, hi  int64
	}{
		{name: "parses int32", literal: "42", kind: schema.KindInt32, lo: 42, hi: 43},
		{name: "tinyint overflow falls back", literal: "300", kind: schema.KindInt8, lo: 1, hi: 100},
		{name: "text falls back for smallint", literal: "abc", kind: schema.KindInt16, lo: 1, hi: 30000},
		{name: "text falls back for bigint", literal: "TXN1", kind: schema.KindInt64, lo: 1, hi: 1_000_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := coerceInt(tt.literal, tt.kind, 99)
			assert.GreaterOrEqual(t, v, tt.lo)
			assert.Less(t, v, tt.hi)
			assert.Equal(t, v, coerceInt(tt.literal, tt.kind, 99))
		})
	}
}

func TestCoerceDecimal(t *testing.T) {
	col := schema.Column{Name: "amount", Kind: schema.KindDecimal, Precision: 10, Scale: 2}

	assert.Equal(t, "12.35", coerceDecimal("12.345", col, 1).StringFixed(2))
	assert.Equal(t, "7.50", coerceDecimal("7.5", col, 1).StringFixed(2))

	fallback := coerceDecimal("not-a-number", col, 7)
	assert.True(t, fallback.GreaterThanOrEqual(decimal.NewFromInt(1)))
	assert.True(t, fallback.Equal(coerceDecimal("other", col, 7)))

	narrow := schema.Column{Name: "rate", Kind: schema.KindDecimal, Precision: 4, Scale: 2}
	assert.True(t, coerceDecimal("123456", narrow, 3).LessThan(decimal.NewFromInt(100)))
}

func TestCoerceTimestamp(t *testing.T) {
	assert.Equal(t, int64(1700000000000000), coerceTimestamp("1700000000000000", 1, testProcessDate))

	v := coerceTimestamp("yesterday", 5, testProcessDate)
	assert.Equal(t, testProcessDate, truncateDay(time.UnixMicro(v)))
}
