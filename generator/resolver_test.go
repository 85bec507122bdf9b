package generator

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProcessDate = time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)

func testJobMeta() JobMeta {
	return JobMeta{
		JobIndex:       12,
		ThreadID:       2,
		NumThreads:     3,
		RowsPerThread:  1000,
		PartitionOrder: 4,
		CardBrand:      "VISA",
		NetworkBrand:   "VISA",
	}
}

func testRow(rowIndex int, chargebacks ChargebackSet, chargebackTable bool) *RowContext {
	job := testJobMeta()
	return &RowContext{
		Seed:              DeriveRowSeed(job.JobIndex, job.ThreadID, rowIndex),
		RowIndex:          rowIndex,
		Job:               job,
		Chargebacks:       chargebacks,
		IsChargebackTable: chargebackTable,
		ProcessDate:       testProcessDate,
		ReferencePool:     []string{"pan-a", "pan-b", "pan-c"},
		Now:               func() time.Time { return time.Date(2025, time.March, 10, 1, 2, 3, 0, time.UTC) },
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	r := NewResolver()
	fields := []string{
		"transaction_id", "merchant_name", "auth_response_code", "mti", "ship_addr_post_code",
		"bill_addr_city", "expiry_date", "session_id", "some_unknown_field", "custom_currency",
	}

	for _, field := range fields {
		first := r.Resolve(field, testRow(17, nil, false))
		again := NewResolver().Resolve(field, testRow(17, nil, false))
		assert.Equal(t, first, again, field)
	}
}

func TestSharedFieldsMatchAcrossTables(t *testing.T) {
	r := NewResolver()
	shared := r.SharedFields()
	require.NotEmpty(t, shared)

	for rowIndex := 0; rowIndex < 200; rowIndex++ {
		seed := DeriveRowSeed(12, 2, rowIndex)
		chargebacks := ChargebackSet{seed: {}}

		auth := testRow(rowIndex, chargebacks, false)
		cb := testRow(rowIndex, nil, true)

		for _, field := range shared {
			require.Equal(t, r.Resolve(field, auth), r.Resolve(field, cb), "field %s row %d", field, rowIndex)
		}
		for _, field := range []string{"chargeback_amount", "chargeback_amount_cents", "chargeback_count", "reason_code"} {
			require.Equal(t, r.Resolve(field, auth), r.Resolve(field, cb), "field %s row %d", field, rowIndex)
		}
	}
}

func TestChargebackAmountsFollowSelection(t *testing.T) {
	r := NewResolver()
	seed := DeriveRowSeed(12, 2, 5)

	plain := testRow(5, ChargebackSet{}, false)
	assert.Equal(t, "0.00", r.Resolve("chargeback_amount", plain))
	assert.Equal(t, "0", r.Resolve("chargeback_amount_cents", plain))
	assert.Equal(t, "0", r.Resolve("chargeback_count", plain))
	assert.Equal(t, "", r.Resolve("reason_code", plain))

	selected := testRow(5, ChargebackSet{seed: {}}, false)
	amount, err := strconv.ParseFloat(r.Resolve("chargeback_amount", selected), 64)
	require.NoError(t, err)
	assert.Greater(t, amount, 0.0)
	assert.Equal(t, "1", r.Resolve("chargeback_count", selected))
	assert.Contains(t, reasonCodesByNetwork["VISA"], r.Resolve("reason_code", selected))

	bl := Synthesize(seed)
	if !bl.IsAuthDeclined && !bl.IsReversal && !bl.HasRefund {
		assert.Equal(t, "6", r.Resolve("transaction_status_code", selected))
	}
}

func TestChargebackStatusFollowsSelection(t *testing.T) {
	r := NewResolver()
	disputed := []string{"INITIATED", "PENDING", "RESOLVED"}

	for rowIndex := 0; rowIndex < 100; rowIndex++ {
		assert.Equal(t, "NONE", r.Resolve("chargeback_status", testRow(rowIndex, ChargebackSet{}, false)), "row %d", rowIndex)
	}

	seed := DeriveRowSeed(12, 2, 5)
	selected := ChargebackSet{seed: {}}
	assert.Contains(t, disputed, r.Resolve("chargeback_status", testRow(5, selected, false)))
	assert.Equal(t,
		r.Resolve("chargeback_status", testRow(5, selected, false)),
		r.Resolve("chargeback_status", testRow(5, selected, true)))
	assert.Contains(t, disputed, r.Resolve("chargeback_status", testRow(8, nil, true)))
}

func TestSequenceNumber(t *testing.T) {
	r := NewResolver()
	job := testJobMeta()

	// 1000000000000001 + 4*(1000*3) + (2-1)*1000 + 17
	assert.Equal(t, "1000000000013018", r.Resolve("sequence_number", testRow(17, nil, false)))
	assert.Equal(t, uint64(1000000000013018), job.SequenceNumber(17))

	first := JobMeta{ThreadID: 1, NumThreads: 3, RowsPerThread: 1000}
	assert.Equal(t, uint64(1000000000000001), first.SequenceNumber(0))
}

func TestEchoFieldsFollowBusinessLogic(t *testing.T) {
	r := NewResolver()
	row := testRow(33, nil, false)
	bl := Synthesize(row.Seed)

	assert.Equal(t, bl.MerchantCountry, r.Resolve("merchant_country_code", row))
	assert.Equal(t, bl.MerchantCountry, r.Resolve("acquirer_country_code", row))
	assert.Equal(t, bl.IssuerCountry, r.Resolve("cardholder_country", row))
	assert.Equal(t, bl.IssuerCurrency, r.Resolve("settlement_currency", row))
	assert.Equal(t, bl.MerchantCurrency, r.Resolve("local_currency", row))
	assert.Equal(t, string(bl.TransactionType), r.Resolve("transaction_type", row))
	assert.Equal(t, bl.TransactionType.Code(), r.Resolve("transaction_type_cd", row))
	assert.Equal(t, money(bl.BaseAmount), r.Resolve("transaction_amount", row))
	assert.Equal(t, rate(bl.ExchangeRate), r.Resolve("exchange_rate", row))
	assert.Equal(t, "VISA", r.Resolve("card_brand", row))
}

func TestMerchantFieldsDescribeOneMerchant(t *testing.T) {
	r := NewResolver()
	for rowIndex := 0; rowIndex < 100; rowIndex++ {
		row := testRow(rowIndex, nil, false)
		name := r.Resolve("merchant_name", row)
		mid := r.Resolve("merchant_id", row)

		found := false
		for _, m := range MerchantsFor(r.Resolve("merchant_country_code", row)) {
			if m.Name == name {
				assert.Equal(t, m.MID, mid)
				found = true
			}
		}
		require.True(t, found, "merchant %q not in the directory", name)
	}
}

func TestShippingFieldsAgreeOnCountry(t *testing.T) {
	r := NewResolver()
	for rowIndex := 0; rowIndex < 100; rowIndex++ {
		row := testRow(rowIndex, nil, false)
		country := r.Resolve("ship_addr_country", row)
		city := r.Resolve("ship_addr_city", row)
		if cities, ok := citiesByCountry[country]; ok {
			assert.Contains(t, cities, city)
		}
		assert.Equal(t, "", r.Resolve("ship_addr_line3", row))
		assert.True(t, strings.HasSuffix(r.Resolve("ship_addr_line1", row), " Shipping St"))
	}
}

func TestHashPanUsesReferencePool(t *testing.T) {
	r := NewResolver()
	row := testRow(3, nil, false)
	assert.Contains(t, row.ReferencePool, r.Resolve("hash_pan", row))

	row.ReferencePool = nil
	assert.True(t, strings.HasPrefix(r.Resolve("hash_pan", row), "hash_"))
}

func TestTimestampFields(t *testing.T) {
	r := NewResolver()
	row := testRow(8, nil, false)

	micros, err := strconv.ParseInt(r.Resolve("process_date", row), 10, 64)
	require.NoError(t, err)
	ts := time.UnixMicro(micros).UTC()
	assert.Equal(t, testProcessDate, truncateDay(ts))

	assert.Equal(t, r.Resolve("process_date", row), r.Resolve("transaction_timestamp", row))
	assert.Equal(t, strconv.FormatInt(row.Now().UnixMicro(), 10), r.Resolve("insert_date", row))
}

func TestRuleKinds(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		field  string
		kind   RuleKind
		shared bool
	}{
		{field: "merchant_country_code", kind: RuleEcho, shared: true},
		{field: "sequence_number", kind: RuleFormula, shared: true},
		{field: "chargeback_amount", kind: RuleFormula, shared: false},
		{field: "card_type", kind: RuleCategorical, shared: false},
		{field: "merchant_name", kind: RuleLookup, shared: false},
		{field: "definitely_not_registered", kind: RuleFallback, shared: false},
		{field: "auth_timestamp", kind: RuleCategorical, shared: false},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			rule := r.RuleFor(tt.field)
			assert.Equal(t, tt.kind, rule.Kind)
			assert.Equal(t, tt.shared, rule.Shared)
		})
	}
}

func TestFallbackPlaceholders(t *testing.T) {
	r := NewResolver()
	row := testRow(2, nil, false)

	assert.Regexp(t, `^widget_[0-9a-f]{8}$`, r.Resolve("widget_code", row))
	assert.Regexp(t, `^ID\d{12}$`, r.Resolve("partner_id", row))
	assert.Regexp(t, `^[0-9a-f]{64}$`, r.Resolve("email_hash", row))
	assert.Regexp(t, `^\d+ Main St$`, r.Resolve("home_address", row))
	assert.Contains(t, []string{"USD", "EUR", "GBP", "CAD", "JPY", "AUD"}, r.Resolve("display_currency", row))
}

func TestPrefixedIDWidth(t *testing.T) {
	r := NewResolver()
	row := testRow(4, nil, false)

	assert.Regexp(t, `^ACQ\d{8}$`, r.Resolve("acquirer_id", row))
	assert.Regexp(t, `^ACS\d{18}$`, r.Resolve("acs_transaction_id", row))
	assert.Regexp(t, `^CLR_BATCH\d{12}$`, r.Resolve("clearing_batch_id", row))
	assert.Regexp(t, `^\d{2}/\d{2}$`, r.Resolve("expiry_date", row))
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := &Resolver{rules: map[string]Rule{}}
	r.register(pick("A"), "field")
	assert.Panics(t, func() { r.register(pick("B"), "field") })
}
