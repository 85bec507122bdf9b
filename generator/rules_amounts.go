package generator

import (
	"math"
	"strconv"
)

var reasonCodesByNetwork = map[string][]string{
	"MASTERCARD":       {"4855", "4834", "4837", "4863", "4871"},
	"VISA":             {"10.4", "11.1", "12.1", "13.1", "13.2"},
	"AMEX":             {"C02", "C08", "C14", "C18", "C28"},
	"AMERICAN_EXPRESS": {"C02", "C08", "C14", "C18", "C28"},
	"DISCOVER":         {"4554", "4553", "4552", "4550", "4541"},
	"JCB":              {"J40", "J41", "J42", "J43", "J44"},
	"DINERS":           {"D10", "D11", "D12", "D13", "D14"},
	"DINERS_CLUB":      {"D10", "D11", "D12", "D13", "D14"},
	"UNIONPAY":         {"UP01", "UP02", "UP03", "UP04", "UP05"},
}

func reasonCodes(network string) []string {
	if codes, ok := reasonCodesByNetwork[network]; ok {
		return codes
	}
	return reasonCodesByNetwork["MASTERCARD"]
}

func registerAmountRules(r *Resolver) {
	r.register(formula(false, func(d *draw) string {
		return money(d.bl.BaseAmount * d.rng.Range(0.015, 0.035))
	}), "transaction_fee_amount")
	r.register(formula(false, func(d *draw) string {
		return cents(d.bl.BaseAmount * d.rng.Range(0.005, 0.025))
	}), "interchange_amount_cents")
	r.register(formula(false, func(d *draw) string {
		if !d.bl.HasTip {
			return "0"
		}
		return cents(d.bl.BaseAmount * d.rng.Range(0.10, 0.25))
	}), "tip_amount_cents")
	r.register(formula(false, func(d *draw) string {
		if !d.bl.HasShipping {
			return "0"
		}
		return cents(d.rng.Range(5.0, 50.0))
	}), "shipping_amount_cents")
	r.register(formula(false, func(d *draw) string {
		if !d.bl.HasHandling {
			return "0"
		}
		return cents(d.rng.Range(2.0, 15.0))
	}), "handling_amount_cents")

	// chargeback amounts are populated only for chargeback rows
	r.register(formula(false, func(d *draw) string {
		return oneZero(d.ctx.IsChargeback())
	}), "chargeback_count")
	r.register(formula(false, func(d *draw) string {
		if !d.ctx.IsChargeback() {
			return "0.00"
		}
		return money(d.bl.BaseAmount * d.bl.ChargebackMultiplier)
	}), "chargeback_amount")
	r.register(formula(false, func(d *draw) string {
		if !d.ctx.IsChargeback() {
			return "0"
		}
		return strconv.FormatInt(int64(math.Round(d.bl.BaseAmount*d.bl.ChargebackMultiplier*100)), 10)
	}), "chargeback_amount_cents")
	r.register(formula(false, func(d *draw) string {
		if !d.ctx.IsChargeback() {
			return ""
		}
		return d.rng.Pick(reasonCodes(d.ctx.Job.NetworkBrand)...)
	}), "reason_code", "chargeback_reason_code")

	reversed := func(d *draw) bool { return d.bl.IsReversal && !d.bl.IsAuthDeclined }
	reversalAmount := func(d *draw) float64 {
		if d.rng.Chance(0.9) {
			return d.bl.BaseAmount
		}
		return d.bl.BaseAmount * d.rng.Range(0.5, 0.95)
	}
	r.register(formula(false, func(d *draw) string {
		if !reversed(d) {
			return "0.00"
		}
		return money(reversalAmount(d))
	}), "reversal_amount")
	r.register(formula(false, func(d *draw) string {
		if !reversed(d) {
			return "0"
		}
		return cents(reversalAmount(d))
	}), "reversal_amount_cents")
	r.register(formula(false, func(d *draw) string { return oneZero(reversed(d)) }), "reversal_count")

	r.register(formula(false, func(d *draw) string {
		if !d.bl.HasRefund {
			return "0"
		}
		if d.rng.Chance(0.7) {
			return cents(d.bl.BaseAmount)
		}
		return cents(d.bl.BaseAmount * d.rng.Range(0.2, 0.8))
	}), "refund_amount_cents")

	r.register(formula(false, func(d *draw) string {
		if !d.bl.HasReconciliationFee {
			return "0.00"
		}
		return money(d.rng.Range(1.0, 25.0))
	}), "reconciliation_fee")
	r.register(formula(false, func(d *draw) string {
		if !d.bl.HasReconciliationFee {
			return ""
		}
		return d.rng.Pick("REC001", "REC002", "REC003", "ADJ001", "ADJ002")
	}), "reconciliation_fee_processing_code")
}
