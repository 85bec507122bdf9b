package generator

var declineAuthCodes = []string{
	"01", "03", "04", "05", "06", "07", "12", "13", "14", "15", "19", "21",
	"30", "39", "41", "43", "51", "52", "53", "54", "55", "57", "58", "59",
	"61", "62", "63", "65", "75", "76", "77", "78", "82", "91", "93", "96",
}

func registerStatusRules(r *Resolver) {
	r.register(formula(false, func(d *draw) string {
		switch {
		case d.bl.IsAuthDeclined:
			return "5"
		case d.bl.IsReversal:
			return "3"
		case d.bl.HasRefund:
			return "4"
		case d.ctx.IsChargeback():
			return "6"
		default:
			return "0"
		}
	}), "transaction_status_code")

	r.register(formula(true, func(d *draw) string {
		switch {
		case d.bl.IsAuthDeclined:
			return "HIGH_RISK"
		case d.bl.BaseAmount > 5000,
			d.bl.TransactionType == TransactionCashAdvance && d.bl.BaseAmount > 1000:
			return "SUSPICIOUS"
		default:
			return "NORMAL"
		}
	}), "alert_pattern")

	r.register(categorical(func(d *draw) string {
		if d.bl.IsAuthDeclined {
			return d.rng.Pick(declineAuthCodes...)
		}
		switch d.bl.TransactionType {
		case TransactionCashAdvance:
			return d.rng.Pick("00", "85")
		case TransactionBalanceTransfer:
			return d.rng.Pick("00", "87")
		default:
			return d.rng.Pick("00", "08", "10")
		}
	}), "auth_response_code")

	r.register(formula(false, func(d *draw) string {
		if !d.bl.IsAuthDeclined {
			return "APPROVED"
		}
		switch d.bl.TransactionType {
		case TransactionCashAdvance:
			return "CASH_ADVANCE_DECLINED"
		case TransactionBalanceTransfer:
			return "BALANCE_TRANSFER_DECLINED"
		default:
			return "DECLINED"
		}
	}), "auth_response_message")

	r.register(categorical(func(d *draw) string {
		if !d.bl.IsAuthDeclined {
			return ""
		}
		switch d.bl.TransactionType {
		case TransactionCashAdvance:
			return d.rng.Pick("INSUFFICIENT_FUNDS", "EXCEEDS_CASH_LIMIT", "CARD_RESTRICTED")
		case TransactionBalanceTransfer:
			return d.rng.Pick("EXCEEDS_CREDIT_LIMIT", "TRANSFER_NOT_ALLOWED", "RISK_DECLINE")
		default:
			return d.rng.Pick("INSUFFICIENT_FUNDS", "DO_NOT_HONOR", "SUSPECTED_FRAUD", "EXPIRED_CARD", "INVALID_CVV")
		}
	}), "decline_reason")

	r.register(categorical(func(d *draw) string {
		switch {
		case d.bl.IsReversal && !d.bl.IsAuthDeclined:
			if d.rng.Chance(0.8) {
				return "0420"
			}
			return "0400"
		case d.bl.HasVoid:
			return "0100"
		}
		switch n := d.rng.IntRange(0, 100); {
		case n <= 35:
			return "0100"
		case n <= 55:
			return "0110"
		case n <= 70:
			return "0200"
		case n <= 85:
			return "0210"
		case n <= 90:
			return "0120"
		case n <= 93:
			return "0130"
		case n <= 96:
			return "0121"
		case n <= 98:
			return "0800"
		default:
			return "0810"
		}
	}), "mti")

	r.register(categorical(func(d *draw) string {
		if d.bl.IsAuthDeclined {
			return d.rng.Pick("01", "02", "03", "04", "05")
		}
		if d.rng.Chance(0.9) {
			return "00"
		}
		return d.rng.Pick("01", "02")
	}), "clearing_response_code")

	r.register(categorical(func(d *draw) string {
		v := d.rng.Float64()
		if d.bl.IsAuthDeclined {
			switch {
			case v < 0.6:
				return "DECLINED"
			case v < 0.85:
				return "ERROR"
			default:
				return "PENDING"
			}
		}
		if v < 0.9 {
			return "APPROVED"
		}
		return "PENDING"
	}), "clearing_response_message")

	r.register(categorical(func(d *draw) string {
		switch {
		case d.bl.IsAuthDeclined:
			return "EXCEPTION"
		case d.ctx.IsChargeback():
			return "UNMATCHED"
		}
		threshold := 0.88
		if d.bl.TransactionType == TransactionRefund {
			threshold = 0.95
		}
		if d.rng.Chance(threshold) {
			return "MATCHED"
		}
		return "PENDING"
	}), "reconciliation_status")

	r.register(categorical(func(d *draw) string {
		switch {
		case d.ctx.IsChargeback():
			return d.rng.Pick("INITIATED", "PENDING", "RESOLVED")
		case d.bl.IsAuthDeclined:
			return "NONE"
		case d.rng.Chance(0.95):
			return "NONE"
		default:
			return "CLOSED"
		}
	}), "dispute_status")

	r.register(categorical(func(d *draw) string {
		if d.bl.IsAuthDeclined {
			if d.rng.Chance(0.7) {
				return "FAILED"
			}
			return "CANCELLED"
		}
		threshold := 0.85
		switch d.bl.TransactionType {
		case TransactionRefund:
			threshold = 0.9
		case TransactionCashAdvance:
			threshold = 0.95
		}
		if d.rng.Chance(threshold) {
			return "SETTLED"
		}
		return "PENDING"
	}), "settlement_status")

	r.register(categorical(func(d *draw) string {
		switch {
		case d.ctx.IsChargeback():
			return "CLEARED"
		case d.bl.IsAuthDeclined:
			return "REJECTED"
		}
		v := d.rng.Float64()
		switch d.bl.TransactionType {
		case TransactionRefund:
			if v < 0.98 {
				return "CLEARED"
			}
			return "PENDING"
		case TransactionCashAdvance:
			if v < 0.92 {
				return "CLEARED"
			}
			return "PENDING"
		}
		switch {
		case v < 0.95:
			return "CLEARED"
		case v < 0.98:
			return "PENDING"
		default:
			return "FAILED"
		}
	}), "clearing_status")

	r.register(categorical(func(d *draw) string {
		if d.ctx.IsChargeback() {
			return d.rng.Pick("INITIATED", "PENDING", "RESOLVED")
		}
		return "NONE"
	}), "chargeback_status")

	r.register(categorical(func(d *draw) string {
		if !d.bl.HasRefund {
			return "NONE"
		}
		return d.rng.Pick("INITIATED", "PROCESSED", "COMPLETED")
	}), "refund_status")
	r.register(categorical(func(d *draw) string {
		if !d.bl.HasVoid {
			return "NONE"
		}
		return d.rng.Pick("REQUESTED", "COMPLETED")
	}), "void_status")
	r.register(categorical(func(d *draw) string {
		if !d.bl.HasAdjustment {
			return "NONE"
		}
		return d.rng.Pick("PENDING", "APPLIED")
	}), "adjustment_status")
}
