package generator

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

func registerSharedRules(r *Resolver) {
	r.register(echo(func(d *draw) string { return d.bl.MerchantCountry }),
		"country_code", "transaction_country_code", "merchant_country_code",
		"acquirer_country_code", "processor_country_code")
	r.register(echo(func(d *draw) string { return d.bl.IssuerCountry }),
		"issuer_country_code", "cardholder_country", "billing_country",
		"settlement_country_code", "clearing_country_code")
	r.register(echo(func(d *draw) string { return d.bl.IssuerCurrency }),
		"currency_code", "original_currency", "settlement_currency", "clearing_currency",
		"issuer_currency", "cardholder_currency", "billing_currency")
	r.register(echo(func(d *draw) string { return d.bl.MerchantCurrency }),
		"local_currency", "merchant_currency")

	r.register(echo(func(d *draw) string { return money(d.bl.BaseAmount) }),
		"transaction_amount", "settlement_amount")
	r.register(echo(func(d *draw) string {
		return strconv.FormatInt(int64(math.Round(d.bl.BaseAmount*100)), 10)
	}), "transaction_amount_cents")
	r.register(echo(func(d *draw) string {
		return money(d.bl.BaseAmount * d.bl.ExchangeRate)
	}), "local_amount")

	r.register(echo(func(d *draw) string { return string(d.bl.TransactionType) }), "transaction_type")
	r.register(echo(func(d *draw) string { return d.bl.TransactionType.Code() }), "transaction_type_cd")
	r.register(echo(func(d *draw) string { return yesNo(d.bl.IsCrossBorder()) }), "cross_border_indicator")
	r.register(echo(func(d *draw) string { return yesNo(d.bl.HasWarranty) }), "warranty_indicator")
	r.register(echo(func(d *draw) string { return yesNo(d.bl.IsAuthDeclined) }), "is_declined")

	r.register(echo(func(d *draw) string { return rate(d.bl.IssuerRate) }), "issuer_rate", "issuer_processing_rate")
	r.register(echo(func(d *draw) string { return rate(d.bl.NetworkRate) }), "network_rate", "network_fee_rate")
	r.register(echo(func(d *draw) string { return rate(d.bl.RiskRate) }), "risk_rate", "risk_assessment_rate")
	r.register(echo(func(d *draw) string { return rate(d.bl.AcquirerRate) }), "acquirer_rate", "acquirer_processing_rate")
	r.register(echo(func(d *draw) string { return rate(d.bl.ExchangeRate) }), "exchange_rate", "conversion_rate")
	r.register(echo(func(d *draw) string { return rate(d.bl.InterchangeRate) }), "interchange_rate", "interchange_fee_rate")
	r.register(echo(func(d *draw) string { return rate(d.bl.ProcessingRate) }), "processing_rate", "processing_fee_rate")

	r.register(formula(true, func(d *draw) string {
		return strconv.FormatUint(d.ctx.Job.SequenceNumber(d.ctx.RowIndex), 10)
	}), "sequence_number")
	r.register(formula(true, func(d *draw) string { return "1" }), "daily_transaction_count")
	r.register(formula(true, func(d *draw) string {
		return fmt.Sprintf("TXN%016d", d.rng.Uint64())
	}), "transaction_id", "original_transaction_id")
	r.register(formula(true, func(d *draw) string { return hexString(d.rng, 4) }), "cardholder_name_hash")
	r.register(formula(true, hashPan), "hash_pan")
	r.register(formula(true, seededTimestamp), "process_date")
	r.register(formula(false, func(d *draw) string {
		return strconv.FormatInt(d.ctx.now().UnixMicro(), 10)
	}), "insert_date", "insert_timestamp")

	r.register(lookup(func(d *draw) string { return d.ctx.Job.CardBrand }), "card_brand")
	r.register(lookup(func(d *draw) string { return d.ctx.Job.NetworkBrand }), "clearing_network", "network_brand")
	r.register(lookup(func(d *draw) string {
		return d.rng.Pick(cardProducts(d.ctx.Job.CardBrand)...)
	}), "card_product_id")
}

// hashPan picks a value from the thread's reference pool.
func hashPan(d *draw) string {
	pool := d.ctx.ReferencePool
	if len(pool) == 0 {
		return fmt.Sprintf("hash_%016x", d.rng.Uint64())
	}
	return pool[d.rng.IntN(len(pool))]
}

// seededTimestamp places the row at a seeded time of day on the process date,
// rendered as UTC microseconds.
func seededTimestamp(d *draw) string {
	return strconv.FormatInt(timeOnDay(d.rng, d.ctx.ProcessDate).UnixMicro(), 10)
}

func timeOnDay(g *Rand, day time.Time) time.Time {
	day = truncateDay(day)
	h := g.IntRange(0, 24)
	m := g.IntRange(0, 60)
	s := g.IntRange(0, 60)
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second)
}

func cardProducts(brand string) []string {
	switch brand {
	case "VISA":
		return []string{"VISA_CLASSIC", "VISA_GOLD", "VISA_PLATINUM", "VISA_SIGNATURE", "VISA_INFINITE"}
	case "MASTERCARD":
		return []string{"MC_STANDARD", "MC_GOLD", "MC_PLATINUM", "MC_WORLD", "MC_WORLD_ELITE"}
	case "AMEX", "AMERICAN_EXPRESS":
		return []string{"AMEX_GREEN", "AMEX_GOLD", "AMEX_PLATINUM", "AMEX_CENTURION"}
	case "DISCOVER":
		return []string{"DISCOVER_IT", "DISCOVER_MILES", "DISCOVER_CHROME"}
	case "JCB":
		return []string{"JCB_STANDARD", "JCB_GOLD", "JCB_PLATINUM"}
	default:
		return []string{"STANDARD", "GOLD", "PLATINUM"}
	}
}
