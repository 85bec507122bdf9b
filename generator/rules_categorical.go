package generator

import (
	"fmt"
)

func registerCategoricalRules(r *Resolver) {
	r.register(pick("CREDIT", "DEBIT", "PREPAID"), "card_type")
	r.register(pick("ONLINE", "MOBILE", "POS", "ATM"), "channel_type")
	r.register(pick("01", "02", "05", "90"), "pos_entry_mode")
	r.register(pick("00", "01", "02", "03"), "pos_condition_code")
	r.register(pick("LOW", "MEDIUM", "HIGH"), "merchant_risk_indicator", "risk_analysis_result")
	r.register(pick("LOW", "MEDIUM", "HIGH", "CRITICAL"), "risk_score_tier")
	r.register(pick("01", "02", "03", "04"), "payment_acc_indicator")
	r.register(pick("DSS", "P2PE", "TSP"), "pci_pattern")
	r.register(pick("iOS_SDK_1.0", "Android_SDK_1.0", "Web_SDK_1.0"), "sdk_info")
	r.register(pick("M", "N", "P", "U"), "cvv_result")
	r.register(pick("Y", "N", "A", "Z", "U"), "avs_result")
	r.register(pick("05", "06", "07"), "eci_indicator")
	r.register(pick("2.1.0", "2.2.0", "2.3.1"), "three_ds_version")
	r.register(pick("Y", "N", "A", "U"), "authentication_status")
	r.register(pick("APP", "BROWSER", "3RI"), "device_channel")
	r.register(pick("POS", "MPOS", "ECOM", "ATM", "KIOSK"), "terminal_type")
	r.register(pick("NONE", "LOW_VALUE", "TRA", "TRUSTED_BENEFICIARY", "RECURRING"), "exemption_type")
	r.register(pick("PASSED", "FAILED", "EXEMPTED"), "sca_result")
	r.register(pick("PASS", "REVIEW", "FAIL"), "velocity_check_result")
	r.register(pick("STANDARD", "PREMIUM", "COMMERCIAL", "REGULATED"), "interchange_program")
	r.register(pick("CONSUMER", "BUSINESS", "CORPORATE", "PURCHASING"), "interchange_category")
	r.register(pick("Y", "N"), "card_present_indicator", "recurring_indicator")
	r.register(pick("GROSS", "NET"), "settlement_method")
	r.register(pick("NETWORK_TOKEN", "ISSUER_TOKEN", "NONE"), "tokenization_method")
	r.register(pick("en-US", "en-GB", "de-DE", "fr-FR", "es-ES", "ja-JP"), "browser_language")
	r.register(pick(
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64)",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_4)",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X)",
		"Mozilla/5.0 (Linux; Android 14)",
	), "user_agent")

	r.register(prefixedID("ACQ", 8), "acquirer_id")
	r.register(prefixedID("ACS", 32), "acs_transaction_id")
	r.register(prefixedID("AUTH", 16), "auth_id", "authorization_id")
	r.register(prefixedID("BATCH", 12), "batch_id")
	r.register(prefixedID("CUST", 12), "customer_id")
	r.register(prefixedID("FP", 32), "device_fingerprint")
	r.register(prefixedID("DS", 16), "directory_server_id")
	r.register(prefixedID("ISS", 8), "issuer_id")
	r.register(prefixedID("SESS", 16), "session_id")
	r.register(prefixedID("TERM", 8), "terminal_id")
	r.register(prefixedID("TR", 11), "trace_number")
	r.register(prefixedID("CLR_BATCH", 12), "clearing_batch_id")
	r.register(prefixedID("PROC", 8), "processor_id")
	r.register(prefixedID("NET", 6), "network_id")
	r.register(prefixedID("STL_BATCH", 12), "settlement_batch_id")
	r.register(prefixedID("CLR", 16), "clearing_id")
	r.register(prefixedID("STL", 16), "settlement_id")
	r.register(prefixedID("CB", 12), "chargeback_id", "dispute_id")

	r.register(categorical(func(d *draw) string {
		return fmt.Sprintf("%02d/%02d", d.rng.IntRange(1, 13), d.rng.IntRange(2026, 2031)%100)
	}), "expiry_date")
	r.register(categorical(func(d *draw) string {
		return fmt.Sprintf("%d.%d.%d.%d",
			d.rng.IntRange(1, 256), d.rng.IntRange(0, 256), d.rng.IntRange(0, 256), d.rng.IntRange(1, 256))
	}), "ip_address")

	paymentMethod := func(d *draw) string { return d.rng.Pick("CARD", "BANK", "WALLET", "CRYPTO") }
	r.register(categorical(paymentMethod), "payment_method")
	r.register(categorical(func(d *draw) string {
		if paymentMethod(d) != "WALLET" {
			return "N/A"
		}
		return d.rng.Pick("APPLE_PAY", "GOOGLE_PAY", "SAMSUNG_PAY", "PAYPAL")
	}), "wallet_type")
}
