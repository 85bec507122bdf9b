package generator

// TransactionType classifies a synthetic transaction.
type TransactionType string

const (
	TransactionPurchase        TransactionType = "PURCHASE"
	TransactionRefund          TransactionType = "REFUND"
	TransactionCashAdvance     TransactionType = "CASH_ADVANCE"
	TransactionBalanceTransfer TransactionType = "BALANCE_TRANSFER"
	TransactionFee             TransactionType = "FEE"
	TransactionAdjustment      TransactionType = "ADJUSTMENT"
)

// Code returns the two-digit ISO 8583 processing code prefix.
func (t TransactionType) Code() string {
	switch t {
	case TransactionPurchase:
		return "00"
	case TransactionCashAdvance:
		return "01"
	case TransactionRefund:
		return "20"
	case TransactionBalanceTransfer:
		return "40"
	case TransactionAdjustment:
		return "92"
	case TransactionFee:
		return "28"
	default:
		return "00"
	}
}

// BusinessLogic is the attribute bundle every table derives its shared
// columns from. It is a pure function of the row seed.
type BusinessLogic struct {
	IsAuthDeclined bool
	IsReversal     bool

	MerchantCountry  string
	MerchantCurrency string
	IssuerCountry    string
	IssuerCurrency   string

	BaseAmount           float64
	ChargebackMultiplier float64

	// at most one of these is set
	HasRefund     bool
	HasVoid       bool
	HasAdjustment bool

	HasTip               bool
	HasShipping          bool
	HasHandling          bool
	HasWarranty          bool
	HasReconciliationFee bool

	TransactionType TransactionType

	IssuerRate      float64
	NetworkRate     float64
	RiskRate        float64
	AcquirerRate    float64
	ExchangeRate    float64
	InterchangeRate float64
	ProcessingRate  float64
}

// IsCrossBorder reports whether merchant and issuer sit in different countries.
func (b BusinessLogic) IsCrossBorder() bool {
	return b.MerchantCountry != b.IssuerCountry
}

// Synthesize expands one seed into its BusinessLogic.
func Synthesize(seed uint64) BusinessLogic {
	return synthesize(NewRand(seed))
}

// synthesize consumes draws from g in a fixed order. Field resolution keeps
// drawing from the same source afterwards.
func synthesize(g *Rand) BusinessLogic {
	var b BusinessLogic

	b.IsAuthDeclined = g.Chance(0.05)
	b.IsReversal = g.Chance(0.005)

	merchant := countryCurrencies[g.IntN(len(countryCurrencies))]
	issuer := countryCurrencies[g.IntN(len(countryCurrencies))]
	b.MerchantCountry, b.MerchantCurrency = merchant.Country, merchant.Currency
	b.IssuerCountry, b.IssuerCurrency = issuer.Country, issuer.Currency

	b.BaseAmount = g.Range(10.00, 9999.99)
	b.ChargebackMultiplier = g.Range(0.5, 1.0)

	state := g.IntRange(0, 100)
	b.HasRefund = state < 5
	b.HasVoid = !b.HasRefund && state < 7
	b.HasAdjustment = !b.HasRefund && !b.HasVoid && state < 10

	b.HasTip = !b.IsAuthDeclined && !b.HasRefund && g.Chance(0.4)
	b.HasShipping = g.Chance(0.6)
	b.HasHandling = b.HasShipping && g.Chance(0.5)
	b.HasWarranty = g.Chance(0.1)
	b.HasReconciliationFee = b.HasAdjustment || b.HasVoid || g.Chance(0.05)

	b.TransactionType = drawTransactionType(g)

	b.IssuerRate = issuerRate(g, b.TransactionType)

	b.NetworkRate = g.Range(0.0001, 0.0015)
	if b.IsCrossBorder() {
		b.NetworkRate *= g.Range(1.5, 2.5)
	}

	if b.IsAuthDeclined {
		b.RiskRate = g.Range(0.008, 0.015)
	} else {
		b.RiskRate = g.Range(0.0001, 0.008)
	}
	if b.HasTip {
		b.RiskRate *= 1.2
	}

	b.AcquirerRate = acquirerRate(g, b.TransactionType)
	if b.BaseAmount < 100.0 {
		b.AcquirerRate *= g.Range(1.1, 1.3)
	}

	if b.MerchantCurrency == b.IssuerCurrency {
		b.ExchangeRate = 1.0
	} else {
		b.ExchangeRate = usdRate(toUSD, b.IssuerCurrency) * usdRate(fromUSD, b.MerchantCurrency) * g.Range(0.98, 1.02)
	}

	b.InterchangeRate = interchangeRate(g, b.TransactionType)
	if b.IsCrossBorder() {
		b.InterchangeRate *= g.Range(1.2, 1.5)
	}

	b.ProcessingRate = g.Range(0.001, 0.005)
	if b.IsAuthDeclined {
		b.ProcessingRate *= 1.2
	}

	return b
}

func drawTransactionType(g *Rand) TransactionType {
	switch n := g.IntRange(0, 100); {
	case n < 85:
		return TransactionPurchase
	case n < 88:
		return TransactionRefund
	case n < 93:
		return TransactionCashAdvance
	case n < 97:
		return TransactionBalanceTransfer
	case n < 99:
		return TransactionFee
	default:
		return TransactionAdjustment
	}
}

func issuerRate(g *Rand, t TransactionType) float64 {
	switch t {
	case TransactionCashAdvance:
		return g.Range(0.025, 0.045)
	case TransactionBalanceTransfer:
		return g.Range(0.015, 0.035)
	case TransactionPurchase:
		return g.Range(0.005, 0.025)
	default:
		return g.Range(0.008, 0.020)
	}
}

func acquirerRate(g *Rand, t TransactionType) float64 {
	switch t {
	case TransactionCashAdvance:
		return g.Range(0.025, 0.050)
	case TransactionBalanceTransfer:
		return g.Range(0.020, 0.040)
	case TransactionPurchase:
		return g.Range(0.015, 0.035)
	default:
		return g.Range(0.018, 0.030)
	}
}

func interchangeRate(g *Rand, t TransactionType) float64 {
	switch t {
	case TransactionCashAdvance:
		return g.Range(0.020, 0.025)
	case TransactionBalanceTransfer:
		return g.Range(0.015, 0.020)
	case TransactionPurchase:
		return g.Range(0.005, 0.020)
	default:
		return g.Range(0.008, 0.015)
	}
}
