package generator

import (
	"fmt"
	"sort"
	"strings"
)

// RuleKind tags how a field's value is produced.
type RuleKind uint8

const (
	// RuleEcho copies an attribute of BusinessLogic.
	RuleEcho RuleKind = iota
	// RuleCategorical draws independently from an option set or numeric range.
	RuleCategorical
	// RuleFormula computes a value from BusinessLogic and job metadata.
	RuleFormula
	// RuleLookup reads a fixed table keyed by BusinessLogic or configuration.
	RuleLookup
	// RuleFallback synthesizes a placeholder from the field name.
	RuleFallback
)

func (k RuleKind) String() string {
	switch k {
	case RuleEcho:
		return "echo"
	case RuleCategorical:
		return "categorical"
	case RuleFormula:
		return "formula"
	case RuleLookup:
		return "lookup"
	default:
		return "fallback"
	}
}

// Rule resolves one field. Shared rules yield identical values for the same
// seed in every table.
type Rule struct {
	Kind    RuleKind
	Shared  bool
	resolve func(d *draw) string
}

// draw is the per-call state a rule reads from. rng continues the source that
// produced bl.
type draw struct {
	field string
	ctx   *RowContext
	bl    BusinessLogic
	rng   *Rand
}

type patternRule struct {
	match func(field string) bool
	rule  Rule
}

// Resolver maps column names to values.
type Resolver struct {
	rules    map[string]Rule
	patterns []patternRule
}

// NewResolver builds the field registry.
func NewResolver() *Resolver {
	r := &Resolver{rules: make(map[string]Rule, 256)}
	registerSharedRules(r)
	registerAmountRules(r)
	registerStatusRules(r)
	registerCategoricalRules(r)
	registerMerchantRules(r)
	registerAddressRules(r)
	registerPatternRules(r)
	return r
}

func (r *Resolver) register(rule Rule, fields ...string) {
	for _, f := range fields {
		if _, dup := r.rules[f]; dup {
			panic(fmt.Sprintf("generator: field %q registered twice", f))
		}
		r.rules[f] = rule
	}
}

// Resolve returns the literal value of field for the row described by ctx.
func (r *Resolver) Resolve(field string, ctx *RowContext) string {
	g := NewRand(ctx.Seed)
	d := &draw{field: field, ctx: ctx, bl: synthesize(g), rng: g}
	return r.ruleFor(field).resolve(d)
}

// RuleFor returns the rule that resolves field. Unknown fields get a pattern
// rule or the generic fallback.
func (r *Resolver) RuleFor(field string) Rule {
	return r.ruleFor(field)
}

// SharedFields lists the registered fields whose values are identical across tables.
func (r *Resolver) SharedFields() []string {
	var out []string
	for name, rule := range r.rules {
		if rule.Shared {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func (r *Resolver) ruleFor(field string) Rule {
	if rule, ok := r.rules[field]; ok {
		return rule
	}
	for _, p := range r.patterns {
		if p.match(field) {
			return p.rule
		}
	}
	return Rule{Kind: RuleFallback, resolve: genericFallback}
}

func echo(fn func(d *draw) string) Rule {
	return Rule{Kind: RuleEcho, Shared: true, resolve: fn}
}

func formula(shared bool, fn func(d *draw) string) Rule {
	return Rule{Kind: RuleFormula, Shared: shared, resolve: fn}
}

func lookup(fn func(d *draw) string) Rule {
	return Rule{Kind: RuleLookup, resolve: fn}
}

func categorical(fn func(d *draw) string) Rule {
	return Rule{Kind: RuleCategorical, resolve: fn}
}

func pick(options ...string) Rule {
	return categorical(func(d *draw) string { return d.rng.Pick(options...) })
}

// prefixedID draws a fixed-width number behind prefix.
func prefixedID(prefix string, digits int) Rule {
	return categorical(func(d *draw) string { return prefix + drawDigits(d.rng, digits) })
}

func drawDigits(g *Rand, digits int) string {
	digits = min(max(digits, 1), 18)
	lo := int64(1)
	for i := 1; i < digits; i++ {
		lo *= 10
	}
	return fmt.Sprintf("%d", g.Int64Range(lo, lo*10))
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func rate(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

func cents(v float64) string {
	return fmt.Sprintf("%d", int64(v*100))
}

func yesNo(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

func oneZero(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

var fallbackMerchantNames = []string{
	"Global Store", "Corner Market", "City Electronics", "Metro Pharmacy", "Harbor Cafe",
}

var fallbackMessages = []string{
	"Transaction approved", "Approved with verification", "Processed successfully",
}

func registerPatternRules(r *Resolver) {
	contains := func(sub ...string) func(string) bool {
		return func(field string) bool {
			for _, s := range sub {
				if strings.Contains(field, s) {
					return true
				}
			}
			return false
		}
	}

	r.patterns = []patternRule{
		{contains("currency"), pick("USD", "EUR", "GBP", "CAD", "JPY", "AUD")},
		{contains("timestamp", "_date", "_time"), categorical(seededTimestamp)},
		{contains("_hash"), categorical(func(d *draw) string { return hexString(d.rng, 4) })},
		{contains("_id"), categorical(func(d *draw) string {
			return fmt.Sprintf("ID%012d", d.rng.Int64Range(0, 1_000_000_000_000))
		})},
		{contains("address"), categorical(func(d *draw) string {
			return fmt.Sprintf("%d Main St", d.rng.IntRange(1, 9999))
		})},
		{contains("name"), pick(fallbackMerchantNames...)},
		{contains("message"), pick(fallbackMessages...)},
	}
}

// genericFallback produces "{prefix}_{hex}" where prefix is the field's first segment.
func genericFallback(d *draw) string {
	prefix, _, _ := strings.Cut(d.field, "_")
	return fmt.Sprintf("%s_%08x", prefix, uint32(d.rng.Uint64()))
}

func hexString(g *Rand, words int) string {
	var sb strings.Builder
	for i := 0; i < words; i++ {
		fmt.Fprintf(&sb, "%016x", g.Uint64())
	}
	return sb.String()
}
