// Package generator synthesizes values that conform to a contract schema.
// Output is intentionally random; only shape and declared constraints are
// guaranteed. A well-formed schema tree never makes generation fail —
// malformed fragments (e.g. a bad pattern) degrade to unconstrained output
// locally.
package generator

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/specmock/specmock/internal/contract"
)

// Config tunes synthetic value generation.
type Config struct {
	// CollectionSize is the preferred element count for arrays and the
	// default maxItems when a schema declares none.
	CollectionSize int

	// StringLength is the default maximum length for unconstrained strings.
	StringLength int

	// PreferExamples returns a schema's literal example verbatim when set.
	PreferExamples bool
}

// DefaultConfig returns recommended defaults.
func DefaultConfig() Config {
	return Config{
		CollectionSize: 2,
		StringLength:   10,
		PreferExamples: true,
	}
}

// Generator produces synthetic values from schema nodes.
type Generator struct {
	cfg Config
}

// New creates a Generator. Zero or negative config fields fall back to
// defaults.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.CollectionSize <= 0 {
		cfg.CollectionSize = def.CollectionSize
	}
	if cfg.StringLength <= 0 {
		cfg.StringLength = def.StringLength
	}
	return &Generator{cfg: cfg}
}

// Config returns the effective configuration.
func (g *Generator) Config() Config { return g.cfg }

// extraPropertyCount is how many synthetic keys are added for a
// schema-valued additionalProperties declaration.
const extraPropertyCount = 2

// Generate produces one value conforming to the schema. A nil or
// cycle-truncated schema yields nil.
func (g *Generator) Generate(schema *contract.Schema) any {
	if schema == nil || schema.Recursive {
		return nil
	}

	if g.cfg.PreferExamples && schema.Example != nil {
		return schema.Example
	}

	switch schema.Kind {
	case contract.KindEnum:
		if len(schema.Enum) == 0 {
			return nil
		}
		return schema.Enum[rand.IntN(len(schema.Enum))]
	case contract.KindComposed:
		return g.generateComposed(schema)
	case contract.KindObject:
		return g.generateObject(schema)
	case contract.KindArray:
		return g.generateArray(schema)
	case contract.KindString:
		return g.generateString(schema)
	case contract.KindNumber:
		return g.generateNumber(schema)
	case contract.KindInteger:
		return g.generateInteger(schema)
	case contract.KindBoolean:
		return rand.IntN(2) == 0
	default:
		// No type, no properties, no enum: a short word-like string keeps
		// the output harmless for callers expecting something printable.
		return randomWord()
	}
}

// generateObject fills every declared property and, when
// additionalProperties carries a schema, a fixed number of extra
// randomly named keys.
func (g *Generator) generateObject(schema *contract.Schema) any {
	obj := make(map[string]any, len(schema.Properties)+extraPropertyCount)
	for name, prop := range schema.Properties {
		obj[name] = g.Generate(prop)
	}
	if schema.AdditionalProperties != nil {
		for i := 0; i < extraPropertyCount; i++ {
			key := randomWord() + randomDigits(2)
			if _, taken := obj[key]; taken {
				continue
			}
			obj[key] = g.Generate(schema.AdditionalProperties)
		}
	}
	return obj
}

// generateArray produces clamp(CollectionSize, [minItems, maxItems]) items,
// each generated independently.
func (g *Generator) generateArray(schema *contract.Schema) any {
	count := g.cfg.CollectionSize
	if schema.MinItems != nil && count < *schema.MinItems {
		count = *schema.MinItems
	}
	if schema.MaxItems != nil && count > *schema.MaxItems {
		count = *schema.MaxItems
	}
	if count < 0 {
		count = 0
	}
	items := make([]any, count)
	for i := range items {
		items[i] = g.Generate(schema.Items)
	}
	return items
}

// generateComposed resolves a composition to exactly one concrete shape per
// call: allOf generates every member and shallow-merges the resulting
// objects (later members overwrite earlier keys); oneOf/anyOf uniformly
// pick a single member.
func (g *Generator) generateComposed(schema *contract.Schema) any {
	if len(schema.Members) == 0 {
		return nil
	}
	switch schema.Compose {
	case contract.ComposeAllOf:
		merged := make(map[string]any)
		var last any
		for _, member := range schema.Members {
			val := g.Generate(member)
			last = val
			if m, ok := val.(map[string]any); ok {
				for k, v := range m {
					merged[k] = v
				}
			}
		}
		if len(merged) > 0 {
			return merged
		}
		// Non-object members cannot merge; the last one stands in.
		return last
	default:
		return g.Generate(schema.Members[rand.IntN(len(schema.Members))])
	}
}

func (g *Generator) generateString(schema *contract.Schema) any {
	if schema.Format != "" {
		if val, ok := stringByFormat(schema.Format); ok {
			return val
		}
	}
	if schema.Pattern != "" {
		if val, err := fromPattern(schema.Pattern); err == nil {
			return val
		}
		// Bad or unsupported pattern: degrade to an unconstrained string.
	}

	n := g.cfg.StringLength
	maxLen := g.cfg.StringLength
	if schema.MaxLength != nil {
		maxLen = *schema.MaxLength
	}
	if n > maxLen {
		n = maxLen
	}
	if schema.MinLength != nil && n < *schema.MinLength {
		n = *schema.MinLength
	}
	return randomString(n)
}

// generateNumber picks uniformly in [minimum, maximum], defaulting to
// [0, 1000]. A minimum above the maximum widens the range instead of
// failing. Values honor multipleOf and are rounded to two decimals.
func (g *Generator) generateNumber(schema *contract.Schema) any {
	lo, hi := 0.0, 1000.0
	if schema.Minimum != nil {
		lo = *schema.Minimum
	}
	if schema.Maximum != nil {
		hi = *schema.Maximum
	}
	if lo > hi {
		hi = lo + 100
	}

	val := lo
	if hi > lo {
		val = lo + rand.Float64()*(hi-lo)
	}
	if schema.MultipleOf != nil && *schema.MultipleOf > 0 {
		val = math.Floor(val / *schema.MultipleOf) * *schema.MultipleOf
	}
	return math.Round(val*100) / 100
}

// generateInteger picks uniformly in [minimum, maximum], defaulting to
// [0, 100], with the same widening rule as numbers.
func (g *Generator) generateInteger(schema *contract.Schema) any {
	lo, hi := int64(0), int64(100)
	if schema.Minimum != nil {
		lo = int64(*schema.Minimum)
	}
	if schema.Maximum != nil {
		hi = int64(*schema.Maximum)
	}
	if lo > hi {
		hi = lo + 100
	}

	val := lo
	if hi > lo {
		val = lo + rand.Int64N(hi-lo+1)
	}
	if schema.MultipleOf != nil && *schema.MultipleOf >= 1 {
		m := int64(*schema.MultipleOf)
		val = (val / m) * m
	}
	return val
}

// randomInstant returns a random time within one year before or after now.
func randomInstant() time.Time {
	year := int64(365 * 24 * time.Hour)
	offset := rand.Int64N(2*year) - year
	return time.Now().UTC().Add(time.Duration(offset))
}
