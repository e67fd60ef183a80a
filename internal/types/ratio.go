package types

import (
	"encoding/json"
	"fmt"
	"math"
)

// RatioKind discriminates the three states a risk ratio can be in.
type RatioKind int

const (
	// RatioKindFinite is a normal numeric ratio.
	RatioKindFinite RatioKind = iota
	// RatioKindInfinite marks a zero denominator with a meaningful
	// numerator, e.g. profit factor with wins but no losses yet.
	RatioKindInfinite
	// RatioKindUndefined marks "no data": the ratio cannot be computed at
	// all, e.g. Sharpe over fewer than two returns.
	RatioKindUndefined
)

// Ratio is a tagged ratio value: Finite(value), Infinite(sign) or Undefined.
// Consumers can render "∞" or "—" instead of a misleading figure; a Ratio is
// never silently coerced to 0, NaN or a huge finite number.
type Ratio struct {
	kind  RatioKind
	value float64
	// sign is +1 or -1 and only meaningful for infinite ratios.
	sign int
}

// FiniteRatio creates a finite ratio carrying the given value.
func FiniteRatio(value float64) Ratio {
	return Ratio{kind: RatioKindFinite, value: value, sign: 0}
}

// InfiniteRatio creates a positive infinite ratio.
func InfiniteRatio() Ratio {
	return Ratio{kind: RatioKindInfinite, value: 0, sign: 1}
}

// NegativeInfiniteRatio creates a negative infinite ratio.
func NegativeInfiniteRatio() Ratio {
	return Ratio{kind: RatioKindInfinite, value: 0, sign: -1}
}

// UndefinedRatio creates an undefined ratio.
func UndefinedRatio() Ratio {
	return Ratio{kind: RatioKindUndefined, value: 0, sign: 0}
}

// Kind returns the ratio's discriminator.
func (r Ratio) Kind() RatioKind {
	return r.kind
}

// IsFinite reports whether the ratio holds a numeric value.
func (r Ratio) IsFinite() bool {
	return r.kind == RatioKindFinite
}

// IsInfinite reports whether the ratio is the sentinel-infinite marker.
func (r Ratio) IsInfinite() bool {
	return r.kind == RatioKindInfinite
}

// IsUndefined reports whether the ratio could not be computed.
func (r Ratio) IsUndefined() bool {
	return r.kind == RatioKindUndefined
}

// Value returns the numeric value and true for finite ratios, or 0 and false
// otherwise.
func (r Ratio) Value() (float64, bool) {
	if r.kind != RatioKindFinite {
		return 0, false
	}

	return r.value, true
}

// Float64 converts the ratio to a float64, mapping infinite to math.Inf and
// undefined to NaN. Intended only for numeric consumers that understand IEEE
// specials; serialization goes through Marshal instead.
func (r Ratio) Float64() float64 {
	switch r.kind {
	case RatioKindFinite:
		return r.value
	case RatioKindInfinite:
		return math.Inf(r.sign)
	default:
		return math.NaN()
	}
}

// String renders the ratio for logs and reports.
func (r Ratio) String() string {
	switch r.kind {
	case RatioKindFinite:
		return fmt.Sprintf("%.4f", r.value)
	case RatioKindInfinite:
		if r.sign < 0 {
			return "-inf"
		}

		return "inf"
	default:
		return "undefined"
	}
}

// marshalValue is the wire representation shared by YAML and JSON: a number
// for finite ratios, the strings "inf"/"-inf" for infinite ones, and null for
// undefined.
func (r Ratio) marshalValue() any {
	switch r.kind {
	case RatioKindFinite:
		return r.value
	case RatioKindInfinite:
		if r.sign < 0 {
			return "-inf"
		}

		return "inf"
	default:
		return nil
	}
}

// MarshalYAML implements yaml.Marshaler.
func (r Ratio) MarshalYAML() (any, error) {
	return r.marshalValue(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *Ratio) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}

	return r.fromRaw(raw)
}

// MarshalJSON implements json.Marshaler.
func (r Ratio) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.marshalValue())
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	return r.fromRaw(raw)
}

func (r *Ratio) fromRaw(raw any) error {
	switch v := raw.(type) {
	case nil:
		*r = UndefinedRatio()
	case string:
		switch v {
		case "inf":
			*r = InfiniteRatio()
		case "-inf":
			*r = NegativeInfiniteRatio()
		default:
			return fmt.Errorf("invalid ratio marker: %q", v)
		}
	case float64:
		*r = FiniteRatio(v)
	case int:
		*r = FiniteRatio(float64(v))
	case int64:
		*r = FiniteRatio(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return err
		}

		*r = FiniteRatio(f)
	default:
		return fmt.Errorf("invalid ratio value of type %T", raw)
	}

	return nil
}
