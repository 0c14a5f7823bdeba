package engine

import (
	"encoding/json"
	"math"
	"math/big"
	"reflect"
)

// jsonTypeOf maps a decoded Go value to its JSON type name.
func jsonTypeOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number, float64, float32, int, int32, int64:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return "unknown"
	}
}

// numberValue extracts a numeric value from the representations the decoders
// produce (json.Number from go-json with UseNumber, plain Go numbers from
// YAML or hand-built instances).
func numberValue(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func isInteger(v any) bool {
	f, ok := numberValue(v)
	return ok && f == math.Trunc(f)
}

// typeMatches implements the "type" keyword's per-name check.
func typeMatches(name string, instance any) bool {
	if name == "integer" {
		return isInteger(instance)
	}
	return jsonTypeOf(instance) == name
}

// ratValue extracts an exact rational from a numeric value. Unlike
// numberValue it never rounds through float64, so json.Number integers
// beyond 2^53 keep their identity.
func ratValue(v any) (*big.Rat, bool) {
	switch n := v.(type) {
	case json.Number:
		r, ok := new(big.Rat).SetString(string(n))
		return r, ok
	case float64:
		r := new(big.Rat).SetFloat64(n)
		return r, r != nil
	case float32:
		r := new(big.Rat).SetFloat64(float64(n))
		return r, r != nil
	case int:
		return new(big.Rat).SetInt64(int64(n)), true
	case int32:
		return new(big.Rat).SetInt64(int64(n)), true
	case int64:
		return new(big.Rat).SetInt64(n), true
	default:
		return nil, false
	}
}

// equalJSON compares two decoded values with numeric normalization, so that
// json.Number("1"), int(1) and float64(1) are the same JSON value. Numbers
// compare exactly; the UseNumber decoding path depends on it.
func equalJSON(a, b any) bool {
	if ra, ok := ratValue(a); ok {
		rb, ok := ratValue(b)
		return ok && ra.Cmp(rb) == 0
	}
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			w, ok := bv[k]
			if !ok || !equalJSON(v, w) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equalJSON(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}
