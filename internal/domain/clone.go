package domain

import "math/big"

// Clone deep-copies JSON-like values (maps, slices, decimals) so snapshots and
// defaults are never shared.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Clone(val)
		}
		return out
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	case *big.Rat:
		return new(big.Rat).Set(t)
	default:
		return v
	}
}

// CloneMap deep-copies m. A nil map yields an empty one.
func CloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, val := range m {
		out[k] = Clone(val)
	}
	return out
}
