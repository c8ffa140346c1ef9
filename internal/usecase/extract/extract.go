// Package extract pulls values out of a JSON document with JSONPath rules.
package extract

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/aalvaropc/munson/internal/domain"
)

// Rules maps an output name to a JSONPath expression.
type Rules map[string]string

// Result reports the outcome of one rule.
type Result struct {
	Name    string
	Expr    string
	Value   string
	Success bool
	Message string
}

// ParseRules reads "name=$.path" pairs.
func ParseRules(pairs []string) (Rules, error) {
	out := Rules{}
	for _, p := range pairs {
		name, expr, ok := strings.Cut(p, "=")
		name, expr = strings.TrimSpace(name), strings.TrimSpace(expr)
		if !ok || name == "" || expr == "" {
			return nil, &domain.OpError{
				Op:   "extract.parse",
				Kind: domain.KindInvalidConfig,
				Err:  fmt.Errorf("extract rule %q must look like name=$.path: %w", p, domain.ErrInvalidConfig),
			}
		}
		out[name] = expr
	}
	return out, nil
}

// Apply parses body as JSON and evaluates rules against it.
// If body is not JSON every rule fails; a failing rule never stops the others.
func Apply(body []byte, rules Rules) (map[string]string, []Result) {
	if len(rules) == 0 {
		return map[string]string{}, []Result{}
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		out := make([]Result, 0, len(rules))
		for _, name := range sortedNames(rules) {
			expr := strings.TrimSpace(rules[name])
			out = append(out, Result{
				Name:    name,
				Expr:    expr,
				Message: fmt.Sprintf("extract %q (%s): body is not valid JSON", name, expr),
			})
		}
		return map[string]string{}, out
	}
	return ApplyValue(doc, rules)
}

// ApplyValue evaluates rules against an already decoded JSON value.
func ApplyValue(doc any, rules Rules) (map[string]string, []Result) {
	extracted := map[string]string{}
	results := make([]Result, 0, len(rules))

	for _, name := range sortedNames(rules) {
		expr := strings.TrimSpace(rules[name])
		r := Result{Name: name, Expr: expr}

		if expr == "" {
			r.Message = fmt.Sprintf("extract %q: empty jsonpath expression", name)
			results = append(results, r)
			continue
		}

		val, err := jsonpath.Get(expr, doc)
		if err != nil {
			r.Message = fmt.Sprintf("extract %q (%s): jsonpath error: %v", name, expr, err)
			results = append(results, r)
			continue
		}

		if isEmptyValue(val) {
			r.Message = fmt.Sprintf("extract %q (%s): no value found", name, expr)
			results = append(results, r)
			continue
		}

		s, err := toString(val)
		if err != nil {
			r.Message = fmt.Sprintf("extract %q (%s): cannot convert value to string: %v", name, expr, err)
			results = append(results, r)
			continue
		}

		extracted[name] = s
		r.Value = s
		r.Success = true
		r.Message = fmt.Sprintf("extracted %q", name)
		results = append(results, r)
	}

	return extracted, results
}

func sortedNames(rules Rules) []string {
	keys := make([]string, 0, len(rules))
	for k := range rules {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

func toString(v any) (string, error) {
	// Wildcard paths return a slice; a single match is unwrapped.
	if arr, ok := v.([]any); ok {
		if len(arr) == 1 {
			return toString(arr[0])
		}
		b, err := json.Marshal(arr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	switch t := v.(type) {
	case string:
		return t, nil
	case float64, bool, int, int64, uint64:
		return fmt.Sprint(t), nil
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
