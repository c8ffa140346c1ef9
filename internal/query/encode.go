package query

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/aalvaropc/munson/internal/domain"
)

// Encode renders params as a nested query string: bracketed keys for maps, `[]` for
// lists, keys sorted at every level. Bytes outside [A-Za-z0-9 .~_-] are percent
// encoded and spaces become '+', so `filter[state]=read,unread` is written as
// `filter%5Bstate%5D=read%2Cunread`.
func Encode(params domain.Params) string {
	if len(params) == 0 {
		return ""
	}
	var pairs []string
	for _, k := range sortedKeys(params) {
		pairs = appendPairs(pairs, url.QueryEscape(k), params[k])
	}
	return strings.Join(pairs, "&")
}

func appendPairs(pairs []string, parent string, v any) []string {
	switch t := v.(type) {
	case nil:
		return append(pairs, parent)
	case domain.Params:
		return appendMap(pairs, parent, t)
	case map[string]any:
		return appendMap(pairs, parent, t)
	case map[string]string:
		m := make(map[string]any, len(t))
		for k, s := range t {
			m[k] = s
		}
		return appendMap(pairs, parent, m)
	case []string:
		if len(t) == 0 {
			return append(pairs, parent+"%5B%5D")
		}
		for _, s := range t {
			pairs = appendPairs(pairs, parent+"%5B%5D", s)
		}
		return pairs
	case []any:
		if len(t) == 0 {
			return append(pairs, parent+"%5B%5D")
		}
		for _, e := range t {
			pairs = appendPairs(pairs, parent+"%5B%5D", e)
		}
		return pairs
	default:
		return append(pairs, parent+"="+url.QueryEscape(wireString(t)))
	}
}

func appendMap[M ~map[string]any](pairs []string, parent string, m M) []string {
	for _, k := range sortedKeys(m) {
		pairs = appendPairs(pairs, parent+"%5B"+url.QueryEscape(k)+"%5D", m[k])
	}
	return pairs
}

func sortedKeys[M ~map[string]any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// wireString is the textual form of a scalar query value.
func wireString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
