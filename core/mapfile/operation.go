package mapfile

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Operation is the action a map entry applies to matching elements. Only
// key presence matters for the flags (simplify, empty, br, delete,
// unwrap); the other keys carry values.
type Operation map[string]any

// Describe renders the operation the way the coverage report prints it.
func (op Operation) Describe() string {
	if op.has("delete") {
		return "deleted!"
	}
	if op.has("unwrap") {
		return "unwrapped!"
	}

	var b strings.Builder
	if v, ok := op["type"]; ok {
		b.WriteString(plain(v))
	}
	if v, ok := op["classes"]; ok && truthy(v) {
		b.WriteString("." + plain(v))
	}
	if v, ok := op["level"]; ok {
		b.WriteString(" [level " + plain(v) + "]")
	}
	if op.has("simplify") {
		b.WriteString("[simplified!]")
	}
	if op.has("empty") {
		b.WriteString("[empty kept]")
	}
	if op.has("br") {
		b.WriteString("[linebreak inserted]")
	}
	if v, ok := op["wrap"]; ok {
		b.WriteString("[in " + plain(v) + "]")
	}
	if v, ok := op["attrs"]; ok {
		b.WriteString("[attrs added " + repr(v) + "]")
	}
	if b.Len() == 0 {
		return "no operation applied!"
	}
	return b.String()
}

func (op Operation) has(key string) bool {
	_, ok := op[key]
	return ok
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	}
	return true
}

// plain formats a scalar like str() would.
func plain(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return repr(v)
}

// repr formats decoded JSON like a Python literal. Map keys are sorted.
func repr(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case bool:
		if x {
			return "True"
		}
		return "False"
	case string:
		return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(x) + "'"
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = repr(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = repr(k) + ": " + repr(x[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return fmt.Sprint(v)
}
