package dataset

import (
	"encoding/json"
	"strconv"
	"strings"
)

// lookupField resolves a dotted path such as "answers.text.0" against a
// decoded JSON object. Numeric segments index into arrays.
func lookupField(obj map[string]any, path string) (string, bool) {
	var cur any = obj
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return "", false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return "", false
			}
			cur = node[i]
		default:
			return "", false
		}
	}
	return scalarString(cur)
}

func scalarString(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", true
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}

// splitIndex separates a trailing numeric segment from a dotted path:
// "answers.text.0" -> ["answers", "text"], 0. Paths without one select index 0.
func splitIndex(path string) ([]string, int) {
	segs := strings.Split(path, ".")
	if len(segs) > 1 {
		if i, err := strconv.Atoi(segs[len(segs)-1]); err == nil && i >= 0 {
			return segs[:len(segs)-1], i
		}
	}
	return segs, 0
}
