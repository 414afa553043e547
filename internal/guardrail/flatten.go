package guardrail

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DefaultFlattenDepth bounds the recursive traversal so cyclic or deeply
// nested payloads cannot cause unbounded work.
const DefaultFlattenDepth = 5

// Flatten collects every string leaf of a decoded JSON value into a single
// whitespace-joined blob. The traversal covers the closed set of variants
// JSON decoding produces into any: map[string]any, []any, string,
// json.Number, and scalars (stringified). Object keys are visited in sorted
// order so the blob is stable across requests. Values below maxDepth are
// ignored.
func Flatten(v any, maxDepth int) string {
	var parts []string
	flattenInto(v, maxDepth, &parts)
	return strings.Join(parts, " ")
}

func flattenInto(v any, depth int, parts *[]string) {
	if depth <= 0 {
		return
	}
	switch val := v.(type) {
	case string:
		*parts = append(*parts, val)
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			flattenInto(val[k], depth-1, parts)
		}
	case []any:
		for _, inner := range val {
			flattenInto(inner, depth-1, parts)
		}
	case json.Number:
		*parts = append(*parts, val.String())
	case float64:
		// Digit-for-digit rendering; fmt's scientific notation would hide
		// long numeric values from the pattern checkers.
		*parts = append(*parts, strconv.FormatFloat(val, 'f', -1, 64))
	case nil:
		// skip
	default:
		*parts = append(*parts, fmt.Sprint(val))
	}
}
