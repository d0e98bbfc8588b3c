package bind

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// goLiteral renders a cached value as Go source. The supported domain is
// exactly what the cache JSON codec produces: nil, bool, string, int64,
// float64, []any, and map[string]any. Map keys are sorted so rendering is
// deterministic.
func goLiteral(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "any(nil)", nil
	case bool:
		return strconv.FormatBool(t), nil
	case string:
		return strconv.Quote(t), nil
	case int64:
		return fmt.Sprintf("int64(%d)", t), nil
	case int:
		return fmt.Sprintf("int64(%d)", t), nil
	case float64:
		return fmt.Sprintf("float64(%s)", strconv.FormatFloat(t, 'g', -1, 64)), nil
	case []any:
		parts := make([]string, len(t))
		for i, elem := range t {
			lit, err := goLiteral(elem)
			if err != nil {
				return "", err
			}
			parts[i] = lit
		}
		return "[]any{" + strings.Join(parts, ", ") + "}", nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			lit, err := goLiteral(t[k])
			if err != nil {
				return "", err
			}
			parts[i] = strconv.Quote(k) + ": " + lit
		}
		return "map[string]any{" + strings.Join(parts, ", ") + "}", nil
	default:
		return "", fmt.Errorf("unsupported cached value type %T", v)
	}
}
