package sanitizer

// Tree applies fn to every string in a decoded JSON value: object values,
// array elements and bare strings. Object keys are left as is. Maps and
// slices are copied, the input is never modified.
func Tree(v any, fn func(string) string) any {
	switch t := v.(type) {
	case string:
		return fn(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Tree(val, fn)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Tree(val, fn)
		}
		return out
	default:
		return v
	}
}
