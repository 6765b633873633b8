package siteconfig

// Merge deep-merges source over target and returns a new document. Neither
// input is modified.
//
// Lists in source replace lists in target outright. Objects recurse only when
// both sides hold an object at the same key; in every other case the source
// value wins.
func Merge(target, source map[string]any) map[string]any {
	out := make(map[string]any, len(target)+len(source))
	for k, v := range target {
		out[k] = cloneValue(v)
	}
	for k, sv := range source {
		srcObj, srcIsObj := sv.(map[string]any)
		dstObj, dstIsObj := out[k].(map[string]any)
		if srcIsObj && dstIsObj {
			out[k] = Merge(dstObj, srcObj)
			continue
		}
		out[k] = cloneValue(sv)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// object returns the object at key, creating it (or replacing a non-object)
// when missing.
func object(doc map[string]any, key string) map[string]any {
	if m, ok := doc[key].(map[string]any); ok {
		return m
	}
	m := map[string]any{}
	doc[key] = m
	return m
}

// lookupString follows a dotted path of object keys to a string value.
func lookupString(doc map[string]any, keys ...string) string {
	cur := doc
	for i, k := range keys {
		if i == len(keys)-1 {
			s, _ := cur[k].(string)
			return s
		}
		next, ok := cur[k].(map[string]any)
		if !ok {
			return ""
		}
		cur = next
	}
	return ""
}
