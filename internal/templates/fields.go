package templates

import (
	"fmt"
	"sort"
	"strings"
)

// text returns the first non-empty string value among keys.
func text(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64, int, int64, bool:
			return fmt.Sprint(v)
		}
	}
	return ""
}

// entries returns the map entries of data["items"]. Plain strings become
// {"name": s}.
func entries(data map[string]any) []map[string]any {
	var out []map[string]any
	switch v := data["items"].(type) {
	case []any:
		for _, e := range v {
			switch item := e.(type) {
			case map[string]any:
				out = append(out, item)
			case string:
				if s := strings.TrimSpace(item); s != "" {
					out = append(out, map[string]any{"name": s})
				}
			}
		}
	case []map[string]any:
		out = append(out, v...)
	}
	return out
}

// strs flattens a list value into trimmed non-empty strings.
func strs(v any) []string {
	var out []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	switch val := v.(type) {
	case string:
		add(val)
	case []string:
		for _, s := range val {
			add(s)
		}
	case []any:
		for _, e := range val {
			switch item := e.(type) {
			case string:
				add(item)
			case map[string]any:
				add(text(item, "name", "label", "url"))
			default:
				add(fmt.Sprint(item))
			}
		}
	}
	return out
}

// join concatenates non-empty parts with sep.
func join(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// dateRange formats start and end dates. A missing end with a start
// reads as "Present" when current is set.
func dateRange(item map[string]any) string {
	start := text(item, "startDate", "start", "from")
	end := text(item, "endDate", "end", "to")
	if end == "" {
		if current, _ := item["current"].(bool); current && start != "" {
			end = "Present"
		}
	}
	switch {
	case start != "" && end != "":
		return start + " - " + end
	case start != "":
		return start
	case end != "":
		return end
	default:
		return text(item, "date", "year")
	}
}

// scalarKeys returns sorted keys whose values are printable scalars.
func scalarKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k, v := range m {
		switch v.(type) {
		case string, float64, int, int64, bool:
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
