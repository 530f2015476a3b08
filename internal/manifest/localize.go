package manifest

import (
	"encoding/json"
	"strconv"
)

const localeKind = "locale"

// Localize returns every source except the locale document, with each
// {"oasisId": id} object replaced by the locale entry for id. Unknown ids
// become null.
func Localize(src Sources) Sources {
	table := src[localeKind]

	out := make(Sources, len(src))
	for kind, doc := range src {
		if kind == localeKind {
			continue
		}
		out[kind] = localizeValue(doc, table)
	}

	return out
}

func localizeValue(v any, table any) any {
	switch t := v.(type) {
	case *Object:
		oid, _ := t.Get("oasisId")
		if id, ok := oasisID(oid); ok {
			return lookup(table, id)
		}

		r := NewObject()
		for _, k := range t.keys {
			r.Set(k, localizeValue(t.vals[k], table))
		}
		return r

	case map[string]any:
		if id, ok := oasisID(t["oasisId"]); ok {
			return lookup(table, id)
		}

		r := make(map[string]any, len(t))
		for k, x := range t {
			r[k] = localizeValue(x, table)
		}
		return r

	case []any:
		r := make([]any, len(t))
		for i, x := range t {
			r[i] = localizeValue(x, table)
		}
		return r

	default:
		return v
	}
}

func lookup(table any, id string) any {
	switch t := table.(type) {
	case *Object:
		v, _ := t.Get(id)
		return v
	case map[string]any:
		return t[id]
	default:
		return nil
	}
}

// oasisID reports the lookup key for a truthy oasisId value.
func oasisID(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case json.Number:
		f, err := t.Float64()
		if err == nil && f == 0 {
			return "", false
		}
		return t.String(), true
	case float64:
		if t == 0 {
			return "", false
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return "true", t
	default:
		return "", false
	}
}
