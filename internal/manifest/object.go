package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strconv"
)

// Object is a decoded JSON object that remembers the order its keys
// appeared in. A repeated key keeps its first position and its last value.
type Object struct {
	keys []string
	vals map[string]any
}

func NewObject() *Object {
	return &Object{vals: map[string]any{}}
}

func (o *Object) Set(key string, v any) {
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.vals[key]
	return v, ok
}

// Keys returns the keys in source order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return slices.Clone(o.keys)
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(o.vals[k])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// decodeValue reads one JSON value token by token. Objects become *Object,
// arrays []any and numbers json.Number.
func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	d, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch d {
	case '{':
		obj := NewObject()
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key %v", kt)
			}
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil

	case '[':
		arr := []any{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}

	return nil, fmt.Errorf("unexpected %v", d)
}

// collection is a JSON object or array of V. Keys enumerate the way a
// browser walks them: integer keys ascending, then the other keys in source
// order. Array elements are keyed by index.
type collection[V any] struct {
	keys  []string
	items map[string]V
}

func (c *collection[V]) Keys() []string {
	return c.keys
}

func (c *collection[V]) Get(key string) V {
	return c.items[key]
}

func (c *collection[V]) Len() int {
	return len(c.keys)
}

func (c *collection[V]) add(key string, v V) {
	if _, ok := c.items[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.items[key] = v
}

func (c *collection[V]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	c.keys, c.items = nil, map[string]V{}

	switch {
	case bytes.Equal(b, []byte("null")):
		return nil

	case len(b) > 0 && b[0] == '[':
		var arr []json.RawMessage
		if err := json.Unmarshal(b, &arr); err != nil {
			return err
		}
		for i, raw := range arr {
			var v V
			if err := json.Unmarshal(raw, &v); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
			c.add(strconv.Itoa(i), v)
		}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object or array, got %s", b)
	}

	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := kt.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", kt)
		}
		var v V
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.add(key, v)
	}

	c.keys = enumerationOrder(c.keys)
	return nil
}

// enumerationOrder moves integer keys to the front in ascending order and
// leaves the rest where they were.
func enumerationOrder(keys []string) []string {
	sort.SliceStable(keys, func(i, j int) bool {
		a, aok := arrayIndex(keys[i])
		c, cok := arrayIndex(keys[j])
		if aok && cok {
			return a < c
		}
		return aok && !cok
	})

	return keys
}

func arrayIndex(k string) (uint64, bool) {
	if k == "" || (len(k) > 1 && k[0] == '0') {
		return 0, false
	}

	n, err := strconv.ParseUint(k, 10, 32)
	return n, err == nil
}
