package gomodel

import (
	"bytes"
	"math"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// DumpOption tunes Dump, DumpJSON and DumpYAML.
type DumpOption func(*dumpOptions)

type dumpOptions struct {
	exclude         map[string]bool
	include         map[string]bool
	byAlias         bool
	excludeUnset    bool
	excludeDefaults bool
	excludeNone     bool
	indent          int
}

func nameSet(names []string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// Exclude drops the named fields (or extras) from the top level.
func Exclude(names ...string) DumpOption {
	return func(o *dumpOptions) { o.exclude = nameSet(names) }
}

// Include keeps only the named fields (or extras) at the top level.
func Include(names ...string) DumpOption {
	return func(o *dumpOptions) { o.include = nameSet(names) }
}

// ByAlias emits aliases instead of field names.
func ByAlias() DumpOption { return func(o *dumpOptions) { o.byAlias = true } }

// ExcludeUnset drops fields that were neither supplied nor assigned.
func ExcludeUnset() DumpOption { return func(o *dumpOptions) { o.excludeUnset = true } }

// ExcludeDefaults drops fields whose value equals the declared default.
func ExcludeDefaults() DumpOption { return func(o *dumpOptions) { o.excludeDefaults = true } }

// ExcludeNone drops fields holding null.
func ExcludeNone() DumpOption { return func(o *dumpOptions) { o.excludeNone = true } }

// Indent sets the indentation width of text dumps; 0 means compact JSON.
func Indent(n int) DumpOption { return func(o *dumpOptions) { o.indent = n } }

func buildDumpOptions(opts []DumpOption) dumpOptions {
	var o dumpOptions
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// orderedMap keeps schema order for text dumps.
type orderedMap struct {
	keys []string
	vals map[string]any
}

func (m *orderedMap) set(k string, v any) {
	if m.vals == nil {
		m.vals = map[string]any{}
	}
	if _, dup := m.vals[k]; !dup {
		m.keys = append(m.keys, k)
	}
	m.vals[k] = v
}

func (m *orderedMap) has(k string) bool {
	_, ok := m.vals[k]
	return ok
}

func (m *orderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *orderedMap) plain() map[string]any {
	out := make(map[string]any, len(m.keys))
	for _, k := range m.keys {
		out[k] = m.vals[k]
	}
	return out
}

// keep applies the top-level filters to one field or extra.
func (o dumpOptions) keep(name string) bool {
	if o.include != nil && !o.include[name] {
		return false
	}
	return !o.exclude[name]
}

// ordered walks the instance into an orderedMap. conv maps leaf values; nested
// instances recurse with the same presence and null filters.
func (in *Instance) ordered(o dumpOptions, top bool, conv func(any) any) *orderedMap {
	out := &orderedMap{}
	for i, f := range in.schema.fields {
		if top && !o.keep(f.Name) {
			continue
		}
		v := in.values[i]
		if o.excludeUnset && !in.presence[fieldPtr(f.Name)].Has(PresenceSeen) {
			continue
		}
		if o.excludeDefaults && f.HasDefault && valuesEqual(v, f.Default) {
			continue
		}
		if o.excludeNone && v == nil {
			continue
		}
		key := f.Name
		if o.byAlias {
			key = f.key()
		}
		out.set(key, in.dumpValue(v, o, conv))
	}
	for _, k := range in.extraNames() {
		v := in.extra[k]
		if (top && !o.keep(k)) || (o.excludeNone && v == nil) {
			continue
		}
		// a declared field owns its name even when it is filtered out
		if _, declared := in.schema.index[k]; declared || out.has(k) {
			continue
		}
		out.set(k, in.dumpValue(v, o, conv))
	}
	return out
}

func (in *Instance) dumpValue(v any, o dumpOptions, conv func(any) any) any {
	switch x := v.(type) {
	case *Instance:
		if x == nil {
			return nil
		}
		return x.ordered(o, false, conv)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = in.dumpValue(e, o, conv)
		}
		return out
	case Tuple:
		out := make(Tuple, len(x))
		for i, e := range x {
			out[i] = in.dumpValue(e, o, conv)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = in.dumpValue(e, o, conv)
		}
		return out
	}
	return conv(v)
}

// Dump returns the instance as a mapping in which nested instances are
// mappings as well. Container values are copies.
func (in *Instance) Dump(opts ...DumpOption) map[string]any {
	om := in.ordered(buildDumpOptions(opts), true, func(v any) any { return v })
	return flattenOrdered(om).(map[string]any)
}

func flattenOrdered(v any) any {
	switch x := v.(type) {
	case *orderedMap:
		out := x.plain()
		for k, e := range out {
			out[k] = flattenOrdered(e)
		}
		return out
	case []any:
		for i, e := range x {
			x[i] = flattenOrdered(e)
		}
	case Tuple:
		for i, e := range x {
			x[i] = flattenOrdered(e)
		}
	case map[string]any:
		for k, e := range x {
			x[k] = flattenOrdered(e)
		}
	}
	return v
}

// jsonLeaf keeps integral floats distinguishable from ints (1.0, not 1).
func jsonLeaf(v any) any {
	if f, ok := v.(float64); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return json.Number(formatFloat(f))
	}
	return v
}

// DumpJSON encodes the instance in schema order. Indent(n) pretty-prints
// with n spaces.
func (in *Instance) DumpJSON(opts ...DumpOption) ([]byte, error) {
	o := buildDumpOptions(opts)
	om := in.ordered(o, true, jsonLeaf)
	if o.indent > 0 {
		return json.MarshalIndent(om, "", strings.Repeat(" ", o.indent))
	}
	return json.Marshal(om)
}

// DumpYAML encodes the instance as a YAML mapping in schema order.
func (in *Instance) DumpYAML(opts ...DumpOption) ([]byte, error) {
	o := buildDumpOptions(opts)
	node, err := yamlNode(in.ordered(o, true, func(v any) any { return v }))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if o.indent > 0 {
		enc.SetIndent(o.indent)
	} else {
		enc.SetIndent(2)
	}
	if err := enc.Encode(node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func yamlNode(v any) (*yaml.Node, error) {
	switch x := v.(type) {
	case *orderedMap:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range x.keys {
			vn, err := yamlNode(x.vals[k])
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, vn)
		}
		return n, nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		om := &orderedMap{}
		for _, k := range keys {
			om.set(k, x[k])
		}
		return yamlNode(om)
	case []any:
		return yamlSeq(x)
	case Tuple:
		return yamlSeq(x)
	}
	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return n, nil
}

func yamlSeq(xs []any) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, e := range xs {
		en, err := yamlNode(e)
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, en)
	}
	return n, nil
}
