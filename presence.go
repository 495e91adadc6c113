package gomodel

import "sort"

// Presence is the bit flag recorded per field while constructing or
// assigning to an instance.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Field appeared in the input or was assigned.
	PresenceWasNull                             // Field value was null.
	PresenceDefaultApplied                      // Default value was applied.
)

// Has reports whether every bit in f is set.
func (p Presence) Has(f Presence) bool { return p&f == f }

// PresenceMap maps JSON Pointers (/field) to Presence flags.
type PresenceMap map[string]Presence

// Seen lists the pointers that were explicitly supplied, sorted.
func (pm PresenceMap) Seen() []string {
	out := make([]string, 0, len(pm))
	for k, v := range pm {
		if v.Has(PresenceSeen) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// mergePresenceMaps returns a new PresenceMap that is the bitwise-OR merge of a and b.
func mergePresenceMaps(a, b PresenceMap) PresenceMap {
	if a == nil && b == nil {
		return nil
	}
	out := make(PresenceMap, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] |= v
	}
	return out
}
