// Package diff implements the structural diff/apply codec used to
// compress a server tick's full state against a previously
// acknowledged base before it goes out over the wire (spec.md §4.2).
//
// A MapDiff is produced by a full outer join over the two maps' key
// sets, like original_source/comn/src/util/join.rs's full_join but
// without key ordering (Go map iteration), bucketed into inserts,
// removals, and updates. Leaf values
// (Entity, Player records) are diffed by whole-value replacement:
// there is no sub-structural diff below the map level, matching the
// original's impl_opaque_diff! macro.
package diff

import "reflect"

// KV pairs a key with its value (or, in Update, with the new value —
// the codec sends the replacement whole, it does not describe what
// changed about it).
type KV[K comparable, V any] struct {
	Key   K
	Value V
}

// MapDiff is the edit script turning a "base" ordered map into a
// "target" ordered map: which keys were added, which were removed, and
// which existing keys now hold a different value.
type MapDiff[K comparable, V any] struct {
	Insert []KV[K, V]
	Remove []K
	Update []KV[K, V]
}

// IsEmpty reports whether applying d would be a no-op.
func (d MapDiff[K, V]) IsEmpty() bool {
	return len(d.Insert) == 0 && len(d.Remove) == 0 && len(d.Update) == 0
}

// DiffMap computes the edit script turning base into target. Key
// ordering of the output is unspecified; callers that need a
// deterministic wire encoding should sort before serializing.
func DiffMap[K comparable, V any](base, target map[K]V) MapDiff[K, V] {
	var d MapDiff[K, V]
	for k, v := range target {
		old, existed := base[k]
		if !existed {
			d.Insert = append(d.Insert, KV[K, V]{Key: k, Value: v})
			continue
		}
		if !reflect.DeepEqual(old, v) {
			d.Update = append(d.Update, KV[K, V]{Key: k, Value: v})
		}
	}
	for k := range base {
		if _, stillPresent := target[k]; !stillPresent {
			d.Remove = append(d.Remove, k)
		}
	}
	return d
}

// ApplyMap mutates base in place so that it matches the target map
// that d was computed against. It is the receiving side's inverse of
// DiffMap: base.Apply(DiffMap(base, target)) == target.
func ApplyMap[K comparable, V any](base map[K]V, d MapDiff[K, V]) {
	for _, kv := range d.Insert {
		base[kv.Key] = kv.Value
	}
	for _, kv := range d.Update {
		base[kv.Key] = kv.Value
	}
	for _, k := range d.Remove {
		delete(base, k)
	}
}
