// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stackedmap layers writes over a read-only source so that a failed operation can
// discard everything it wrote.
package stackedmap

// Source reads a key that has not been written yet.
type Source[K comparable, V any] func(key K) (V, error)

type level[K comparable, V any] struct {
	values map[K]V
	order  []K
}

// StackedMap is a stack of write layers over a Source. Reads see the most recent layer
// holding the key.
type StackedMap[K comparable, V any] struct {
	src    Source[K, V]
	levels []*level[K, V]
}

// New creates a map with one open layer.
func New[K comparable, V any](src Source[K, V]) *StackedMap[K, V] {
	sm := &StackedMap[K, V]{src: src}
	sm.Push()
	return sm
}

// Depth returns the number of layers.
func (sm *StackedMap[K, V]) Depth() int {
	return len(sm.levels)
}

// Push opens a layer and returns the depth before it, to be passed to PopTo.
func (sm *StackedMap[K, V]) Push() int {
	sm.levels = append(sm.levels, &level[K, V]{values: make(map[K]V)})
	return len(sm.levels) - 1
}

// PopTo drops layers until depth remain.
func (sm *StackedMap[K, V]) PopTo(depth int) {
	if depth < 0 {
		depth = 0
	}
	for i := depth; i < len(sm.levels); i++ {
		sm.levels[i] = nil
	}
	if depth < len(sm.levels) {
		sm.levels = sm.levels[:depth]
	}
}

// Get returns the value of key from the top-most layer writing it, or from the source.
func (sm *StackedMap[K, V]) Get(key K) (V, error) {
	for i := len(sm.levels) - 1; i >= 0; i-- {
		if v, ok := sm.levels[i].values[key]; ok {
			return v, nil
		}
	}
	return sm.src(key)
}

// Put writes into the top layer. It panics when every layer has been popped.
func (sm *StackedMap[K, V]) Put(key K, value V) {
	top := sm.levels[len(sm.levels)-1]
	if _, ok := top.values[key]; !ok {
		top.order = append(top.order, key)
	}
	top.values[key] = value
}

// Changes visits every written key once, in order of first write, with its latest value.
// The walk stops when cb returns false.
func (sm *StackedMap[K, V]) Changes(cb func(key K, value V) bool) {
	seen := make(map[K]struct{})
	for _, lvl := range sm.levels {
		for _, key := range lvl.order {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			v, _ := sm.Get(key)
			if !cb(key, v) {
				return
			}
		}
	}
}
