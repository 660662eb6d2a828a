// Package dsu implements a disjoint-set union keyed by user id, used to
// report connected components of the social graph after a load pass.
package dsu

import "sync"

type DSU struct {
	root  []int
	rank  []int
	index map[int64]int
	lock  sync.Mutex
}

// New creates an empty DSU.
func New() *DSU {
	return &DSU{
		index: make(map[int64]int),
	}
}

// Add registers a user id as its own singleton set. Adding an existing id is
// a no-op.
func (d *DSU) Add(id int64) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.add(id)
}

func (d *DSU) add(id int64) int {
	if idx, ok := d.index[id]; ok {
		return idx
	}
	idx := len(d.root)
	d.root = append(d.root, idx)
	d.rank = append(d.rank, 0)
	d.index[id] = idx
	return idx
}

func (d *DSU) find(x int) int {
	if d.root[x] == x {
		return x
	}
	d.root[x] = d.find(d.root[x]) // Path compression
	return d.root[x]
}

// Union merges the sets of two user ids, registering them first if needed.
func (d *DSU) Union(a, b int64) {
	d.lock.Lock()
	defer d.lock.Unlock()

	rootA := d.find(d.add(a))
	rootB := d.find(d.add(b))
	if rootA == rootB {
		return
	}

	if d.rank[rootA] > d.rank[rootB] {
		d.root[rootB] = rootA
	} else if d.rank[rootA] < d.rank[rootB] {
		d.root[rootA] = rootB
	} else {
		d.root[rootB] = rootA
		d.rank[rootA]++
	}
}

// Connected reports whether two user ids are in the same set. Unknown ids
// are connected to nothing.
func (d *DSU) Connected(a, b int64) bool {
	d.lock.Lock()
	defer d.lock.Unlock()

	idxA, okA := d.index[a]
	idxB, okB := d.index[b]
	if !okA || !okB {
		return false
	}
	return d.find(idxA) == d.find(idxB)
}

// Components returns the number of disjoint sets and the size of the
// largest one.
func (d *DSU) Components() (count, largest int) {
	d.lock.Lock()
	defer d.lock.Unlock()

	sizes := make(map[int]int)
	for idx := range d.root {
		sizes[d.find(idx)]++
	}
	for _, size := range sizes {
		if size > largest {
			largest = size
		}
	}
	return len(sizes), largest
}
