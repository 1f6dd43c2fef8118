package xmlbind

import "github.com/cespare/xxhash/v2"

const nameIndexLinearMax = 8

type nameEntry struct {
	name  string
	index int
}

// nameIndex maps raw serialized names to field positions.
// Small sets are scanned linearly; larger ones are bucketed by hash.
type nameIndex struct {
	buckets map[uint64][]nameEntry
	entries []nameEntry
}

func (n *nameIndex) add(name string, index int) bool {
	if _, ok := n.lookupString(name); ok {
		return false
	}
	n.entries = append(n.entries, nameEntry{name: name, index: index})
	if len(n.entries) > nameIndexLinearMax {
		if n.buckets == nil {
			n.buckets = make(map[uint64][]nameEntry, len(n.entries))
			for _, e := range n.entries[:len(n.entries)-1] {
				h := xxhash.Sum64String(e.name)
				n.buckets[h] = append(n.buckets[h], e)
			}
		}
		h := xxhash.Sum64String(name)
		n.buckets[h] = append(n.buckets[h], nameEntry{name: name, index: index})
	}
	return true
}

func (n *nameIndex) lookup(name []byte) (int, bool) {
	if n.buckets == nil {
		for _, e := range n.entries {
			if e.name == string(name) {
				return e.index, true
			}
		}
		return 0, false
	}
	for _, e := range n.buckets[xxhash.Sum64(name)] {
		if e.name == string(name) {
			return e.index, true
		}
	}
	return 0, false
}

func (n *nameIndex) lookupString(name string) (int, bool) {
	if n.buckets == nil {
		for _, e := range n.entries {
			if e.name == name {
				return e.index, true
			}
		}
		return 0, false
	}
	for _, e := range n.buckets[xxhash.Sum64String(name)] {
		if e.name == name {
			return e.index, true
		}
	}
	return 0, false
}
