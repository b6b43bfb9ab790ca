package filter

import (
	"runtime"
	"sync"

	osm "github.com/omniscale/go-osm"
)

// Selection holds the positions of all surviving elements, per kind, in
// their original input order. Positions index into the slices passed to
// Select.
type Selection struct {
	Nodes     []int
	Ways      []int
	Relations []int
}

// Len returns the total number of selected elements.
func (s *Selection) Len() int {
	return len(s.Nodes) + len(s.Ways) + len(s.Relations)
}

// Select applies the spec to all elements of the enabled kinds. Selection
// is stable: surviving elements keep their relative input order. Kinds
// disabled in the mask are dropped regardless of their tags.
func Select(nodes []osm.Node, ways []osm.Way, relations []osm.Relation,
	spec Spec, mode Mode, kinds KindMask,
) Selection {
	sel := Selection{}
	if kinds.Nodes {
		sel.Nodes = selectTags(len(nodes), func(i int) osm.Tags { return nodes[i].Tags }, spec, mode)
	}
	if kinds.Ways {
		sel.Ways = selectTags(len(ways), func(i int) osm.Tags { return ways[i].Tags }, spec, mode)
	}
	if kinds.Relations {
		sel.Relations = selectTags(len(relations), func(i int) osm.Tags { return relations[i].Tags }, spec, mode)
	}
	return sel
}

// selection below this size is not worth sharding
const minParallel = 16384

func selectTags(n int, tags func(int) osm.Tags, spec Spec, mode Mode) []int {
	workers := runtime.NumCPU()
	if n < minParallel || workers < 2 {
		return selectRange(0, n, tags, spec, mode)
	}

	// contiguous shards, concatenated in shard order to keep the
	// selection stable
	parts := make([][]int, workers)
	shard := (n + workers - 1) / workers
	wg := sync.WaitGroup{}
	for w := 0; w < workers; w++ {
		lo := w * shard
		hi := lo + shard
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			parts[w] = selectRange(lo, hi, tags, spec, mode)
			wg.Done()
		}(w, lo, hi)
	}
	wg.Wait()

	result := make([]int, 0, n)
	for _, part := range parts {
		result = append(result, part...)
	}
	return result
}

func selectRange(lo, hi int, tags func(int) osm.Tags, spec Spec, mode Mode) []int {
	var result []int
	for i := lo; i < hi; i++ {
		if spec.Retain(tags(i), mode) {
			result = append(result, i)
		}
	}
	return result
}
