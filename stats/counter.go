// Package stats collects counters for dropped elements during geometry
// building. Safe for concurrent use.
package stats

import (
	"sync/atomic"
)

// Drop reasons, used as keys in Drops.Counts.
const (
	UnresolvedNodeRefs        = "unresolved_node_refs"
	UnresolvedRelationMembers = "unresolved_relation_members"
)

type Drops struct {
	ways      int64
	relations int64
}

func (d *Drops) DropWay() {
	atomic.AddInt64(&d.ways, 1)
}

func (d *Drops) DropRelation() {
	atomic.AddInt64(&d.relations, 1)
}

func (d *Drops) Total() int64 {
	return atomic.LoadInt64(&d.ways) + atomic.LoadInt64(&d.relations)
}

// Counts returns all non-zero drop counters by reason.
func (d *Drops) Counts() map[string]int {
	counts := make(map[string]int)
	if n := atomic.LoadInt64(&d.ways); n > 0 {
		counts[UnresolvedNodeRefs] = int(n)
	}
	if n := atomic.LoadInt64(&d.relations); n > 0 {
		counts[UnresolvedRelationMembers] = int(n)
	}
	return counts
}
