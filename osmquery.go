// Package osmquery filters OSM primitives by custom tag criteria and
// assembles the survivors into a flat table with geometries.
//
// A query runs as one pass: validate the criteria, select the surviving
// elements per kind, build their geometries and project tags into
// columns. Queries are pure functions of their inputs, two queries over
// the same data with the same criteria produce identical tables.
package osmquery

import (
	"runtime"
	"sync"

	"github.com/paulmach/orb"

	"github.com/osmtools/osmquery/filter"
	"github.com/osmtools/osmquery/geom"
	"github.com/osmtools/osmquery/log"
	"github.com/osmtools/osmquery/osmdata"
	"github.com/osmtools/osmquery/stats"
	"github.com/osmtools/osmquery/table"
)

// Query validates the raw criteria and runs them against the dataset.
// Validation errors abort the query before any element is touched.
func Query(data *osmdata.Data, criteria filter.Raw) (*table.Table, error) {
	config, err := criteria.Validate()
	if err != nil {
		return nil, err
	}
	return QueryConfig(data, config), nil
}

// QueryConfig runs already validated criteria against the dataset.
// Elements whose geometry cannot be resolved are dropped and counted on
// the result table, they never fail the query.
func QueryConfig(data *osmdata.Data, config *filter.Config) *table.Table {
	sel := filter.Select(data.Nodes, data.Ways, data.Relations,
		config.Spec, config.Mode, config.Kinds)

	t := table.New(data.CRS, config.ColumnKeys())
	drops := stats.Drops{}

	for _, i := range sel.Nodes {
		nd := &data.Nodes[i]
		t.Append(table.NodeType, nd.Element, geom.Node(nd))
	}

	for i, g := range buildWays(data, sel.Ways, &drops) {
		if g == nil {
			continue
		}
		t.Append(table.WayType, data.Ways[sel.Ways[i]].Element, g)
	}

	for _, i := range sel.Relations {
		rel := &data.Relations[i]
		g, err := geom.Relation(rel, data.Locations, data)
		if err != nil {
			drops.DropRelation()
			continue
		}
		t.Append(table.RelationType, rel.Element, g)
	}

	t.Dropped = drops.Counts()
	if n := drops.Total(); n > 0 {
		log.Printf("[warn] dropped %d elements without resolvable geometry", n)
	}
	return t
}

// way geometry building below this size is not worth sharding
const minParallelWays = 4096

// buildWays resolves way geometries, sharded over all CPUs for large
// selections. The result has one entry per selected way, nil for ways
// that could not be resolved.
func buildWays(data *osmdata.Data, selected []int, drops *stats.Drops) []orb.Geometry {
	geoms := make([]orb.Geometry, len(selected))
	buildRange := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			way := &data.Ways[selected[i]]
			g, err := geom.Way(way, data.Locations)
			if err != nil {
				drops.DropWay()
				continue
			}
			geoms[i] = g
		}
	}

	workers := runtime.NumCPU()
	if len(selected) < minParallelWays || workers < 2 {
		buildRange(0, len(selected))
		return geoms
	}

	shard := (len(selected) + workers - 1) / workers
	wg := sync.WaitGroup{}
	for lo := 0; lo < len(selected); lo += shard {
		hi := lo + shard
		if hi > len(selected) {
			hi = len(selected)
		}
		wg.Add(1)
		go func(lo, hi int) {
			buildRange(lo, hi)
			wg.Done()
		}(lo, hi)
	}
	wg.Wait()
	return geoms
}
