// Package osmdata loads OSM primitives into memory and provides the
// lookups the query engine needs: node coordinates and ways/relations
// by ID.
package osmdata

import (
	osm "github.com/omniscale/go-osm"

	"github.com/osmtools/osmquery/geom"
)

// CRS identifies the coordinate reference system of all decoded
// coordinates. OSM data is always WGS84; the engine passes this through
// unchanged.
const CRS = "EPSG:4326"

// Data is the full primitive set of one dataset. It is filled once by
// the decoder and read-only afterwards.
type Data struct {
	Nodes     []osm.Node
	Ways      []osm.Way
	Relations []osm.Relation
	Locations *geom.Locations
	CRS       string

	wayIdx map[int64]int
	relIdx map[int64]int
}

func New() *Data {
	return &Data{
		Locations: geom.NewLocations(),
		CRS:       CRS,
	}
}

// BuildIndex prepares the by-ID lookups for relation member resolution.
// Must be called after the element slices are complete.
func (d *Data) BuildIndex() {
	d.wayIdx = make(map[int64]int, len(d.Ways))
	for i, w := range d.Ways {
		d.wayIdx[w.ID] = i
	}
	d.relIdx = make(map[int64]int, len(d.Relations))
	for i, r := range d.Relations {
		d.relIdx[r.ID] = i
	}
}

func (d *Data) Way(id int64) (osm.Way, bool) {
	i, ok := d.wayIdx[id]
	if !ok {
		return osm.Way{}, false
	}
	return d.Ways[i], true
}

func (d *Data) Relation(id int64) (osm.Relation, bool) {
	i, ok := d.relIdx[id]
	if !ok {
		return osm.Relation{}, false
	}
	return d.Relations[i], true
}
