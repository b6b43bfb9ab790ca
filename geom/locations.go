package geom

import (
	osm "github.com/omniscale/go-osm"
)

// NodeLocations resolves node IDs to coordinates. Implementations must
// support concurrent lookups; the store is read-only during a query.
type NodeLocations interface {
	Coord(id int64) (lon, lat float64, ok bool)
}

// Locations is an in-memory NodeLocations, filled once by the decoder
// before any filtering starts.
type Locations struct {
	coords map[int64][2]float64
}

func NewLocations() *Locations {
	return &Locations{coords: make(map[int64][2]float64)}
}

func (l *Locations) Add(id int64, lon, lat float64) {
	l.coords[id] = [2]float64{lon, lat}
}

func (l *Locations) AddNode(nd osm.Node) {
	l.coords[nd.ID] = [2]float64{nd.Long, nd.Lat}
}

func (l *Locations) Coord(id int64) (lon, lat float64, ok bool) {
	c, ok := l.coords[id]
	return c[0], c[1], ok
}

func (l *Locations) Len() int {
	return len(l.coords)
}
