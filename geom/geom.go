// Package geom builds geometries for filtered OSM elements: points for
// nodes, linestrings or polygons for ways and geometry collections for
// relations.
package geom

import (
	osm "github.com/omniscale/go-osm"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// Geometry build errors. Both are per-element conditions, the affected
// element is dropped from the result while the query continues.
var (
	ErrNodeRefUnresolved  = errors.New("way references node without coordinates")
	ErrRelationUnresolved = errors.New("relation has no resolvable members")
)

// Source provides elements by ID for relation member resolution.
type Source interface {
	Way(id int64) (osm.Way, bool)
	Relation(id int64) (osm.Relation, bool)
}

// Node returns the point geometry of a node.
func Node(nd *osm.Node) orb.Point {
	return orb.Point{nd.Long, nd.Lat}
}

// Way resolves the node references of a way to a geometry. Closed ways
// with at least four points become polygons, everything else a
// linestring. A reference missing from locations fails the whole way.
func Way(way *osm.Way, locations NodeLocations) (orb.Geometry, error) {
	if len(way.Refs) == 0 {
		return nil, errors.Wrapf(ErrNodeRefUnresolved, "way %d has no node references", way.ID)
	}
	line := make(orb.LineString, 0, len(way.Refs))
	for _, ref := range way.Refs {
		lon, lat, ok := locations.Coord(ref)
		if !ok {
			return nil, errors.Wrapf(ErrNodeRefUnresolved, "way %d, node %d", way.ID, ref)
		}
		line = append(line, orb.Point{lon, lat})
	}
	if len(line) >= 4 && line[0] == line[len(line)-1] {
		return orb.Polygon{orb.Ring(line)}, nil
	}
	return line, nil
}

// Relation combines the geometries of all resolvable members into a
// collection, in member order. Nested relations are resolved with a
// cycle guard: a relation that references itself, directly or through
// other relations, does not contribute twice. Relations with no members
// or with only unresolvable members fail with ErrRelationUnresolved.
func Relation(rel *osm.Relation, locations NodeLocations, source Source) (orb.Geometry, error) {
	visited := map[int64]struct{}{rel.ID: {}}
	geoms := memberGeometries(rel, locations, source, visited)
	if len(geoms) == 0 {
		return nil, errors.Wrapf(ErrRelationUnresolved, "relation %d", rel.ID)
	}
	return orb.Collection(geoms), nil
}

func memberGeometries(rel *osm.Relation, locations NodeLocations, source Source, visited map[int64]struct{}) []orb.Geometry {
	var geoms []orb.Geometry
	for _, m := range rel.Members {
		switch m.Type {
		case osm.NodeMember:
			if lon, lat, ok := locations.Coord(m.ID); ok {
				geoms = append(geoms, orb.Point{lon, lat})
			}
		case osm.WayMember:
			way, ok := source.Way(m.ID)
			if !ok {
				continue
			}
			g, err := Way(&way, locations)
			if err != nil {
				continue
			}
			geoms = append(geoms, g)
		case osm.RelationMember:
			if _, seen := visited[m.ID]; seen {
				continue
			}
			visited[m.ID] = struct{}{}
			nested, ok := source.Relation(m.ID)
			if !ok {
				continue
			}
			geoms = append(geoms, memberGeometries(&nested, locations, source, visited)...)
		}
	}
	return geoms
}
