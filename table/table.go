// Package table holds the tabular result of a query: one row per
// surviving element with its geometry, metadata and tags.
package table

import (
	"time"

	osm "github.com/omniscale/go-osm"
	"github.com/paulmach/orb"
)

// Values of the osm_type column.
const (
	NodeType     = "node"
	WayType      = "way"
	RelationType = "relation"
)

// Row is a single result element. Version, Timestamp and Changeset are
// nil when the source carried no metadata. Columns holds one entry per
// projected tag column, nil when the element lacks the tag. Tags holds
// all remaining tags.
type Row struct {
	ID        int64
	OSMType   string
	Geometry  orb.Geometry
	Version   *int32
	Timestamp *time.Time
	Changeset *int64
	Tags      osm.Tags
	Columns   map[string]*string
}

// Table is a rectangular result set. All rows carry the same column set.
type Table struct {
	// CRS identifies the coordinate reference system of all geometries,
	// passed through from the decoder.
	CRS string
	// TagColumns are the tag keys materialized as standalone columns.
	TagColumns []string
	Rows       []Row
	// Dropped counts elements removed during geometry building, by reason.
	Dropped map[string]int

	projected map[string]struct{}
}

func New(crs string, tagColumns []string) *Table {
	projected := make(map[string]struct{}, len(tagColumns))
	for _, c := range tagColumns {
		projected[c] = struct{}{}
	}
	return &Table{
		CRS:        crs,
		TagColumns: tagColumns,
		Dropped:    make(map[string]int),
		projected:  projected,
	}
}

// ColumnNames returns the full ordered column set: geometry, tags, the
// projected tag columns and the fixed metadata columns.
func (t *Table) ColumnNames() []string {
	names := []string{"geometry", "tags"}
	names = append(names, t.TagColumns...)
	return append(names, "id", "osm_type", "version", "timestamp", "changeset")
}

// Append adds one element row. The element's tags are split into the
// projected columns and the residual tags mapping; the element itself is
// not modified.
func (t *Table) Append(osmType string, e osm.Element, geometry orb.Geometry) {
	row := Row{
		ID:       e.ID,
		OSMType:  osmType,
		Geometry: geometry,
	}
	if md := e.Metadata; md != nil {
		if md.Version != 0 {
			v := md.Version
			row.Version = &v
		}
		if !md.Timestamp.IsZero() {
			ts := md.Timestamp
			row.Timestamp = &ts
		}
		if md.Changeset != 0 {
			c := md.Changeset
			row.Changeset = &c
		}
	}
	row.Columns = make(map[string]*string, len(t.TagColumns))
	for _, col := range t.TagColumns {
		if v, ok := e.Tags[col]; ok {
			value := v
			row.Columns[col] = &value
		} else {
			row.Columns[col] = nil
		}
	}
	residual := make(osm.Tags)
	for k, v := range e.Tags {
		if _, ok := t.projected[k]; !ok {
			residual[k] = v
		}
	}
	row.Tags = residual
	t.Rows = append(t.Rows, row)
}
