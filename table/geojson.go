package table

import (
	"time"

	"github.com/paulmach/orb/geojson"
)

// GeoJSON encodes the table as a FeatureCollection. Projected columns and
// metadata appear as feature properties, null when absent; residual tags
// are nested under "tags". The CRS is attached as a named crs member.
func (t *Table) GeoJSON() ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	fc.ExtraMembers = geojson.Properties{
		"crs": map[string]interface{}{
			"type":       "name",
			"properties": map[string]interface{}{"name": t.CRS},
		},
	}
	for _, row := range t.Rows {
		f := geojson.NewFeature(row.Geometry)
		f.ID = row.ID
		f.Properties["id"] = row.ID
		f.Properties["osm_type"] = row.OSMType
		f.Properties["tags"] = map[string]string(row.Tags)
		for _, col := range t.TagColumns {
			if v := row.Columns[col]; v != nil {
				f.Properties[col] = *v
			} else {
				f.Properties[col] = nil
			}
		}
		if row.Version != nil {
			f.Properties["version"] = *row.Version
		} else {
			f.Properties["version"] = nil
		}
		if row.Timestamp != nil {
			f.Properties["timestamp"] = row.Timestamp.UTC().Format(time.RFC3339)
		} else {
			f.Properties["timestamp"] = nil
		}
		if row.Changeset != nil {
			f.Properties["changeset"] = *row.Changeset
		} else {
			f.Properties["changeset"] = nil
		}
		fc.Append(f)
	}
	return fc.MarshalJSON()
}
