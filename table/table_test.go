package table

import (
	"encoding/json"
	"testing"
	"time"

	osm "github.com/omniscale/go-osm"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnNames(t *testing.T) {
	tbl := New("EPSG:4326", []string{"building"})
	assert.Equal(t,
		[]string{"geometry", "tags", "building", "id", "osm_type", "version", "timestamp", "changeset"},
		tbl.ColumnNames())
}

func TestAppend(t *testing.T) {
	tbl := New("EPSG:4326", []string{"building"})

	ts := time.Date(2020, 5, 1, 12, 0, 0, 0, time.UTC)
	elem := osm.Element{
		ID:   42,
		Tags: osm.Tags{"building": "retail", "name": "Mall", "levels": "2"},
		Metadata: &osm.Metadata{
			Version:   3,
			Timestamp: ts,
			Changeset: 12345,
		},
	}
	tbl.Append(WayType, elem, orb.Point{8.0, 53.0})

	require.Len(t, tbl.Rows, 1)
	row := tbl.Rows[0]
	assert.Equal(t, int64(42), row.ID)
	assert.Equal(t, "way", row.OSMType)

	// projected column
	require.NotNil(t, row.Columns["building"])
	assert.Equal(t, "retail", *row.Columns["building"])

	// residual tags exclude the projected key
	assert.Equal(t, osm.Tags{"name": "Mall", "levels": "2"}, row.Tags)

	require.NotNil(t, row.Version)
	assert.Equal(t, int32(3), *row.Version)
	require.NotNil(t, row.Timestamp)
	assert.Equal(t, ts, *row.Timestamp)
	require.NotNil(t, row.Changeset)
	assert.Equal(t, int64(12345), *row.Changeset)

	// the source element is untouched
	assert.Len(t, elem.Tags, 3)
}

func TestAppendMissing(t *testing.T) {
	tbl := New("EPSG:4326", []string{"building", "name"})

	tbl.Append(NodeType, osm.Element{ID: 7, Tags: osm.Tags{"amenity": "cafe"}}, orb.Point{})

	require.Len(t, tbl.Rows, 1)
	row := tbl.Rows[0]

	// rectangular: absent tags still carry their column, as null
	require.Contains(t, row.Columns, "building")
	require.Contains(t, row.Columns, "name")
	assert.Nil(t, row.Columns["building"])
	assert.Nil(t, row.Columns["name"])

	// no metadata at all surfaces as nulls, not errors
	assert.Nil(t, row.Version)
	assert.Nil(t, row.Timestamp)
	assert.Nil(t, row.Changeset)
}

func TestGeoJSON(t *testing.T) {
	tbl := New("EPSG:4326", []string{"building"})
	tbl.Append(NodeType, osm.Element{ID: 1, Tags: osm.Tags{"building": "retail", "name": "Mall"}}, orb.Point{8.0, 53.0})
	tbl.Append(NodeType, osm.Element{ID: 2, Tags: osm.Tags{"amenity": "cafe"}}, orb.Point{8.1, 53.1})

	b, err := tbl.GeoJSON()
	require.NoError(t, err)

	doc := struct {
		Type string `json:"type"`
		CRS  struct {
			Properties struct {
				Name string `json:"name"`
			} `json:"properties"`
		} `json:"crs"`
		Features []struct {
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}{}
	require.NoError(t, json.Unmarshal(b, &doc))

	assert.Equal(t, "FeatureCollection", doc.Type)
	assert.Equal(t, "EPSG:4326", doc.CRS.Properties.Name)
	require.Len(t, doc.Features, 2)

	first := doc.Features[0]
	assert.Equal(t, "Point", first.Geometry.Type)
	assert.Equal(t, "retail", first.Properties["building"])
	assert.Equal(t, "node", first.Properties["osm_type"])
	assert.Equal(t, map[string]interface{}{"name": "Mall"}, first.Properties["tags"])
	assert.Nil(t, first.Properties["version"])

	second := doc.Features[1]
	assert.Nil(t, second.Properties["building"])
}
