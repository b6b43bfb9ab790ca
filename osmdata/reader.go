package osmdata

import (
	"context"
	"os"
	"sort"
	"sync"

	osm "github.com/omniscale/go-osm"
	"github.com/omniscale/go-osm/parser/pbf"
	"github.com/pkg/errors"

	"github.com/osmtools/osmquery/log"
)

// ReadPBF decodes a complete PBF file into memory, including element
// metadata. Untagged nodes only contribute coordinates, tagged nodes
// appear as elements as well.
func ReadPBF(ctx context.Context, filename string) (*Data, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	defer log.Step("reading " + filename)()

	data := New()

	coords := make(chan []osm.Node, 4)
	nodes := make(chan []osm.Node, 4)
	ways := make(chan []osm.Way, 4)
	relations := make(chan []osm.Relation, 4)

	parser := pbf.New(f, pbf.Config{
		IncludeMetadata: true,
		Coords:          coords,
		Nodes:           nodes,
		Ways:            ways,
		Relations:       relations,
	})

	wg := sync.WaitGroup{}
	wg.Add(4)
	go func() {
		defer wg.Done()
		for batch := range coords {
			for _, nd := range batch {
				data.Locations.AddNode(nd)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for batch := range nodes {
			data.Nodes = append(data.Nodes, batch...)
		}
	}()
	go func() {
		defer wg.Done()
		for batch := range ways {
			data.Ways = append(data.Ways, batch...)
		}
	}()
	go func() {
		defer wg.Done()
		for batch := range relations {
			data.Relations = append(data.Relations, batch...)
		}
	}()

	if err := parser.Parse(ctx); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", filename)
	}
	wg.Wait()

	// blocks are parsed concurrently, restore a deterministic order
	sort.Slice(data.Nodes, func(i, j int) bool { return data.Nodes[i].ID < data.Nodes[j].ID })
	sort.Slice(data.Ways, func(i, j int) bool { return data.Ways[i].ID < data.Ways[j].ID })
	sort.Slice(data.Relations, func(i, j int) bool { return data.Relations[i].ID < data.Relations[j].ID })

	data.BuildIndex()

	log.Printf("[info] read %d nodes, %d ways, %d relations, %d coords",
		len(data.Nodes), len(data.Ways), len(data.Relations), data.Locations.Len())
	return data, nil
}
