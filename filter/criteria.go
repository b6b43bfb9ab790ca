package filter

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// criteria is the YAML document structure for query criteria files:
//
//	filter:
//	  building: [retail, commercial]
//	  amenity: true
//	type: keep
//	nodes: false
//	columns: [building, name]
type criteria struct {
	Filter    map[interface{}]interface{} `yaml:"filter"`
	Type      string                      `yaml:"type"`
	Nodes     interface{}                 `yaml:"nodes"`
	Ways      interface{}                 `yaml:"ways"`
	Relations interface{}                 `yaml:"relations"`
	Keys      interface{}                 `yaml:"keys"`
	Columns   interface{}                 `yaml:"columns"`
}

// FromFile reads and validates a criteria YAML file.
func FromFile(filename string) (*Config, error) {
	b, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	config, err := Parse(b)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid criteria in %s", filename)
	}
	return config, nil
}

// Parse validates a criteria YAML document.
func Parse(b []byte) (*Config, error) {
	c := criteria{}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	raw := Raw{
		Type:          c.Type,
		KeepNodes:     c.Nodes,
		KeepWays:      c.Ways,
		KeepRelations: c.Relations,
		Keys:          c.Keys,
		Columns:       c.Columns,
	}
	if c.Filter != nil {
		raw.Filter = c.Filter
	}
	return raw.Validate()
}
