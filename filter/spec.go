package filter

import (
	"sort"

	"github.com/pkg/errors"
)

// Validation errors for user supplied criteria. Use errors.Cause to check
// which rule was violated.
var (
	ErrFilterShape      = errors.New("filter must be a mapping of tag keys to values")
	ErrFilterKey        = errors.New("filter keys must be strings")
	ErrFilterValue      = errors.New("filter values must be true or a non-empty list of strings")
	ErrFilterMode       = errors.New(`filter type must be either "keep" or "exclude"`)
	ErrKindFlag         = errors.New("element kind flags must be boolean")
	ErrKeySelector      = errors.New("keys must be a string or a list of strings")
	ErrColumnProjection = errors.New("tag columns must be a list of strings")
)

// Values is the allowed-value set for a single tag key. If Any is set the
// key matches regardless of its value.
type Values struct {
	Any  bool
	List []string
}

// Spec maps tag keys to their allowed values. Build a Spec from untyped
// input with NewSpec, or through Raw.Validate for the complete criteria
// surface.
type Spec map[string]Values

// Keys returns all tag keys of the spec in sorted order.
func (s Spec) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Mode controls whether matching elements are kept or excluded.
type Mode int

const (
	Keep Mode = iota
	Exclude
)

func (m Mode) String() string {
	if m == Exclude {
		return "exclude"
	}
	return "keep"
}

// ParseMode parses "keep" or "exclude". The empty string defaults to Keep.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "keep":
		return Keep, nil
	case "exclude":
		return Exclude, nil
	}
	return Keep, errors.Wrap(ErrFilterMode, s)
}

// KindMask toggles which element kinds are considered at all.
type KindMask struct {
	Nodes     bool
	Ways      bool
	Relations bool
}

// NewSpec validates and normalizes an untyped filter mapping, as produced
// by YAML or JSON unmarshalling. Values must be boolean true (match any
// value) or a list of strings. Empty lists are rejected, matching nothing
// is never implied.
func NewSpec(raw interface{}) (Spec, error) {
	if raw == nil {
		return nil, ErrFilterShape
	}
	spec := make(Spec)
	switch m := raw.(type) {
	case map[string]interface{}:
		for k, v := range m {
			vals, err := newValues(v)
			if err != nil {
				return nil, errors.Wrap(err, k)
			}
			spec[k] = vals
		}
	case map[interface{}]interface{}:
		for k, v := range m {
			key, ok := k.(string)
			if !ok {
				return nil, errors.Wrapf(ErrFilterKey, "%v", k)
			}
			vals, err := newValues(v)
			if err != nil {
				return nil, errors.Wrap(err, key)
			}
			spec[key] = vals
		}
	case map[string][]string:
		for k, v := range m {
			if len(v) == 0 {
				return nil, errors.Wrap(ErrFilterValue, k)
			}
			spec[k] = Values{List: v}
		}
	case Spec:
		for k, v := range m {
			if !v.Any && len(v.List) == 0 {
				return nil, errors.Wrap(ErrFilterValue, k)
			}
			spec[k] = v
		}
	default:
		return nil, errors.Wrapf(ErrFilterShape, "%T", raw)
	}
	return spec, nil
}

func newValues(v interface{}) (Values, error) {
	switch val := v.(type) {
	case bool:
		if !val {
			return Values{}, ErrFilterValue
		}
		return Values{Any: true}, nil
	case []string:
		if len(val) == 0 {
			return Values{}, ErrFilterValue
		}
		return Values{List: val}, nil
	case []interface{}:
		if len(val) == 0 {
			return Values{}, ErrFilterValue
		}
		list := make([]string, len(val))
		for i, e := range val {
			s, ok := e.(string)
			if !ok {
				return Values{}, errors.Wrapf(ErrFilterValue, "%v", e)
			}
			list[i] = s
		}
		return Values{List: list}, nil
	}
	return Values{}, errors.Wrapf(ErrFilterValue, "%v", v)
}

// Raw is the untyped caller surface of the engine, before validation.
// Fields are interface{} so that criteria can come straight from YAML or
// JSON documents. Nil fields select the documented defaults.
type Raw struct {
	// Filter is the tag predicate, a mapping from tag key to true or to a
	// list of allowed values. Required.
	Filter interface{}
	// Type is "keep" (default) or "exclude".
	Type string
	// KeepNodes, KeepWays and KeepRelations toggle element kinds.
	// All default to true.
	KeepNodes     interface{}
	KeepWays      interface{}
	KeepRelations interface{}
	// Keys selects the tag keys promoted to columns when Columns is not
	// set. String or list of strings. Defaults to the filter keys.
	Keys interface{}
	// Columns lists tag keys materialized as standalone columns.
	Columns interface{}
}

// Config is the validated, read-only configuration of one query.
type Config struct {
	Spec    Spec
	Mode    Mode
	Kinds   KindMask
	Keys    []string
	Columns []string
}

// ColumnKeys returns the tag keys projected into standalone columns:
// Columns if set, the primary keys otherwise.
func (c *Config) ColumnKeys() []string {
	if c.Columns != nil {
		return c.Columns
	}
	return c.Keys
}

// Validate checks all parts of the raw criteria and assembles the
// configuration. It fails on the first violated rule, nothing is
// processed with a partially valid configuration.
func (r Raw) Validate() (*Config, error) {
	spec, err := NewSpec(r.Filter)
	if err != nil {
		return nil, err
	}
	mode, err := ParseMode(r.Type)
	if err != nil {
		return nil, err
	}
	kinds := KindMask{}
	if kinds.Nodes, err = kindFlag(r.KeepNodes, "keep_nodes"); err != nil {
		return nil, err
	}
	if kinds.Ways, err = kindFlag(r.KeepWays, "keep_ways"); err != nil {
		return nil, err
	}
	if kinds.Relations, err = kindFlag(r.KeepRelations, "keep_relations"); err != nil {
		return nil, err
	}
	keys, err := keySelector(r.Keys)
	if err != nil {
		return nil, err
	}
	if keys == nil {
		keys = spec.Keys()
	}
	columns, err := columnProjection(r.Columns)
	if err != nil {
		return nil, err
	}
	return &Config{
		Spec:    spec,
		Mode:    mode,
		Kinds:   kinds,
		Keys:    keys,
		Columns: columns,
	}, nil
}

func kindFlag(v interface{}, name string) (bool, error) {
	if v == nil {
		return true, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, errors.Wrap(ErrKindFlag, name)
	}
	return b, nil
}

func keySelector(v interface{}) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{val}, nil
	case []string:
		return val, nil
	case []interface{}:
		keys := make([]string, len(val))
		for i, e := range val {
			s, ok := e.(string)
			if !ok {
				return nil, errors.Wrapf(ErrKeySelector, "%v", e)
			}
			keys[i] = s
		}
		return keys, nil
	}
	return nil, errors.Wrapf(ErrKeySelector, "%v", v)
}

func columnProjection(v interface{}) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return val, nil
	case []interface{}:
		columns := make([]string, len(val))
		for i, e := range val {
			s, ok := e.(string)
			if !ok {
				return nil, errors.Wrapf(ErrColumnProjection, "%v", e)
			}
			columns[i] = s
		}
		return columns, nil
	}
	return nil, errors.Wrapf(ErrColumnProjection, "%v", v)
}
