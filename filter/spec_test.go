package filter

import (
	"reflect"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestNewSpec(t *testing.T) {
	spec, err := NewSpec(map[string]interface{}{
		"building": true,
		"highway":  []interface{}{"primary", "secondary"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !spec["building"].Any {
		t.Error("building should match any value")
	}
	if want := []string{"primary", "secondary"}; !reflect.DeepEqual(spec["highway"].List, want) {
		t.Errorf("highway values %v, want %v", spec["highway"].List, want)
	}

	spec, err = NewSpec(map[string][]string{"building": {"retail"}})
	if err != nil {
		t.Fatal(err)
	}
	if got := spec["building"].List; len(got) != 1 || got[0] != "retail" {
		t.Errorf("unexpected values %v", got)
	}

	// yaml.v2 produces map[interface{}]interface{}
	spec, err = NewSpec(map[interface{}]interface{}{
		"amenity": []interface{}{"cafe"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := spec["amenity"].List; len(got) != 1 || got[0] != "cafe" {
		t.Errorf("unexpected values %v", got)
	}
}

func TestNewSpecInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want error
	}{
		{"nil filter", nil, ErrFilterShape},
		{"non-mapping", "building", ErrFilterShape},
		{"list", []string{"building"}, ErrFilterShape},
		{"non-string key", map[interface{}]interface{}{0: []interface{}{"residential"}}, ErrFilterKey},
		{"non-string value", map[string]interface{}{"building": []interface{}{1}}, ErrFilterValue},
		{"mixed values", map[string]interface{}{"building": []interface{}{"correct_string", 1}}, ErrFilterValue},
		{"empty list", map[string]interface{}{"building": []interface{}{}}, ErrFilterValue},
		{"empty string list", map[string][]string{"building": {}}, ErrFilterValue},
		{"false sentinel", map[string]interface{}{"building": false}, ErrFilterValue},
		{"bare string value", map[string]interface{}{"building": "retail"}, ErrFilterValue},
	}
	for _, test := range tests {
		_, err := NewSpec(test.raw)
		if errors.Cause(err) != test.want {
			t.Errorf("%s: got %v, want %v", test.name, err, test.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	for s, want := range map[string]Mode{"": Keep, "keep": Keep, "exclude": Exclude} {
		mode, err := ParseMode(s)
		if err != nil {
			t.Fatal(err)
		}
		if mode != want {
			t.Errorf("ParseMode(%q) = %v, want %v", s, mode, want)
		}
	}
	for _, s := range []string{"incorrect_test", "Keep", "EXCLUDE", "discard"} {
		if _, err := ParseMode(s); errors.Cause(err) != ErrFilterMode {
			t.Errorf("ParseMode(%q) should fail with ErrFilterMode, got %v", s, err)
		}
	}
}

func TestValidateDefaults(t *testing.T) {
	config, err := Raw{Filter: map[string]interface{}{
		"building": true,
		"amenity":  true,
	}}.Validate()
	if err != nil {
		t.Fatal(err)
	}
	if config.Mode != Keep {
		t.Error("default mode should be keep")
	}
	if !config.Kinds.Nodes || !config.Kinds.Ways || !config.Kinds.Relations {
		t.Error("all kinds should be enabled by default")
	}
	// default primary keys are the filter keys, sorted
	if want := []string{"amenity", "building"}; !reflect.DeepEqual(config.Keys, want) {
		t.Errorf("keys %v, want %v", config.Keys, want)
	}
	if config.Columns != nil {
		t.Errorf("columns should default to nil, got %v", config.Columns)
	}
	if want := []string{"amenity", "building"}; !reflect.DeepEqual(config.ColumnKeys(), want) {
		t.Errorf("column keys %v, want %v", config.ColumnKeys(), want)
	}
}

func TestValidateKindFlags(t *testing.T) {
	valid := map[string]interface{}{"building": true}

	config, err := Raw{Filter: valid, KeepNodes: false, KeepRelations: true}.Validate()
	if err != nil {
		t.Fatal(err)
	}
	if config.Kinds.Nodes || !config.Kinds.Ways || !config.Kinds.Relations {
		t.Errorf("unexpected kind mask %+v", config.Kinds)
	}

	for _, test := range []struct {
		raw  Raw
		flag string
	}{
		{Raw{Filter: valid, KeepNodes: "foo"}, "keep_nodes"},
		{Raw{Filter: valid, KeepWays: "foo"}, "keep_ways"},
		{Raw{Filter: valid, KeepRelations: 1}, "keep_relations"},
	} {
		_, err := test.raw.Validate()
		if errors.Cause(err) != ErrKindFlag {
			t.Fatalf("expected ErrKindFlag, got %v", err)
		}
		if !strings.Contains(err.Error(), test.flag) {
			t.Errorf("error %q should name flag %s", err, test.flag)
		}
	}
}

func TestValidateKeysAndColumns(t *testing.T) {
	valid := map[string]interface{}{"building": true}

	config, err := Raw{Filter: valid, Keys: "building"}.Validate()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"building"}; !reflect.DeepEqual(config.Keys, want) {
		t.Errorf("keys %v, want %v", config.Keys, want)
	}

	config, err = Raw{Filter: valid, Keys: []interface{}{"building", "amenity"}}.Validate()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"building", "amenity"}; !reflect.DeepEqual(config.Keys, want) {
		t.Errorf("keys %v, want %v", config.Keys, want)
	}

	if _, err := (Raw{Filter: valid, Keys: 1}).Validate(); errors.Cause(err) != ErrKeySelector {
		t.Errorf("expected ErrKeySelector, got %v", err)
	}
	if _, err := (Raw{Filter: valid, Keys: []interface{}{"building", 2}}).Validate(); errors.Cause(err) != ErrKeySelector {
		t.Errorf("expected ErrKeySelector, got %v", err)
	}

	config, err = Raw{Filter: valid, Columns: []interface{}{"building", "name"}}.Validate()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"building", "name"}; !reflect.DeepEqual(config.ColumnKeys(), want) {
		t.Errorf("column keys %v, want %v", config.ColumnKeys(), want)
	}

	if _, err := (Raw{Filter: valid, Columns: []interface{}{1}}).Validate(); errors.Cause(err) != ErrColumnProjection {
		t.Errorf("expected ErrColumnProjection, got %v", err)
	}
	if _, err := (Raw{Filter: valid, Columns: "building"}).Validate(); errors.Cause(err) != ErrColumnProjection {
		t.Errorf("expected ErrColumnProjection, got %v", err)
	}
}
