package filter

import (
	osm "github.com/omniscale/go-osm"
)

// Matches reports whether the tags satisfy the spec. A single key of the
// spec that is present in tags with an allowed value (or with any value
// for Any entries) is sufficient.
func (s Spec) Matches(tags osm.Tags) bool {
	for k, v := range s {
		tagValue, ok := tags[k]
		if !ok {
			continue
		}
		if v.Any {
			return true
		}
		for _, allowed := range v.List {
			if tagValue == allowed {
				return true
			}
		}
	}
	return false
}

// Retain reports whether an element with the given tags survives
// filtering: matching elements for Keep, non-matching for Exclude.
// Keep and Exclude selections partition the element set.
func (s Spec) Retain(tags osm.Tags, mode Mode) bool {
	if mode == Exclude {
		return !s.Matches(tags)
	}
	return s.Matches(tags)
}
