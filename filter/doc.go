/*
Package filter implements custom tag criteria for selecting OSM elements.

A Spec maps tag keys to allowed values, where a key can also match any
value. Criteria come from untyped input (YAML/JSON documents or Go maps)
and are validated once into a read-only Config before any element is
touched. Select applies the validated criteria to the full element set
and returns the surviving elements per kind in stable input order.

Keep mode retains the elements that match the spec, exclude mode retains
exactly the others.
*/
package filter
