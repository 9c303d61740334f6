// Package vocabulary models the selectable options of choice fields: terms
// (token, value, title), vocabularies queryable both ways, and a registry of
// named vocabulary factories that forms resolve lazily per request. Named
// vocabularies can be loaded from YAML documents with LoadFS.
package vocabulary
