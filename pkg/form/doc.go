// Package form holds the schema side of the binding pipeline: fields and
// field sets, the choice source resolver, the per-request Form context, the
// Form Data binder and the DataManager bridge to target objects.
//
// Widgets and their extractors live in package widget; a Form only knows them
// through the ExtractorLookup interface so registries stay injectable.
package form
