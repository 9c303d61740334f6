// Package marker defines the sentinel values that flow through extraction
// (absent, unchanged, use-default) as a tagged union, plus the widget modes
// that decide whether a field is extracted at all.
package marker
