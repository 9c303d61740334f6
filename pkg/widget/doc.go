// Package widget pairs fields with a form for one request: widgets compute
// the transport representation of a value and template data, extractors parse
// the submission back into marker values. Registry picks both through
// priority ordered matchers and implements form.ExtractorLookup.
package widget
