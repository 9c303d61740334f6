package form

import "github.com/goliatone/go-formbind/pkg/marker"

// Data is the ordered snapshot produced by one extraction pass.
type Data struct {
	order  []string
	values map[string]marker.Value
}

// NewData creates an empty snapshot.
func NewData() *Data {
	return &Data{values: make(map[string]marker.Value)}
}

// Set records value for identifier, keeping first-insertion order.
func (d *Data) Set(identifier string, value marker.Value) {
	if _, exists := d.values[identifier]; !exists {
		d.order = append(d.order, identifier)
	}
	d.values[identifier] = value
}

// Get returns the value recorded for identifier. Missing identifiers read as
// Absent.
func (d *Data) Get(identifier string) (marker.Value, bool) {
	if d == nil {
		return marker.Absent(), false
	}
	value, ok := d.values[identifier]
	return value, ok
}

// Default resolves the default of field against f.
func (d *Data) Default(field Field, f *Form) marker.Value {
	return field.Default(f)
}

// GetWithDefault returns the recorded value, resolving Absent on optional
// fields to the field default.
func (d *Data) GetWithDefault(field Field, f *Form) marker.Value {
	value, _ := d.Get(field.Identifier())
	if value.Kind() == marker.KindAbsent && !field.Required() {
		return d.Default(field, f)
	}
	return value
}

// Identifiers returns the recorded identifiers in order.
func (d *Data) Identifiers() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.order...)
}

// Len returns the number of recorded identifiers.
func (d *Data) Len() int {
	if d == nil {
		return 0
	}
	return len(d.order)
}

// Values returns the present values only, as composite factories expect.
func (d *Data) Values() map[string]any {
	out := make(map[string]any)
	if d == nil {
		return out
	}
	for _, id := range d.order {
		if raw, ok := d.values[id].Get(); ok {
			out[id] = raw
		}
	}
	return out
}
