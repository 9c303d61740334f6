package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrNoSuchField is returned when the target has no attribute for an
	// identifier.
	ErrNoSuchField = errors.New("form: no such field")
	// ErrNotSettable is returned when an attribute exists but cannot be
	// written.
	ErrNotSettable = errors.New("form: field not settable")
)

// DataManager reads and writes field values on one target object.
type DataManager interface {
	Get(identifier string) (any, error)
	Set(identifier string, value any) error
	Content() any
}

// Preparer is implemented by managers that can check a write without
// performing it. Actions stage every write through CanSet first.
type Preparer interface {
	CanSet(identifier string, value any) error
}

// NewDataManager picks the manager for content: managers pass through, maps
// use DictData and everything else ObjectData.
func NewDataManager(content any) DataManager {
	switch c := content.(type) {
	case DataManager:
		return c
	case map[string]any:
		return NewDictData(c)
	default:
		return NewObjectData(c)
	}
}

// DictData manages a map[string]any.
type DictData struct {
	values map[string]any
}

var (
	_ DataManager = (*DictData)(nil)
	_ Preparer    = (*DictData)(nil)
)

// NewDictData wraps values. A nil map is replaced by an empty one.
func NewDictData(values map[string]any) *DictData {
	if values == nil {
		values = make(map[string]any)
	}
	return &DictData{values: values}
}

func (d *DictData) Get(identifier string) (any, error) {
	value, ok := d.values[identifier]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchField, identifier)
	}
	return value, nil
}

func (d *DictData) Set(identifier string, value any) error {
	d.values[identifier] = value
	return nil
}

func (d *DictData) CanSet(string, any) error { return nil }

func (d *DictData) Content() any { return d.values }

// ObjectData manages the exported fields of a struct. Identifiers match the
// `form` tag first, then the field name case-insensitively. Writes need a
// pointer to a struct.
type ObjectData struct {
	content any
}

var (
	_ DataManager = (*ObjectData)(nil)
	_ Preparer    = (*ObjectData)(nil)
)

// NewObjectData wraps content.
func NewObjectData(content any) *ObjectData {
	return &ObjectData{content: content}
}

func (d *ObjectData) Content() any { return d.content }

func (d *ObjectData) Get(identifier string) (any, error) {
	fv, err := d.field(identifier)
	if err != nil {
		return nil, err
	}
	return fv.Interface(), nil
}

func (d *ObjectData) CanSet(identifier string, value any) error {
	fv, err := d.settable(identifier)
	if err != nil {
		return err
	}
	_, err = assignable(value, fv.Type())
	if err != nil {
		return fmt.Errorf("form: field %q: %w", identifier, err)
	}
	return nil
}

func (d *ObjectData) Set(identifier string, value any) error {
	fv, err := d.settable(identifier)
	if err != nil {
		return err
	}
	converted, err := assignable(value, fv.Type())
	if err != nil {
		return fmt.Errorf("form: field %q: %w", identifier, err)
	}
	fv.Set(converted)
	return nil
}

func (d *ObjectData) settable(identifier string) (reflect.Value, error) {
	fv, err := d.field(identifier)
	if err != nil {
		return reflect.Value{}, err
	}
	if !fv.CanSet() {
		return reflect.Value{}, fmt.Errorf("%w: %q", ErrNotSettable, identifier)
	}
	return fv, nil
}

func (d *ObjectData) field(identifier string) (reflect.Value, error) {
	rv := reflect.ValueOf(d.content)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("form: content is nil")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("form: content %T is not a struct", d.content)
	}

	rt := rv.Type()
	byName := -1
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(sf.Tag.Get("form"), ",")
		if tag == "-" {
			continue
		}
		if tag == identifier {
			return rv.Field(i), nil
		}
		if tag == "" && byName < 0 && strings.EqualFold(sf.Name, identifier) {
			byName = i
		}
	}
	if byName >= 0 {
		return rv.Field(byName), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %q", ErrNoSuchField, identifier)
}

// assignable converts value to t. nil becomes the zero value. Numeric
// conversions are allowed; integer to string is not.
func assignable(value any, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	if t.Kind() == reflect.Pointer && rv.Type().AssignableTo(t.Elem()) {
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(rv)
		return ptr, nil
	}
	if t.Kind() == reflect.String && rv.Kind() != reflect.String {
		return reflect.Value{}, fmt.Errorf("cannot assign %T to %s", value, t)
	}
	if rv.Type().ConvertibleTo(t) {
		return rv.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot assign %T to %s", value, t)
}
