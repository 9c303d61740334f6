// Package request turns HTTP submissions into form input.
package request

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formbind/pkg/form"
)

// ActionField is the reserved top-level JSON key naming the submitted action.
const ActionField = "_action"

// ObjectMarker is the value recorded under an object field's own key so
// object extractors see the field as submitted.
const ObjectMarker = "1"

// ErrUnsupportedBody is returned for bodies FromJSON cannot flatten.
var ErrUnsupportedBody = errors.New("request: json body must be an object")

// Values adapts url.Values to form.Input.
type Values url.Values

var _ form.Input = Values(nil)

func (v Values) Lookup(key string) ([]string, bool) {
	values, ok := v[key]
	return values, ok
}

// FromJSON decodes a JSON object and flattens it into raw input keys under
// prefix. Nested objects become nested field keys with a presence marker,
// arrays become repeated values and null members are skipped.
func FromJSON(r io.Reader, prefix string) (form.MapInput, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var body any
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("request: decode json: %w", err)
	}
	object, ok := body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w, got %T", ErrUnsupportedBody, body)
	}

	input := form.MapInput{}
	if name, ok := object[ActionField].(string); ok && name != "" {
		input[actionKey(prefix, name)] = []string{name}
		delete(object, ActionField)
	}
	if err := flatten(input, prefix, object); err != nil {
		return nil, err
	}
	return input, nil
}

// FromHTTP reads the submission of r. JSON bodies go through FromJSON, every
// other content type through the parsed form values.
func FromHTTP(r *http.Request, prefix string) (form.Input, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		defer r.Body.Close()
		return FromJSON(r.Body, prefix)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return nil, fmt.Errorf("request: parse multipart: %w", err)
		}
	default:
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("request: parse form: %w", err)
		}
	}
	return Values(r.Form), nil
}

func flatten(input form.MapInput, prefix string, object map[string]any) error {
	names := make([]string, 0, len(object))
	for name := range object {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		key := fieldKey(prefix, name)
		switch value := object[name].(type) {
		case nil:
		case map[string]any:
			input[key] = []string{ObjectMarker}
			if err := flatten(input, key, value); err != nil {
				return err
			}
		case []any:
			values := make([]string, 0, len(value))
			for _, item := range value {
				s, err := scalar(item)
				if err != nil {
					return fmt.Errorf("request: %s: %w", key, err)
				}
				values = append(values, s)
			}
			input[key] = values
		default:
			s, err := scalar(value)
			if err != nil {
				return fmt.Errorf("request: %s: %w", key, err)
			}
			input[key] = []string{s}
		}
	}
	return nil
}

func scalar(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("unsupported value %T", value)
	}
}

// fieldKey mirrors form.Form.Key.
func fieldKey(prefix, identifier string) string {
	if prefix == "" {
		return identifier
	}
	return prefix + ".field." + identifier
}

func actionKey(prefix, identifier string) string {
	if prefix == "" {
		return "action." + identifier
	}
	return prefix + ".action." + identifier
}
