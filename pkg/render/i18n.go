package render

import (
	"errors"
	"strings"
)

// ErrMissingTranslator is passed to the missing handler when no translator
// is configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves message keys for a locale. Field titles, descriptions,
// error messages and action titles are used as keys.
type Translator interface {
	Translate(locale, key string) (string, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(locale, key string) (string, error)

func (fn TranslatorFunc) Translate(locale, key string) (string, error) { return fn(locale, key) }

// MapTranslator is an in-memory catalog keyed by locale then message.
type MapTranslator map[string]map[string]string

func (m MapTranslator) Translate(locale, key string) (string, error) {
	if msg, ok := m[locale][key]; ok {
		return msg, nil
	}
	return "", errors.New("render: no translation for " + locale + ":" + key)
}

// MissingTranslationHandler picks the text used when a key cannot be
// translated.
type MissingTranslationHandler func(locale, key string, err error) string

func missingTranslationDefault(_, key string, _ error) string { return key }

type localizer struct {
	locale     string
	translator Translator
	onMissing  MissingTranslationHandler
}

func (l localizer) active() bool { return l.translator != nil && l.locale != "" }

func (l localizer) text(key string) string {
	if strings.TrimSpace(key) == "" || !l.active() {
		return key
	}
	result, err := l.translator.Translate(l.locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	onMissing := l.onMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	return onMissing(l.locale, key, err)
}

// localize translates the user facing strings of one widget payload.
func (l localizer) localize(data map[string]any) {
	if !l.active() {
		return
	}
	for _, key := range []string{"title", "description", "error"} {
		if s, ok := data[key].(string); ok && s != "" {
			data[key] = l.text(s)
		}
	}
	if choices, ok := data["choices"].([]map[string]any); ok {
		for _, choice := range choices {
			if s, ok := choice["title"].(string); ok {
				choice["title"] = l.text(s)
			}
		}
	}
}
