package vocabulary

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type fileDocument struct {
	Vocabularies map[string][]fileTerm `yaml:"vocabularies"`
}

type fileTerm struct {
	Token string `yaml:"token"`
	Value any    `yaml:"value"`
	Title string `yaml:"title"`
}

// Parse decodes a YAML (or JSON) vocabulary document:
//
//	vocabularies:
//	  colors:
//	    - token: red
//	      title: Red
//	    - token: blue
//	      value: 2
//
// A missing value defaults to the token.
func Parse(data []byte) (map[string]*Simple, error) {
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("vocabulary: decode document: %w", err)
	}

	out := make(map[string]*Simple, len(doc.Vocabularies))
	for name, entries := range doc.Vocabularies {
		key := normalizeName(name)
		if key == "" {
			return nil, fmt.Errorf("vocabulary: document defines an empty vocabulary name")
		}
		terms := make([]Term, 0, len(entries))
		for _, entry := range entries {
			value := entry.Value
			if value == nil {
				value = entry.Token
			}
			terms = append(terms, Term{Token: entry.Token, Value: value, Title: entry.Title})
		}
		v, err := NewSimple(terms...)
		if err != nil {
			return nil, fmt.Errorf("vocabulary: %q: %w", key, err)
		}
		out[key] = v
	}
	return out, nil
}

// LoadFS walks fsys and registers every vocabulary defined in .yaml, .yml
// or .json files. Duplicate names across files are an error.
func LoadFS(fsys fs.FS, registry *Registry) error {
	if fsys == nil || registry == nil {
		return nil
	}

	var paths []string
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isVocabularyFile(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("vocabulary: walk: %w", err)
	}
	sort.Strings(paths)

	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("vocabulary: read %s: %w", path, err)
		}
		parsed, err := Parse(data)
		if err != nil {
			return fmt.Errorf("%w (file %s)", err, path)
		}
		names := make([]string, 0, len(parsed))
		for name := range parsed {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if err := registry.RegisterVocabulary(name, parsed[name]); err != nil {
				return fmt.Errorf("%w (file %s)", err, path)
			}
		}
	}
	return nil
}

func isVocabularyFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}
