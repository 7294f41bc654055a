package i18n

import (
	"context"
	"path"
	"strings"
)

// Parser decodes a translation document into map[language]map[key]value.
type Parser interface {
	Parse(ctx context.Context, content []byte) (map[string]map[string]any, error)

	// SupportsFileExtension reports whether the parser handles ext, with or without a leading dot.
	SupportsFileExtension(ext string) bool
}

// NewParserForFile returns a parser chosen by file extension, or nil if none fits.
func NewParserForFile(filename string) Parser {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(filename), ".")) {
	case "json":
		return NewJSONParser()
	case "yaml", "yml":
		return NewYAMLParser()
	default:
		return nil
	}
}

// splitLanguages converts a decoded document into per-language maps.
// Top-level values that are not maps are reported through bad.
func splitLanguages(data map[string]any) (result map[string]map[string]any, bad string) {
	result = make(map[string]map[string]any, len(data))
	for lang, val := range data {
		transMap, ok := val.(map[string]any)
		if !ok {
			return nil, lang
		}
		result[lang] = transMap
	}
	return result, ""
}
