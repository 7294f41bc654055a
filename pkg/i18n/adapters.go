package i18n

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path"
)

// TranslationAdapter loads translations from a source.
type TranslationAdapter interface {
	Load(ctx context.Context) (map[string]map[string]any, error)
}

// MapAdapter serves translations from an in-memory map.
type MapAdapter struct {
	Data map[string]map[string]any
}

func (a *MapAdapter) Load(_ context.Context) (map[string]map[string]any, error) {
	if a.Data == nil {
		return make(map[string]map[string]any), nil
	}
	return a.Data, nil
}

// FSAdapter loads every supported file of one directory in a file system
// (os.DirFS, embed.FS, fstest.MapFS) and merges them. Files are read in
// lexical order; later files override keys of earlier ones.
type FSAdapter struct {
	fsys    fs.FS
	dir     string
	parsers []Parser
}

// NewFSAdapter creates an adapter over dir in fsys. With no parsers given it
// understands YAML and JSON.
func NewFSAdapter(fsys fs.FS, dir string, parsers ...Parser) *FSAdapter {
	if len(parsers) == 0 {
		parsers = []Parser{NewYAMLParser(), NewJSONParser()}
	}
	if dir == "" {
		dir = "."
	}
	return &FSAdapter{fsys: fsys, dir: dir, parsers: parsers}
}

func (a *FSAdapter) Load(ctx context.Context) (map[string]map[string]any, error) {
	entries, err := fs.ReadDir(a.fsys, a.dir)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadDirectory, err)
	}

	all := make(map[string]map[string]any)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		parser := a.parserFor(entry.Name())
		if parser == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, errors.Join(ErrParsingCancelled, err)
		}

		name := path.Join(a.dir, entry.Name())
		content, err := fs.ReadFile(a.fsys, name)
		if err != nil {
			return nil, errors.Join(ErrFailedToReadFile, err)
		}
		if len(content) == 0 {
			continue
		}

		translations, err := parser.Parse(ctx, content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		for lang, tr := range translations {
			if all[lang] == nil {
				all[lang] = make(map[string]any, len(tr))
			}
			maps.Copy(all[lang], tr)
		}
	}

	if len(all) == 0 {
		return nil, fmt.Errorf("%w in %q", ErrNoTranslations, a.dir)
	}
	return all, nil
}

func (a *FSAdapter) parserFor(name string) Parser {
	ext := path.Ext(name)
	for _, p := range a.parsers {
		if p.SupportsFileExtension(ext) {
			return p
		}
	}
	return nil
}
