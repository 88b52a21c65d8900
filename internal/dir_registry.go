package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/datastrand/schematic"
)

// dirRegistry is a DocumentRegistry implementation that loads schema
// documents from JSON and YAML files in a directory. The document name is the
// file name without extension. Documents are parsed once at construction.
type dirRegistry struct {
	mu   sync.RWMutex
	dir  string
	docs map[string]*schematic.SchemaDocument
}

// NewDirRegistry creates a registry over a directory of *.json, *.yaml and
// *.yml schema files. Construction fails if any file cannot be parsed.
func NewDirRegistry(dir string) (schematic.DocumentRegistry, error) {
	registry := &dirRegistry{
		dir:  dir,
		docs: make(map[string]*schematic.SchemaDocument),
	}
	if err := registry.load(); err != nil {
		return nil, err
	}
	return registry, nil
}

func (r *dirRegistry) load() error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("failed to read schema directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if _, exists := r.docs[name]; exists {
			zap.S().Warnw("duplicate schema document name, keeping first",
				"name", name, "file", entry.Name())
			continue
		}

		path := filepath.Join(r.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read schema file %s: %w", path, err)
		}

		var doc *schematic.SchemaDocument
		if ext == ".json" {
			doc, err = schematic.FromJSON(name, data)
		} else {
			doc, err = schematic.FromYAML(name, data)
		}
		if err != nil {
			return fmt.Errorf("failed to parse schema file %s: %w", path, err)
		}
		r.docs[name] = doc
	}
	return nil
}

func (r *dirRegistry) GetDocument(name string) (*schematic.SchemaDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[name]
	if !ok {
		return nil, schematic.NewDocumentNotFoundError(name)
	}
	return doc, nil
}

func (r *dirRegistry) ListDocuments() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.docs))
	for name := range r.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
