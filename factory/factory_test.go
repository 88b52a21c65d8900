package factory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datastrand/schematic"
)

func TestNewSynthesizerWithNilConfigUsesDefaults(t *testing.T) {
	syn, err := NewSynthesizerWithConfig(nil, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, syn)

	doc := &schematic.SchemaDocument{
		Name: "shop",
		Tables: []schematic.TableDefinition{{
			Name:       "users",
			Columns:    []schematic.ColumnDefinition{{Name: "id", Type: schematic.ColumnTypeInteger, Nullable: true}},
			PrimaryKey: []string{"id"},
		}},
	}

	report := syn.Validate(doc)
	assert.True(t, report.Pass())

	ddl, err := syn.Generate(doc, report)
	require.NoError(t, err)
	assert.Contains(t, ddl, "CREATE TABLE users (id INTEGER);")
}

func TestNewSynthesizerRejectsInvalidConfig(t *testing.T) {
	cfg := schematic.DefaultConfig()
	cfg.Naming.Pattern = ""

	_, err := NewSynthesizerWithConfig(cfg, nil, nil)
	require.Error(t, err)

	var ce *schematic.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "naming.pattern", ce.Field)
}

func TestNewDirRegistry(t *testing.T) {
	dir := t.TempDir()
	schema := `{"tables": {"users": {"columns": {"id": "integer"}, "primary_key": ["id"]}}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shop.json"), []byte(schema), 0o644))

	registry, err := NewDirRegistry(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"shop"}, registry.ListDocuments())

	doc, err := registry.GetDocument("shop")
	require.NoError(t, err)
	assert.Equal(t, "shop", doc.Name)
}
