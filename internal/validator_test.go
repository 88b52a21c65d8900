package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datastrand/schematic"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator(schematic.DefaultConfig())
	require.NoError(t, err)
	return v
}

func simpleTable(name string, pk ...string) schematic.TableDefinition {
	return schematic.TableDefinition{
		Name: name,
		Columns: []schematic.ColumnDefinition{
			{Name: "id", Type: schematic.ColumnTypeInteger, Nullable: true},
			{Name: "email", Type: schematic.ColumnTypeText, Nullable: true},
		},
		PrimaryKey: pk,
	}
}

func fkTo(target string, allowSelf bool) schematic.ForeignKeyConstraint {
	return schematic.ForeignKeyConstraint{
		Columns:            []string{"id"},
		TargetTable:        target,
		TargetColumns:      []string{"id"},
		AllowSelfReference: allowSelf,
	}
}

func TestValidatePassesWithoutForeignKeys(t *testing.T) {
	v := newTestValidator(t)
	doc := &schematic.SchemaDocument{
		Name:   "clean",
		Tables: []schematic.TableDefinition{simpleTable("users", "id"), simpleTable("events", "id")},
	}

	report := v.Validate(doc)
	assert.True(t, report.Pass())
	assert.Empty(t, report.Diagnostics)
}

func TestValidateMissingPrimaryKeyOncePerTable(t *testing.T) {
	v := newTestValidator(t)
	doc := &schematic.SchemaDocument{
		Name: "nopk",
		Tables: []schematic.TableDefinition{
			simpleTable("users"),
			simpleTable("orders", "id"),
			simpleTable("events"),
		},
	}

	report := v.Validate(doc)
	assert.False(t, report.Pass())

	var missing []schematic.Diagnostic
	for _, d := range report.Diagnostics {
		if d.Code == schematic.DiagMissingPrimaryKey {
			missing = append(missing, d)
		}
	}
	require.Len(t, missing, 2)
	assert.Equal(t, "users", missing[0].Table)
	assert.Equal(t, "events", missing[1].Table)
}

func TestValidateInvalidPrimaryKeyColumn(t *testing.T) {
	v := newTestValidator(t)
	doc := &schematic.SchemaDocument{
		Name:   "badpk",
		Tables: []schematic.TableDefinition{simpleTable("users", "id", "missing_col")},
	}

	report := v.Validate(doc)
	assert.False(t, report.Pass())
	require.Len(t, report.Errors(), 1)

	d := report.Errors()[0]
	assert.Equal(t, schematic.DiagInvalidPrimaryKeyColumn, d.Code)
	assert.Equal(t, "users", d.Table)
	assert.Equal(t, "missing_col", d.Column)
}

func TestValidateDanglingForeignKeySkipsCycleCheck(t *testing.T) {
	v := newTestValidator(t)
	orders := simpleTable("orders", "id")
	orders.ForeignKeys = []schematic.ForeignKeyConstraint{fkTo("custmers", false)}
	doc := &schematic.SchemaDocument{Name: "dangling", Tables: []schematic.TableDefinition{orders}}

	report := v.Validate(doc)
	require.Len(t, report.Errors(), 1)
	assert.Equal(t, schematic.DiagDanglingForeignKey, report.Errors()[0].Code)
	assert.Equal(t, "orders", report.Errors()[0].Table)

	for _, d := range report.Diagnostics {
		assert.NotEqual(t, schematic.DiagCircularForeignKey, d.Code)
	}
}

func TestValidateDanglingTargetColumn(t *testing.T) {
	v := newTestValidator(t)
	users := simpleTable("users", "id")
	orders := simpleTable("orders", "id")
	orders.ForeignKeys = []schematic.ForeignKeyConstraint{{
		Columns:       []string{"id"},
		TargetTable:   "users",
		TargetColumns: []string{"uuid"},
	}}
	doc := &schematic.SchemaDocument{Name: "dangling_col", Tables: []schematic.TableDefinition{users, orders}}

	report := v.Validate(doc)
	require.Len(t, report.Errors(), 1)
	assert.Equal(t, schematic.DiagDanglingForeignKey, report.Errors()[0].Code)
	assert.Contains(t, report.Errors()[0].Message, "uuid")
}

func TestValidateSelfReferenceCycle(t *testing.T) {
	v := newTestValidator(t)

	categories := simpleTable("categories", "id")
	categories.ForeignKeys = []schematic.ForeignKeyConstraint{fkTo("categories", false)}
	doc := &schematic.SchemaDocument{Name: "selfref", Tables: []schematic.TableDefinition{categories}}

	report := v.Validate(doc)
	require.Len(t, report.Errors(), 1)
	assert.Equal(t, schematic.DiagCircularForeignKey, report.Errors()[0].Code)
	assert.Contains(t, report.Errors()[0].Message, "categories -> categories")
}

func TestValidateSelfReferenceAllowed(t *testing.T) {
	v := newTestValidator(t)

	categories := simpleTable("categories", "id")
	categories.ForeignKeys = []schematic.ForeignKeyConstraint{fkTo("categories", true)}
	doc := &schematic.SchemaDocument{Name: "selfref_ok", Tables: []schematic.TableDefinition{categories}}

	report := v.Validate(doc)
	assert.True(t, report.Pass())
	assert.Empty(t, report.Diagnostics)
}

func TestValidateTwoTableCycle(t *testing.T) {
	v := newTestValidator(t)

	a := simpleTable("a", "id")
	a.ForeignKeys = []schematic.ForeignKeyConstraint{fkTo("b", false)}
	b := simpleTable("b", "id")
	b.ForeignKeys = []schematic.ForeignKeyConstraint{fkTo("a", false)}
	doc := &schematic.SchemaDocument{Name: "pair", Tables: []schematic.TableDefinition{a, b}}

	report := v.Validate(doc)
	require.Len(t, report.Errors(), 1)
	assert.Equal(t, schematic.DiagCircularForeignKey, report.Errors()[0].Code)
	assert.Contains(t, report.Errors()[0].Message, "a -> b -> a")
}

func TestValidateThreeTableCycleNamesAllTables(t *testing.T) {
	v := newTestValidator(t)

	a := simpleTable("a", "id")
	a.ForeignKeys = []schematic.ForeignKeyConstraint{fkTo("b", false)}
	b := simpleTable("b", "id")
	b.ForeignKeys = []schematic.ForeignKeyConstraint{fkTo("c", false)}
	c := simpleTable("c", "id")
	c.ForeignKeys = []schematic.ForeignKeyConstraint{fkTo("a", false)}
	doc := &schematic.SchemaDocument{Name: "triangle", Tables: []schematic.TableDefinition{a, b, c}}

	report := v.Validate(doc)
	require.Len(t, report.Errors(), 1)

	d := report.Errors()[0]
	assert.Equal(t, schematic.DiagCircularForeignKey, d.Code)
	assert.Equal(t, "circular foreign key reference: a -> b -> c -> a", d.Message)
}

func TestValidateAcyclicChainPasses(t *testing.T) {
	v := newTestValidator(t)

	a := simpleTable("a", "id")
	a.ForeignKeys = []schematic.ForeignKeyConstraint{fkTo("b", false)}
	b := simpleTable("b", "id")
	b.ForeignKeys = []schematic.ForeignKeyConstraint{fkTo("c", false)}
	c := simpleTable("c", "id")
	doc := &schematic.SchemaDocument{Name: "chain", Tables: []schematic.TableDefinition{a, b, c}}

	report := v.Validate(doc)
	assert.True(t, report.Pass())
}

func TestValidateNamingViolationsAreWarnings(t *testing.T) {
	v := newTestValidator(t)
	doc := &schematic.SchemaDocument{
		Name: "naming",
		Tables: []schematic.TableDefinition{{
			Name: "Feature_Store",
			Columns: []schematic.ColumnDefinition{
				{Name: "id", Type: schematic.ColumnTypeInteger},
				{Name: "CreatedAt", Type: schematic.ColumnTypeTimestamp},
			},
			PrimaryKey: []string{"id"},
		}},
	}

	report := v.Validate(doc)
	assert.True(t, report.Pass(), "naming violations must not block")
	require.Len(t, report.Warnings(), 2)
	assert.Equal(t, schematic.DiagNamingViolation, report.Warnings()[0].Code)
	assert.Equal(t, "Feature_Store", report.Warnings()[0].Table)
	assert.Equal(t, "CreatedAt", report.Warnings()[1].Column)
}

func TestValidateCustomNamingPattern(t *testing.T) {
	cfg := schematic.DefaultConfig()
	cfg.Naming.Convention = "upper_camel"
	cfg.Naming.Pattern = `^[A-Z][A-Za-z0-9]*$`
	v, err := NewValidator(cfg)
	require.NoError(t, err)

	doc := &schematic.SchemaDocument{
		Name: "custom",
		Tables: []schematic.TableDefinition{{
			Name:       "Users",
			Columns:    []schematic.ColumnDefinition{{Name: "Id", Type: schematic.ColumnTypeInteger}},
			PrimaryKey: []string{"Id"},
		}},
	}

	report := v.Validate(doc)
	assert.True(t, report.Pass())
	assert.Empty(t, report.Warnings())
}

func TestValidateDiagnosticOrderIsStable(t *testing.T) {
	v := newTestValidator(t)

	// One table with a missing PK and a bad name: the missing-PK error must
	// come before the naming warning regardless of severity.
	bad := schematic.TableDefinition{
		Name:    "BadTable",
		Columns: []schematic.ColumnDefinition{{Name: "id", Type: schematic.ColumnTypeInteger}},
	}
	doc := &schematic.SchemaDocument{Name: "order", Tables: []schematic.TableDefinition{bad}}

	report := v.Validate(doc)
	require.Len(t, report.Diagnostics, 2)
	assert.Equal(t, schematic.DiagMissingPrimaryKey, report.Diagnostics[0].Code)
	assert.Equal(t, schematic.DiagNamingViolation, report.Diagnostics[1].Code)
}

func TestNewValidatorRejectsBadPattern(t *testing.T) {
	cfg := schematic.DefaultConfig()
	cfg.Naming.Pattern = "["
	_, err := NewValidator(cfg)
	require.Error(t, err)
}
