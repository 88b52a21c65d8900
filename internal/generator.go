package internal

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/datastrand/schematic"
)

// Generator translates a validated SchemaDocument into PostgreSQL DDL.
// Generation is deterministic: the same document always yields byte-identical
// output.
type Generator struct {
	separator string
}

// NewGenerator constructs a Generator from config. A nil config uses defaults.
func NewGenerator(cfg *schematic.Config) *Generator {
	separator := ";\n\n"
	if cfg != nil && cfg.Generator.StatementSeparator != "" {
		separator = cfg.Generator.StatementSeparator
	}
	return &Generator{separator: separator}
}

// Generate produces the full DDL text for a validated document. The report
// must come from a validation pass over the same document; generation is
// refused while error-severity diagnostics are outstanding.
func (g *Generator) Generate(doc *schematic.SchemaDocument, report *schematic.Report) (string, error) {
	statements, err := g.Statements(doc, report)
	if err != nil {
		return "", err
	}
	if len(statements) == 0 {
		return "", nil
	}
	return strings.Join(statements, g.separator) + ";\n", nil
}

// Statements produces the ordered DDL statements (without trailing
// semicolons) for a validated document. Emission order per table:
// CREATE TABLE, primary key constraint, foreign key constraints, GIN indexes
// for indexed jsonb columns.
func (g *Generator) Statements(doc *schematic.SchemaDocument, report *schematic.Report) ([]string, error) {
	if report == nil {
		return nil, schematic.NewSchematicError(schematic.ErrorTypeGeneration,
			schematic.ErrCodeUnvalidatedSchema, "document has not been validated; generation refused")
	}
	if errs := report.Errors(); len(errs) > 0 {
		return nil, schematic.NewUnvalidatedSchemaError(len(errs))
	}

	var statements []string
	for i := range doc.Tables {
		table := &doc.Tables[i]

		createStmt, err := g.createTable(table)
		if err != nil {
			return nil, err
		}
		statements = append(statements, createStmt)

		if len(table.PrimaryKey) > 0 {
			statements = append(statements, fmt.Sprintf(
				"ALTER TABLE %s ADD CONSTRAINT %s PRIMARY KEY (%s)",
				quoteIdent(table.Name),
				quoteIdent("pk_"+table.Name),
				quoteIdentList(table.PrimaryKey),
			))
		}

		for _, fk := range table.ForeignKeys {
			constraint := fmt.Sprintf("fk_%s_%s_%s", table.Name, fk.Columns[0], fk.TargetTable)
			statements = append(statements, fmt.Sprintf(
				"ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
				quoteIdent(table.Name),
				quoteIdent(constraint),
				quoteIdentList(fk.Columns),
				quoteIdent(fk.TargetTable),
				quoteIdentList(fk.TargetColumns),
			))
		}

		for _, col := range table.Columns {
			if col.Type == schematic.ColumnTypeJSONB && col.Indexed {
				indexName := fmt.Sprintf("ix_%s_%s_gin", table.Name, col.Name)
				statements = append(statements, fmt.Sprintf(
					"CREATE INDEX %s ON %s USING GIN (%s)",
					quoteIdent(indexName),
					quoteIdent(table.Name),
					quoteIdent(col.Name),
				))
			}
		}
	}
	return statements, nil
}

func (g *Generator) createTable(table *schematic.TableDefinition) (string, error) {
	defs := make([]string, 0, len(table.Columns))
	for _, col := range table.Columns {
		def, err := g.columnDef(table.Name, col)
		if err != nil {
			return "", err
		}
		defs = append(defs, def)
	}

	stmt := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table.Name), strings.Join(defs, ", "))
	if table.Partition != nil {
		stmt += fmt.Sprintf(" PARTITION BY %s (%s)", table.Partition.Strategy, quoteIdent(table.Partition.KeyColumn))
	}
	return stmt, nil
}

func (g *Generator) columnDef(tableName string, col schematic.ColumnDefinition) (string, error) {
	typeName, ok := MapColumnTypeToPostgres(col.Type)
	if !ok {
		// Unreachable for documents built through the constructors.
		return "", schematic.NewSchematicError(schematic.ErrorTypeGeneration,
			schematic.ErrCodeInternalError, fmt.Sprintf("unmapped column type '%s'", col.Type)).
			WithTable(tableName).WithColumn(col.Name)
	}

	var b strings.Builder
	b.WriteString(quoteIdent(col.Name))
	b.WriteString(" ")
	b.WriteString(typeName)
	if !col.Nullable {
		b.WriteString(" NOT NULL")
	}
	if col.Default != nil {
		b.WriteString(" DEFAULT ")
		b.WriteString(renderDefault(col.Default))
	}
	return b.String(), nil
}

// sqlExprPattern matches defaults that are SQL expressions rather than plain
// string values: function calls such as now() or gen_random_uuid().
var sqlExprPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*\(.*\)$`)

var sqlKeywordDefaults = map[string]struct{}{
	"CURRENT_TIMESTAMP": {},
	"CURRENT_DATE":      {},
	"CURRENT_TIME":      {},
	"NULL":              {},
}

// renderDefault renders a column default as an SQL literal. Strings that look
// like SQL expressions (function calls, CURRENT_TIMESTAMP and friends) are
// emitted verbatim; everything else is quoted or formatted by scalar type.
func renderDefault(v any) string {
	switch d := v.(type) {
	case bool:
		if d {
			return "TRUE"
		}
		return "FALSE"
	case int:
		return strconv.Itoa(d)
	case int64:
		return strconv.FormatInt(d, 10)
	case float64:
		return strconv.FormatFloat(d, 'g', -1, 64)
	case json.Number:
		return d.String()
	case string:
		if _, ok := sqlKeywordDefaults[strings.ToUpper(d)]; ok {
			return strings.ToUpper(d)
		}
		if sqlExprPattern.MatchString(d) {
			return d
		}
		return quoteLiteral(d)
	default:
		return quoteLiteral(fmt.Sprintf("%v", d))
	}
}
