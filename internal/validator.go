package internal

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/datastrand/schematic"
)

// Validator runs the structural checks over a constructed SchemaDocument and
// accumulates findings as diagnostics. Checks run in a fixed order so that
// report ordering is reproducible:
//
//  1. primary key presence
//  2. primary key column existence
//  3. foreign key target existence
//  4. foreign key cycle detection
//  5. naming convention
//  6. jsonb indexed consistency
//
// Validation never fails with an error; the report carries the verdict.
type Validator struct {
	namingConvention string
	namingPattern    *regexp.Regexp
}

// NewValidator constructs a Validator from config. A nil config uses defaults.
func NewValidator(cfg *schematic.Config) (*Validator, error) {
	convention := "lower_snake_case"
	pattern := schematic.DefaultNamingPattern
	if cfg != nil {
		convention = cfg.Naming.Convention
		pattern = cfg.Naming.Pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &schematic.ConfigError{Field: "naming.pattern", Message: err.Error()}
	}
	return &Validator{namingConvention: convention, namingPattern: re}, nil
}

// Validate produces the ordered diagnostics report for a document.
func (v *Validator) Validate(doc *schematic.SchemaDocument) *schematic.Report {
	report := &schematic.Report{Document: doc.Name}

	v.checkPrimaryKeyPresence(doc, report)
	v.checkPrimaryKeyColumns(doc, report)
	resolved := v.checkForeignKeyTargets(doc, report)
	v.checkCycles(doc, resolved, report)
	v.checkNaming(doc, report)
	v.checkIndexedJSONB(doc, report)

	return report
}

func (v *Validator) checkPrimaryKeyPresence(doc *schematic.SchemaDocument, report *schematic.Report) {
	for i := range doc.Tables {
		table := &doc.Tables[i]
		if len(table.PrimaryKey) == 0 {
			report.Add(schematic.Diagnostic{
				Severity: schematic.SeverityError,
				Code:     schematic.DiagMissingPrimaryKey,
				Message:  "table declares no primary key",
				Table:    table.Name,
			})
		}
	}
}

func (v *Validator) checkPrimaryKeyColumns(doc *schematic.SchemaDocument, report *schematic.Report) {
	for i := range doc.Tables {
		table := &doc.Tables[i]
		for _, pkCol := range table.PrimaryKey {
			if _, ok := table.Column(pkCol); !ok {
				report.Add(schematic.Diagnostic{
					Severity: schematic.SeverityError,
					Code:     schematic.DiagInvalidPrimaryKeyColumn,
					Message:  fmt.Sprintf("primary key references non-existent column '%s'", pkCol),
					Table:    table.Name,
					Column:   pkCol,
				})
			}
		}
	}
}

// resolvedEdge is a foreign-key edge whose target table and columns exist.
type resolvedEdge struct {
	source string
	target string
	// allowSelf marks a self-referencing edge explicitly flagged as allowed.
	allowSelf bool
}

// checkForeignKeyTargets reports dangling foreign keys and returns only the
// edges whose endpoints resolve; dangling edges take no part in cycle
// detection.
func (v *Validator) checkForeignKeyTargets(doc *schematic.SchemaDocument, report *schematic.Report) []resolvedEdge {
	var edges []resolvedEdge

	for i := range doc.Tables {
		table := &doc.Tables[i]
		for _, fk := range table.ForeignKeys {
			dangling := false

			for _, col := range fk.Columns {
				if _, ok := table.Column(col); !ok {
					report.Add(schematic.Diagnostic{
						Severity: schematic.SeverityError,
						Code:     schematic.DiagDanglingForeignKey,
						Message:  fmt.Sprintf("foreign key source column '%s' does not exist", col),
						Table:    table.Name,
						Column:   col,
					})
					dangling = true
				}
			}

			target, ok := doc.Table(fk.TargetTable)
			if !ok {
				report.Add(schematic.Diagnostic{
					Severity: schematic.SeverityError,
					Code:     schematic.DiagDanglingForeignKey,
					Message:  fmt.Sprintf("foreign key references non-existent table '%s'", fk.TargetTable),
					Table:    table.Name,
					Column:   firstColumn(fk.Columns),
				})
				continue
			}

			for _, col := range fk.TargetColumns {
				if _, ok := target.Column(col); !ok {
					report.Add(schematic.Diagnostic{
						Severity: schematic.SeverityError,
						Code:     schematic.DiagDanglingForeignKey,
						Message:  fmt.Sprintf("foreign key references non-existent column '%s' in table '%s'", col, fk.TargetTable),
						Table:    table.Name,
						Column:   firstColumn(fk.Columns),
					})
					dangling = true
				}
			}

			if !dangling {
				edges = append(edges, resolvedEdge{
					source:    table.Name,
					target:    fk.TargetTable,
					allowSelf: fk.AllowSelfReference,
				})
			}
		}
	}
	return edges
}

// checkCycles runs iterative depth-first search with a three-color mark over
// the whole foreign-key graph. An explicit stack is used instead of recursion
// so that pathological schemas cannot exhaust stack depth. Self-loops count
// as cycles of length 1 unless the constraint is flagged allow_self_reference.
func (v *Validator) checkCycles(doc *schematic.SchemaDocument, edges []resolvedEdge, report *schematic.Report) {
	adjacency := make(map[string][]string, len(doc.Tables))
	for _, e := range edges {
		if e.source == e.target && e.allowSelf {
			continue
		}
		adjacency[e.source] = append(adjacency[e.source], e.target)
	}

	const (
		white uint8 = iota // unvisited
		grey               // in progress
		black              // done
	)
	color := make(map[string]uint8, len(doc.Tables))

	for i := range doc.Tables {
		start := doc.Tables[i].Name
		if color[start] != white {
			continue
		}

		stack := []dfsFrame{{table: start}}
		color[start] = grey

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			neighbors := adjacency[top.table]

			if top.nextEdge >= len(neighbors) {
				color[top.table] = black
				stack = stack[:len(stack)-1]
				continue
			}

			next := neighbors[top.nextEdge]
			top.nextEdge++

			switch color[next] {
			case white:
				color[next] = grey
				stack = append(stack, dfsFrame{table: next})
			case grey:
				report.Add(schematic.Diagnostic{
					Severity: schematic.SeverityError,
					Code:     schematic.DiagCircularForeignKey,
					Message:  "circular foreign key reference: " + cyclePath(stack, next),
					Table:    next,
				})
			}
		}
	}
}

type dfsFrame struct {
	table    string
	nextEdge int
}

// cyclePath renders the cycle closed by a back-edge to `entry` as
// "a -> b -> c -> a", using the in-progress portion of the DFS stack.
func cyclePath(stack []dfsFrame, entry string) string {
	startIdx := 0
	for i := range stack {
		if stack[i].table == entry {
			startIdx = i
			break
		}
	}
	var parts []string
	for _, f := range stack[startIdx:] {
		parts = append(parts, f.table)
	}
	parts = append(parts, entry)
	return strings.Join(parts, " -> ")
}

func (v *Validator) checkNaming(doc *schematic.SchemaDocument, report *schematic.Report) {
	for i := range doc.Tables {
		table := &doc.Tables[i]
		if !v.namingPattern.MatchString(table.Name) {
			report.Add(schematic.Diagnostic{
				Severity: schematic.SeverityWarning,
				Code:     schematic.DiagNamingViolation,
				Message:  fmt.Sprintf("table name does not match %s convention", v.namingConvention),
				Table:    table.Name,
			})
		}
		for _, col := range table.Columns {
			if !v.namingPattern.MatchString(col.Name) {
				report.Add(schematic.Diagnostic{
					Severity: schematic.SeverityWarning,
					Code:     schematic.DiagNamingViolation,
					Message:  fmt.Sprintf("column name does not match %s convention", v.namingConvention),
					Table:    table.Name,
					Column:   col.Name,
				})
			}
		}
	}
}

// checkIndexedJSONB verifies the indexed flag is internally consistent: every
// indexed jsonb column is paired with a generated GIN index by construction,
// so this pass cannot produce diagnostics. It is retained so the check order
// matches the documented report contract.
func (v *Validator) checkIndexedJSONB(doc *schematic.SchemaDocument, _ *schematic.Report) {
	for i := range doc.Tables {
		for _, col := range doc.Tables[i].Columns {
			_ = col.Indexed && col.Type == schematic.ColumnTypeJSONB
		}
	}
}

func firstColumn(cols []string) string {
	if len(cols) == 0 {
		return ""
	}
	return cols[0]
}
