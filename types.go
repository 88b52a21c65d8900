package schematic

// ColumnType represents supported logical column types.
type ColumnType string

const (
	ColumnTypeInteger   ColumnType = "integer"
	ColumnTypeBigInt    ColumnType = "bigint"
	ColumnTypeText      ColumnType = "text"
	ColumnTypeBoolean   ColumnType = "boolean"
	ColumnTypeTimestamp ColumnType = "timestamp"
	ColumnTypeJSONB     ColumnType = "jsonb"
	ColumnTypeUUID      ColumnType = "uuid"
	ColumnTypeNumeric   ColumnType = "numeric"
)

// ParseColumnType maps a raw type string to a ColumnType. The second return
// value is false when the type is not part of the allowed enumeration.
func ParseColumnType(raw string) (ColumnType, bool) {
	switch ColumnType(raw) {
	case ColumnTypeInteger, ColumnTypeBigInt, ColumnTypeText, ColumnTypeBoolean,
		ColumnTypeTimestamp, ColumnTypeJSONB, ColumnTypeUUID, ColumnTypeNumeric:
		return ColumnType(raw), true
	default:
		return "", false
	}
}

// PartitionStrategy represents supported declarative partitioning strategies.
type PartitionStrategy string

const (
	PartitionStrategyRange PartitionStrategy = "RANGE"
)

// ColumnDefinition describes a single column of a table.
type ColumnDefinition struct {
	Name     string     `json:"name"`
	Type     ColumnType `json:"type"`
	Nullable bool       `json:"nullable"`
	Default  any        `json:"default,omitempty"`
	// Indexed marks a jsonb column for GIN index generation.
	Indexed bool `json:"indexed,omitempty"`
}

// ForeignKeyConstraint describes a foreign key from the owning table to a
// target table. Columns and TargetColumns are positionally paired.
type ForeignKeyConstraint struct {
	Columns            []string `json:"columns"`
	TargetTable        string   `json:"target_table"`
	TargetColumns      []string `json:"target_columns"`
	AllowSelfReference bool     `json:"allow_self_reference,omitempty"`
}

// PartitionSpec describes declarative partitioning for a table. Partition
// creation and attachment are operational concerns outside this library.
type PartitionSpec struct {
	Strategy  PartitionStrategy `json:"strategy"`
	KeyColumn string            `json:"key_column"`
}

// TableDefinition describes one table: its columns in declaration order, the
// primary key column set, foreign keys, and an optional partition spec.
type TableDefinition struct {
	Name        string                 `json:"name"`
	Columns     []ColumnDefinition     `json:"columns"`
	PrimaryKey  []string               `json:"primary_key"`
	ForeignKeys []ForeignKeyConstraint `json:"foreign_keys,omitempty"`
	Partition   *PartitionSpec         `json:"partition,omitempty"`
}

// Column returns the column with the given name, if present.
func (t *TableDefinition) Column(name string) (*ColumnDefinition, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// SchemaDocument is the root entity: a named, ordered collection of table
// definitions. Documents are constructed once and treated as read-only by the
// validator and the generator; they are not safe for concurrent mutation.
type SchemaDocument struct {
	Name   string            `json:"name"`
	Tables []TableDefinition `json:"tables"`
}

// Table returns the table with the given name, if present.
func (d *SchemaDocument) Table(name string) (*TableDefinition, bool) {
	for i := range d.Tables {
		if d.Tables[i].Name == name {
			return &d.Tables[i], true
		}
	}
	return nil, false
}

// Severity classifies a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// DiagnosticCode is a stable, machine-readable finding code.
type DiagnosticCode string

const (
	DiagMissingPrimaryKey       DiagnosticCode = "MISSING_PRIMARY_KEY"
	DiagInvalidPrimaryKeyColumn DiagnosticCode = "INVALID_PRIMARY_KEY_COLUMN"
	DiagDanglingForeignKey      DiagnosticCode = "DANGLING_FOREIGN_KEY"
	DiagCircularForeignKey      DiagnosticCode = "CIRCULAR_FOREIGN_KEY"
	DiagNamingViolation         DiagnosticCode = "NAMING_VIOLATION"
)

// Diagnostic is a single validator finding.
type Diagnostic struct {
	Severity Severity       `json:"severity"`
	Code     DiagnosticCode `json:"code"`
	Message  string         `json:"message"`
	Table    string         `json:"table,omitempty"`
	Column   string         `json:"column,omitempty"`
}
