package schematic

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// mapping is an order-preserving string-keyed map. JSON and YAML loaders bind
// into this so that table and column declaration order survives decoding;
// plain map[string]any input is normalized by sorting keys instead.
type mapping struct {
	keys   []string
	values map[string]any
}

func newMapping() *mapping {
	return &mapping{values: make(map[string]any)}
}

func (m *mapping) set(key string, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *mapping) get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// FromJSON constructs a SchemaDocument from a JSON document. Object key order
// is preserved as declaration order.
func FromJSON(name string, data []byte) (*SchemaDocument, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	value, err := decodeJSONValue(dec)
	if err != nil {
		return nil, NewMalformedDocumentError("invalid JSON: " + err.Error()).WithCause(err)
	}
	// Trailing garbage after the document is an error.
	if _, err := dec.Token(); err != io.EOF {
		return nil, NewMalformedDocumentError("trailing content after JSON document")
	}
	return bindDocument(name, value)
}

// FromYAML constructs a SchemaDocument from a YAML document. Mapping key order
// is preserved as declaration order.
func FromYAML(name string, data []byte) (*SchemaDocument, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, NewMalformedDocumentError("invalid YAML: " + err.Error()).WithCause(err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, NewMalformedDocumentError("empty document")
	}
	value, err := yamlNodeValue(root.Content[0])
	if err != nil {
		return nil, err
	}
	return bindDocument(name, value)
}

// FromMap constructs a SchemaDocument from an in-memory mapping. Go maps carry
// no order, so table and column order falls back to sorted names.
func FromMap(name string, raw map[string]any) (*SchemaDocument, error) {
	return bindDocument(name, normalizeMap(raw))
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeJSONToken(dec, tok)
}

func decodeJSONToken(dec *json.Decoder, tok json.Token) (any, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := newMapping()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string")
				}
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				m.set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return m, nil
		case '[':
			var seq []any
			for dec.More() {
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				seq = append(seq, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return seq, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return tok, nil
	}
}

func yamlNodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		m := newMapping()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode := n.Content[i]
			var key string
			if err := keyNode.Decode(&key); err != nil {
				return nil, NewMalformedDocumentError("mapping key is not a string").WithCause(err)
			}
			val, err := yamlNodeValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.set(key, val)
		}
		return m, nil
	case yaml.SequenceNode:
		var seq []any
		for _, c := range n.Content {
			val, err := yamlNodeValue(c)
			if err != nil {
				return nil, err
			}
			seq = append(seq, val)
		}
		return seq, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, NewMalformedDocumentError("invalid scalar value").WithCause(err)
		}
		return v, nil
	case yaml.AliasNode:
		return yamlNodeValue(n.Alias)
	default:
		return nil, NewMalformedDocumentError(fmt.Sprintf("unsupported YAML node kind %d", n.Kind))
	}
}

func normalizeMap(raw map[string]any) *mapping {
	m := newMapping()
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m.set(k, normalizeValue(raw[k]))
	}
	return m
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return normalizeMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	default:
		return v
	}
}

func bindDocument(name string, value any) (*SchemaDocument, error) {
	root, ok := value.(*mapping)
	if !ok {
		return nil, NewMalformedDocumentError("document root must be a mapping")
	}

	tablesRaw, ok := root.get("tables")
	if !ok {
		return nil, NewMalformedDocumentError("document has no 'tables' key")
	}
	tables, ok := tablesRaw.(*mapping)
	if !ok {
		return nil, NewMalformedDocumentError("'tables' must be a mapping of table name to table spec")
	}

	doc := &SchemaDocument{Name: name}
	for _, tableName := range tables.keys {
		spec, ok := tables.values[tableName].(*mapping)
		if !ok {
			return nil, NewMalformedDocumentError("table spec must be a mapping").WithTable(tableName)
		}
		table, err := bindTable(tableName, spec)
		if err != nil {
			return nil, err
		}
		doc.Tables = append(doc.Tables, *table)
	}
	return doc, nil
}

func bindTable(name string, spec *mapping) (*TableDefinition, error) {
	table := &TableDefinition{Name: name}

	columnsRaw, ok := spec.get("columns")
	if !ok {
		return nil, NewMalformedDocumentError("table has no 'columns' field").WithTable(name)
	}
	columns, ok := columnsRaw.(*mapping)
	if !ok {
		return nil, NewMalformedDocumentError("'columns' must be a mapping of column name to column spec").WithTable(name)
	}
	for _, colName := range columns.keys {
		col, err := bindColumn(name, colName, columns.values[colName])
		if err != nil {
			return nil, err
		}
		table.Columns = append(table.Columns, *col)
	}

	if pkRaw, ok := spec.get("primary_key"); ok {
		pk, err := asStringSlice(pkRaw)
		if err != nil {
			return nil, NewMalformedDocumentError("'primary_key' must be a sequence of column names").WithTable(name)
		}
		table.PrimaryKey = pk
	}

	if fksRaw, ok := spec.get("foreign_keys"); ok {
		fkSeq, ok := fksRaw.([]any)
		if !ok {
			return nil, NewMalformedDocumentError("'foreign_keys' must be a sequence").WithTable(name)
		}
		for _, fkRaw := range fkSeq {
			fk, err := bindForeignKey(name, fkRaw)
			if err != nil {
				return nil, err
			}
			table.ForeignKeys = append(table.ForeignKeys, *fk)
		}
	}

	if partRaw, ok := spec.get("partition"); ok {
		part, err := bindPartition(name, partRaw)
		if err != nil {
			return nil, err
		}
		table.Partition = part
	}

	return table, nil
}

func bindColumn(table, name string, raw any) (*ColumnDefinition, error) {
	col := &ColumnDefinition{Name: name, Nullable: true}

	// Shorthand: a bare scalar is the type name.
	if typeName, ok := raw.(string); ok {
		colType, ok := ParseColumnType(typeName)
		if !ok {
			return nil, NewUnknownColumnTypeError(table, name, typeName)
		}
		col.Type = colType
		return col, nil
	}

	spec, ok := raw.(*mapping)
	if !ok {
		return nil, NewMalformedDocumentError("column spec must be a mapping or a type name").
			WithTable(table).WithColumn(name)
	}

	typeRaw, ok := spec.get("type")
	if !ok {
		return nil, NewMalformedDocumentError("column has no 'type' field").
			WithTable(table).WithColumn(name)
	}
	typeName, ok := typeRaw.(string)
	if !ok {
		return nil, NewMalformedDocumentError("column 'type' must be a string").
			WithTable(table).WithColumn(name)
	}
	colType, ok := ParseColumnType(typeName)
	if !ok {
		return nil, NewUnknownColumnTypeError(table, name, typeName)
	}
	col.Type = colType

	if v, ok := spec.get("nullable"); ok {
		b, ok := v.(bool)
		if !ok {
			return nil, NewMalformedDocumentError("column 'nullable' must be a boolean").
				WithTable(table).WithColumn(name)
		}
		col.Nullable = b
	}
	if v, ok := spec.get("default"); ok {
		col.Default = v
	}
	if v, ok := spec.get("indexed"); ok {
		b, ok := v.(bool)
		if !ok {
			return nil, NewMalformedDocumentError("column 'indexed' must be a boolean").
				WithTable(table).WithColumn(name)
		}
		col.Indexed = b
	}
	return col, nil
}

func bindForeignKey(table string, raw any) (*ForeignKeyConstraint, error) {
	spec, ok := raw.(*mapping)
	if !ok {
		return nil, NewMalformedDocumentError("foreign key spec must be a mapping").WithTable(table)
	}

	fk := &ForeignKeyConstraint{}

	colsRaw, ok := spec.get("columns")
	if !ok {
		return nil, NewMalformedDocumentError("foreign key has no 'columns' field").WithTable(table)
	}
	cols, err := asStringSlice(colsRaw)
	if err != nil || len(cols) == 0 {
		return nil, NewMalformedDocumentError("foreign key 'columns' must be a non-empty sequence of column names").WithTable(table)
	}
	fk.Columns = cols

	targetRaw, ok := spec.get("target_table")
	if !ok {
		return nil, NewMalformedDocumentError("foreign key has no 'target_table' field").WithTable(table)
	}
	target, ok := targetRaw.(string)
	if !ok || target == "" {
		return nil, NewMalformedDocumentError("foreign key 'target_table' must be a non-empty string").WithTable(table)
	}
	fk.TargetTable = target

	targetColsRaw, ok := spec.get("target_columns")
	if !ok {
		return nil, NewMalformedDocumentError("foreign key has no 'target_columns' field").WithTable(table)
	}
	targetCols, err := asStringSlice(targetColsRaw)
	if err != nil || len(targetCols) == 0 {
		return nil, NewMalformedDocumentError("foreign key 'target_columns' must be a non-empty sequence of column names").WithTable(table)
	}
	fk.TargetColumns = targetCols

	if len(fk.Columns) != len(fk.TargetColumns) {
		return nil, NewMalformedDocumentError(
			fmt.Sprintf("foreign key has %d source column(s) but %d target column(s)", len(fk.Columns), len(fk.TargetColumns)),
		).WithTable(table)
	}

	if v, ok := spec.get("allow_self_reference"); ok {
		b, ok := v.(bool)
		if !ok {
			return nil, NewMalformedDocumentError("foreign key 'allow_self_reference' must be a boolean").WithTable(table)
		}
		fk.AllowSelfReference = b
	}
	return fk, nil
}

func bindPartition(table string, raw any) (*PartitionSpec, error) {
	spec, ok := raw.(*mapping)
	if !ok {
		return nil, NewMalformedDocumentError("'partition' must be a mapping").WithTable(table)
	}

	strategyRaw, ok := spec.get("strategy")
	if !ok {
		return nil, NewMalformedDocumentError("partition has no 'strategy' field").WithTable(table)
	}
	strategy, ok := strategyRaw.(string)
	if !ok {
		return nil, NewMalformedDocumentError("partition 'strategy' must be a string").WithTable(table)
	}
	if !strings.EqualFold(strategy, string(PartitionStrategyRange)) {
		return nil, NewMalformedDocumentError(fmt.Sprintf("unsupported partition strategy '%s'", strategy)).WithTable(table)
	}

	keyRaw, ok := spec.get("key_column")
	if !ok {
		return nil, NewMalformedDocumentError("partition has no 'key_column' field").WithTable(table)
	}
	key, ok := keyRaw.(string)
	if !ok || key == "" {
		return nil, NewMalformedDocumentError("partition 'key_column' must be a non-empty string").WithTable(table)
	}

	return &PartitionSpec{Strategy: PartitionStrategyRange, KeyColumn: key}, nil
}

func asStringSlice(raw any) ([]string, error) {
	switch v := raw.(type) {
	case string:
		return []string{v}, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", e)
			}
			out = append(out, s)
		}
		return out, nil
	case []string:
		return v, nil
	default:
		return nil, fmt.Errorf("expected sequence of strings, got %T", raw)
	}
}
