package schematic

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// metaSchemaJSON is a deliberately loose JSON Schema for the raw input
// document: it pins down the coarse shape (tables mapping, column specs,
// foreign key records) and leaves the specific failures to the binder, which
// produces more precise MalformedDocument messages.
const metaSchemaJSON = `{
  "type": "object",
  "required": ["tables"],
  "properties": {
    "tables": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "columns": {"type": "object"},
          "primary_key": {
            "anyOf": [
              {"type": "string"},
              {"type": "array", "items": {"type": "string"}}
            ]
          },
          "foreign_keys": {
            "type": "array",
            "items": {"type": "object"}
          },
          "partition": {"type": "object"}
        }
      }
    }
  }
}`

// ValidateDocumentShape checks a plainly-decoded input document (maps, slices
// and scalars) against the embedded meta-schema. It accepts raw JSON bytes, a
// JSON string, or an already-decoded value.
func ValidateDocumentShape(input any) error {
	var dataToValidate any
	switch d := input.(type) {
	case []byte:
		if err := json.Unmarshal(d, &dataToValidate); err != nil {
			return NewMalformedDocumentError("invalid JSON: " + err.Error()).WithCause(err)
		}
	case string:
		if err := json.Unmarshal([]byte(d), &dataToValidate); err != nil {
			return NewMalformedDocumentError("invalid JSON: " + err.Error()).WithCause(err)
		}
	default:
		dataToValidate = d
	}

	var schema jsonschema.Schema
	if err := json.Unmarshal([]byte(metaSchemaJSON), &schema); err != nil {
		return fmt.Errorf("failed to unmarshal meta-schema: %w", err)
	}
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return fmt.Errorf("failed to resolve meta-schema: %w", err)
	}

	if err := resolved.Validate(dataToValidate); err != nil {
		return NewMalformedDocumentError("document shape check failed: " + err.Error()).WithCause(err)
	}
	return nil
}
