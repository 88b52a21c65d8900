package schematic

import (
	"context"

	"github.com/google/uuid"
)

// Synthesizer provides the full schema pipeline: document lookup, validation,
// DDL generation, and optional application to a live database.
//
// Each invocation must operate on its own SchemaDocument instance; documents
// are not designed for concurrent mutation.
type Synthesizer interface {
	// Load retrieves a schema document from the configured registry.
	Load(name string) (*SchemaDocument, error)

	// Validate runs all checks over a document. It never fails; findings are
	// returned as diagnostics and the report carries the verdict.
	Validate(doc *SchemaDocument) *Report

	// Generate produces PostgreSQL DDL for a validated document. It returns
	// an UnvalidatedSchema error when the report carries error diagnostics.
	Generate(doc *SchemaDocument, report *Report) (string, error)

	// Apply executes the generated DDL against the configured database inside
	// a single transaction and returns the apply run ID.
	Apply(ctx context.Context, doc *SchemaDocument, report *Report) (uuid.UUID, error)
}
