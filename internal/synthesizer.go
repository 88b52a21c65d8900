package internal

import (
	"context"

	"github.com/google/uuid"

	"github.com/datastrand/schematic"
)

// Synthesizer ties the registry, validator, generator and applier together
// behind the schematic.Synthesizer interface.
type Synthesizer struct {
	cfg       *schematic.Config
	registry  schematic.DocumentRegistry
	validator *Validator
	generator *Generator
	applier   *Applier
}

// NewSynthesizer constructs the pipeline facade. Registry and pool are both
// optional: without a registry Load fails, without a pool Apply fails.
func NewSynthesizer(cfg *schematic.Config, registry schematic.DocumentRegistry, pool DDLPool) (*Synthesizer, error) {
	validator, err := NewValidator(cfg)
	if err != nil {
		return nil, err
	}
	s := &Synthesizer{
		cfg:       cfg,
		registry:  registry,
		validator: validator,
		generator: NewGenerator(cfg),
	}
	if pool != nil {
		s.applier = NewApplier(pool, cfg)
	}
	return s, nil
}

func (s *Synthesizer) Load(name string) (*schematic.SchemaDocument, error) {
	if s.registry == nil {
		return nil, schematic.NewSchematicError(schematic.ErrorTypeRegistry,
			schematic.ErrCodeDocumentNotFound, "no document registry configured")
	}
	return s.registry.GetDocument(name)
}

func (s *Synthesizer) Validate(doc *schematic.SchemaDocument) *schematic.Report {
	return s.validator.Validate(doc)
}

func (s *Synthesizer) Generate(doc *schematic.SchemaDocument, report *schematic.Report) (string, error) {
	return s.generator.Generate(doc, report)
}

func (s *Synthesizer) Apply(ctx context.Context, doc *schematic.SchemaDocument, report *schematic.Report) (uuid.UUID, error) {
	if s.applier == nil {
		return uuid.Nil, schematic.NewApplyError("no database pool configured", nil)
	}
	statements, err := s.generator.Statements(doc, report)
	if err != nil {
		return uuid.Nil, err
	}
	return s.applier.Apply(ctx, doc, statements)
}
