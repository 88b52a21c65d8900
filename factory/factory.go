// Package factory provides the public constructors for wiring a schematic
// pipeline from config, a document registry and an optional database pool.
package factory

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/datastrand/schematic"
	"github.com/datastrand/schematic/internal"
)

// NewSynthesizerWithConfig creates a Synthesizer with the provided
// configuration, registry and database pool. This is the primary way for
// external projects to obtain the pipeline facade.
//
// Usage:
//
//	config := schematic.DefaultConfig()
//	registry, err := factory.NewDirRegistry("./schemas")
//	if err != nil {
//	    // handle error
//	}
//	syn, err := factory.NewSynthesizerWithConfig(config, registry, pool)
//
// Registry may be nil when documents are constructed directly; pool may be
// nil when Apply is not needed.
func NewSynthesizerWithConfig(config *schematic.Config, registry schematic.DocumentRegistry, pool *pgxpool.Pool) (schematic.Synthesizer, error) {
	if config == nil {
		config = schematic.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	var ddlPool internal.DDLPool
	if pool != nil {
		ddlPool = pool
	}
	return internal.NewSynthesizer(config, registry, ddlPool)
}

// NewDirRegistry creates a DocumentRegistry over a directory of *.json,
// *.yaml and *.yml schema files.
func NewDirRegistry(dir string) (schematic.DocumentRegistry, error) {
	return internal.NewDirRegistry(dir)
}
