package internal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/datastrand/schematic"
)

// DDLPool is the narrow database surface the applier needs. It is satisfied
// by *pgxpool.Pool and by pgxmock pools in tests.
type DDLPool interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Applier executes generated DDL statements against PostgreSQL. All
// statements of one run execute inside a single transaction; when an
// apply-log table is configured, the run is recorded there before commit.
type Applier struct {
	pool     DDLPool
	logTable string
	nowFunc  func() time.Time
}

// NewApplier constructs an Applier. A nil config uses defaults.
func NewApplier(pool DDLPool, cfg *schematic.Config) *Applier {
	logTable := ""
	if cfg != nil {
		logTable = cfg.Apply.ApplyLogTable
	}
	return &Applier{
		pool:     pool,
		logTable: logTable,
		nowFunc:  time.Now,
	}
}

func (a *Applier) withClock(now func() time.Time) {
	if now == nil {
		return
	}
	a.nowFunc = now
}

// Apply executes the statements in order inside one transaction and returns
// the run ID recorded in the apply log.
func (a *Applier) Apply(ctx context.Context, doc *schematic.SchemaDocument, statements []string) (uuid.UUID, error) {
	if len(statements) == 0 {
		return uuid.Nil, schematic.NewApplyError("no statements to apply", nil)
	}

	runID, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, schematic.NewApplyError("failed to create run id", err)
	}

	tx, err := a.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return uuid.Nil, schematic.NewApplyError("failed to begin transaction", err)
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			_ = tx.Rollback(ctx)
			return uuid.Nil, schematic.NewApplyError(
				fmt.Sprintf("statement %d of %d failed", i+1, len(statements)), err)
		}
	}

	if a.logTable != "" {
		query := fmt.Sprintf(
			`INSERT INTO %s (run_id, document_name, statement_count, applied_at) VALUES ($1, $2, $3, $4)`,
			sanitizeIdentifier(a.logTable),
		)
		appliedAt := a.nowFunc().UnixMilli()
		if _, err := tx.Exec(ctx, query, runID, doc.Name, len(statements), appliedAt); err != nil {
			_ = tx.Rollback(ctx)
			return uuid.Nil, schematic.NewApplyError("failed to record apply run", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, schematic.NewApplyError("failed to commit transaction", err)
	}

	zap.S().Infow("applied schema document",
		"document", doc.Name,
		"run_id", runID,
		"statements", len(statements),
	)
	return runID, nil
}
