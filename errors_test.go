package schematic

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchematicErrorFormatting(t *testing.T) {
	err := NewUnknownColumnTypeError("users", "id", "varchar")
	assert.Equal(t, "[construction:UNKNOWN_COLUMN_TYPE] table 'users', column 'id': unknown column type 'varchar'", err.Error())

	err = NewMalformedDocumentError("document has no 'tables' key").WithTable("users")
	assert.Equal(t, "[construction:MALFORMED_DOCUMENT] table 'users': document has no 'tables' key", err.Error())

	err = NewDocumentNotFoundError("shop")
	assert.Equal(t, "[registry:DOCUMENT_NOT_FOUND] schema document 'shop' not found", err.Error())
}

func TestSchematicErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewApplyError("failed to commit transaction", cause)

	assert.ErrorIs(t, err, cause)
	wrapped := fmt.Errorf("apply: %w", err)

	var se *SchematicError
	require.ErrorAs(t, wrapped, &se)
	assert.Equal(t, ErrorTypeApply, se.Type)
}

func TestErrorPredicates(t *testing.T) {
	assert.True(t, IsMalformedDocument(NewMalformedDocumentError("bad")))
	assert.True(t, IsMalformedDocument(NewUnknownColumnTypeError("t", "c", "x")))
	assert.False(t, IsMalformedDocument(NewDocumentNotFoundError("x")))
	assert.False(t, IsMalformedDocument(errors.New("plain")))

	assert.True(t, IsUnvalidatedSchema(NewUnvalidatedSchemaError(2)))
	assert.False(t, IsUnvalidatedSchema(NewMalformedDocumentError("bad")))

	assert.True(t, IsDocumentNotFound(NewDocumentNotFoundError("x")))
	assert.False(t, IsDocumentNotFound(NewApplyError("x", nil)))
}
