package internal

import (
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
)

var bareIdentPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

// quoteIdent renders an SQL identifier, quoting only when the name cannot
// stand bare. Bare-safe names pass through unchanged so generated DDL stays
// readable for conventional schemas.
func quoteIdent(name string) string {
	if bareIdentPattern.MatchString(name) {
		return name
	}
	return pgx.Identifier{name}.Sanitize()
}

// quoteIdentList renders a comma-separated identifier list.
func quoteIdentList(names []string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = quoteIdent(n)
	}
	return strings.Join(parts, ", ")
}

// sanitizeIdentifier always quotes, for identifiers interpolated into
// statements executed against a live database (e.g. the apply-log table).
func sanitizeIdentifier(name string) string {
	if name == "" {
		return ""
	}
	parts := strings.Split(name, ".")
	clean := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.Trim(part, " \"")
		if trimmed == "" {
			continue
		}
		clean = append(clean, trimmed)
	}
	if len(clean) == 0 {
		clean = []string{name}
	}
	return pgx.Identifier(clean).Sanitize()
}

// quoteLiteral renders a string as a single-quoted SQL literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
