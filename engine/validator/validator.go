// Package validator syntax-checks generated SQL fragments against a real
// parser for the target dialect. It is a translation safety net, not the
// security boundary: run it in tests or before caching a fragment, after the
// security validator has already passed the AST.
package validator

import (
	"fmt"
)

// probeQuery wraps a WHERE fragment so dialect parsers see a full statement
const probeQuery = "SELECT * FROM _filterql WHERE %s"

// ValidationResult contains detailed validation info
type ValidationResult struct {
	Valid    bool
	Error    string
	Position int // character position of the error, 0 when unknown
}

// ValidateFragment validates a WHERE fragment based on dialect
func ValidateFragment(fragment string, dialect string) error {
	switch dialect {
	case "PostgreSQL":
		return ValidatePostgreSQL(fragment)
	case "MySQL", "SQLite":
		// SQLite fragments use the same operator surface this toolkit emits
		// for MySQL, and no SQLite grammar is packaged
		return ValidateMySQL(fragment)
	default:
		return fmt.Errorf("unsupported dialect: %s", dialect)
	}
}

// ValidateFragmentWithDetails returns detailed validation result
func ValidateFragmentWithDetails(fragment string, dialect string) (*ValidationResult, error) {
	switch dialect {
	case "PostgreSQL":
		return ValidatePostgreSQLWithDetails(fragment)
	case "MySQL", "SQLite":
		return ValidateMySQLWithDetails(fragment)
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", dialect)
	}
}
