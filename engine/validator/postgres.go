package validator

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v5"
)

// ValidatePostgreSQL validates a WHERE fragment with the PostgreSQL grammar.
// Bound-parameter placeholders ($1, $2, ...) parse as-is.
func ValidatePostgreSQL(fragment string) error {
	_, err := pg_query.Parse(fmt.Sprintf(probeQuery, fragment))
	return err
}

// ValidatePostgreSQLWithDetails returns detailed validation result
func ValidatePostgreSQLWithDetails(fragment string) (*ValidationResult, error) {
	_, err := pg_query.Parse(fmt.Sprintf(probeQuery, fragment))
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Error: err.Error(),
		}, nil
	}

	return &ValidationResult{Valid: true}, nil
}
