package validator

import (
	"fmt"

	"github.com/xwb1989/sqlparser"
)

// ValidateMySQL validates a WHERE fragment with the MySQL grammar.
// ? placeholders parse as value arguments.
func ValidateMySQL(fragment string) error {
	_, err := sqlparser.Parse(fmt.Sprintf(probeQuery, fragment))
	return err
}

// ValidateMySQLWithDetails returns detailed validation result
func ValidateMySQLWithDetails(fragment string) (*ValidationResult, error) {
	_, err := sqlparser.Parse(fmt.Sprintf(probeQuery, fragment))
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Error: err.Error(),
		}, nil
	}

	return &ValidationResult{Valid: true}, nil
}
