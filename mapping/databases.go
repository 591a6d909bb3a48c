package mapping

// SupportedDialects lists all translation targets FilterQL supports.
// Callers must use these exact names in their dialect field.
var SupportedDialects = []string{
	"PostgreSQL",
	"MySQL",
	"SQLite",
	"MongoDB",
	"Redis",
}

// IsSupportedDialect checks if a translation target is supported
func IsSupportedDialect(dialect string) bool {
	for _, d := range SupportedDialects {
		if d == dialect {
			return true
		}
	}
	return false
}
