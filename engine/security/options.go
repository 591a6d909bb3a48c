package security

import "time"

// Options is the rule set shared by the execution validator and the
// incremental pre-check. Immutable after construction; a zero limit means
// unbounded unless a compiled-in default exists.
type Options struct {
	// Field rules. DeniedFields always block; AllowedFields blocks anything
	// absent when the list is non-empty.
	AllowedFields []string
	DeniedFields  []string

	// DeniedValues blocks specific values per field
	DeniedValues map[string][]string

	// DisableDotNotation rejects "table.column" style field names
	DisableDotNotation bool

	// Complexity limits
	MaxQueryDepth  int
	MaxClauseCount int

	// Value limits
	MaxValueLength int
	MaxArraySize   int

	// Wildcard-pattern limits for LIKE values. Runs of repeated wildcards
	// collapse to one before counting, then the count and the
	// wildcard-to-length ratio are checked. Thresholds are heuristics, not
	// invariants; tune them per deployment.
	MaxWildcards     int
	MaxWildcardRatio float64

	// Result sizing, passed through to the execution adapter
	DefaultLimit int
	MaxLimit     int

	// QueryTimeout is enforced by the execution adapter, not the engine
	QueryTimeout time.Duration
}

// DefaultOptions returns the compiled-in limits
func DefaultOptions() *Options {
	return &Options{
		MaxQueryDepth:    10,
		MaxClauseCount:   50,
		MaxValueLength:   1000,
		MaxArraySize:     100,
		MaxWildcards:     5,
		MaxWildcardRatio: 0.5,
		DefaultLimit:     100,
		MaxLimit:         1000,
		QueryTimeout:     30 * time.Second,
	}
}

// withDefaults fills unset limits so rule checks can assume concrete values
func (o *Options) withDefaults() *Options {
	if o == nil {
		return DefaultOptions()
	}
	out := *o
	if out.MaxQueryDepth == 0 {
		out.MaxQueryDepth = 10
	}
	if out.MaxClauseCount == 0 {
		out.MaxClauseCount = 50
	}
	if out.MaxLimit == 0 {
		out.MaxLimit = 1000
	}
	if out.MaxWildcards == 0 {
		out.MaxWildcards = 5
	}
	if out.MaxWildcardRatio == 0 {
		out.MaxWildcardRatio = 0.5
	}
	return &out
}
