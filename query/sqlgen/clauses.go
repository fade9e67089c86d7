package sqlgen

// Predicate is one raw WHERE (or HAVING) fragment plus its positional
// parameter values. Fragments pass through verbatim; any OR logic lives
// inside a single fragment, the compiler only joins fragments with AND.
type Predicate struct {
	Fragment string
	Args     []any
}

// JoinKind selects the join flavor.
type JoinKind string

const (
	InnerJoin JoinKind = "INNER"
	LeftJoin  JoinKind = "LEFT"
	RightJoin JoinKind = "RIGHT"
)

// Join is one join specification: a target table expression and a raw
// ON condition.
type Join struct {
	Kind  JoinKind
	Table string
	On    string
}

// OrderBy is one ordering key.
type OrderBy struct {
	Column    string
	Direction string // "ASC" or "DESC"
}

// Clauses is the accumulated state of one query composition. Every slice
// is rendered in accumulation order; the compiler never reorders or
// deduplicates.
type Clauses struct {
	Columns    []string // custom projection; nil means all schema columns
	Predicates []Predicate
	Joins      []Join
	GroupBy    []string
	Having     *Predicate
	OrderBy    []OrderBy
	Limit      *int
	Offset     *int
}
