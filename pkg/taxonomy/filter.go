package taxonomy

import "strings"

// Query accumulates a SQL fragment together with its bound arguments.
// Filters render themselves into a Query; user input is always bound,
// never concatenated into the SQL text.
type Query struct {
	sb   strings.Builder
	args []any
}

// Push appends literal SQL text.
func (q *Query) Push(s string) {
	q.sb.WriteString(s)
}

// Bind appends a placeholder and records its argument.
func (q *Query) Bind(v any) {
	q.sb.WriteString("?")
	q.args = append(q.args, v)
}

// SQL returns the accumulated SQL text.
func (q *Query) SQL() string {
	return q.sb.String()
}

// Args returns the bound arguments in placeholder order.
func (q *Query) Args() []any {
	return q.args
}

// Filter is one condition, or a compound of conditions, that can be
// rendered into a query.
type Filter interface {
	Apply(q *Query)
}

// Cmp is the comparison operator of a field filter.
type Cmp int

const (
	CmpEqual Cmp = iota
	CmpNotEqual
	CmpLike
)

func (c Cmp) String() string {
	switch c {
	case CmpNotEqual:
		return " IS NOT "
	case CmpLike:
		return " LIKE "
	default:
		return " IS "
	}
}

// Op joins the conditions of a compound filter.
type Op int

const (
	OpAnd Op = iota
	OpOr
)

// Compound is one or more conditions combined by a single logical
// operator. Compounds nest to build larger filter conditions.
type Compound struct {
	op    Op
	parts []Filter
}

// And combines filters so that all of them must hold.
func And(parts ...Filter) *Compound {
	return &Compound{op: OpAnd, parts: parts}
}

// Or combines filters so that any of them may hold.
func Or(parts ...Filter) *Compound {
	return &Compound{op: OpOr, parts: parts}
}

// Add appends another condition to the compound.
func (c *Compound) Add(f Filter) *Compound {
	c.parts = append(c.parts, f)
	return c
}

func (c *Compound) Apply(q *Query) {
	if len(c.parts) == 0 {
		q.Push("TRUE")
		return
	}
	sep := " AND "
	if c.op == OpOr {
		sep = " OR "
	}
	q.Push("(")
	for i, part := range c.parts {
		if i > 0 {
			q.Push(sep)
		}
		part.Apply(q)
	}
	q.Push(")")
}

// field is a single-column condition. The column names carry the table
// aliases used by the resolver's taxon query: T for taxonomic_units,
// V for vernaculars, M for the native-status table.
type field struct {
	column string
	cmp    Cmp
	value  any
}

func (f field) Apply(q *Query) {
	q.Push(f.column)
	q.Push(f.cmp.String())
	q.Bind(f.value)
}

// ByID filters on the taxon identifier.
func ByID(id int64) Filter {
	return field{column: "T.tsn", cmp: CmpEqual, value: id}
}

// ByParent filters on the parent taxon identifier.
func ByParent(id int64) Filter {
	return field{column: "T.parent_tsn", cmp: CmpEqual, value: id}
}

// ByRank filters on the numeric rank code.
func ByRank(r Rank) Filter {
	return field{column: "T.rank_id", cmp: CmpEqual, value: int64(r)}
}

// GenusIs matches the genus component exactly (case-insensitive per
// SQLite LIKE semantics for ASCII).
func GenusIs(s string) Filter {
	return field{column: "T.unit_name1", cmp: CmpLike, value: s}
}

// SpeciesIs matches the species component exactly.
func SpeciesIs(s string) Filter {
	return field{column: "T.unit_name2", cmp: CmpLike, value: s}
}

// NameContains matches a substring against the nth name component
// (1-based).
func NameContains(n int, s string) Filter {
	col := [...]string{"T.unit_name1", "T.unit_name2", "T.unit_name3"}[n-1]
	return field{column: col, cmp: CmpLike, value: "%" + s + "%"}
}

// VernacularContains matches a substring against aggregated common names.
func VernacularContains(s string) Filter {
	return field{column: "V.vernacular_name", cmp: CmpLike, value: "%" + s + "%"}
}

// nativeOnly restricts results to taxa present (or absent) in the
// native-status table.
type nativeOnly bool

func (f nativeOnly) Apply(q *Query) {
	if bool(f) {
		q.Push("M.tsn IS NOT NULL")
	} else {
		q.Push("M.tsn IS NULL")
	}
}

// HasNativeStatus filters on presence in the native-status table.
func HasNativeStatus(present bool) Filter {
	return nativeOnly(present)
}

// AnyName builds the loose filter used for search: the string may occur
// in any name component or in a common name.
func AnyName(s string) Filter {
	return Or(
		NameContains(1, s),
		NameContains(2, s),
		NameContains(3, s),
		VernacularContains(s),
	)
}

// LimitSpec caps the number of returned rows, optionally with an offset.
type LimitSpec struct {
	Count  int
	Offset int
}
