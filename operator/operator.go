package operator

// Operator is the pull-based iterator protocol every node in a query plan
// implements. Open must be called before Next; Next is called repeatedly
// until it returns false; Close releases resources whether or not the
// operator was drained. Output returns the row Next just produced — it is
// only valid after a Next call that returned true.
type Operator interface {
	Open() error
	Next() (bool, error)
	Close() error
	Output() Tuple
}

// PredicateKind selects which shape of Select predicate to evaluate.
type PredicateKind int

const (
	PredAttrConstInt PredicateKind = iota
	PredAttrConstString
	PredAttrAttr
)

// PredicateOp selects the comparison a Predicate applies. String predicates
// only ever use OpEQ; int and attr-attr predicates support the full set.
type PredicateOp int

const (
	OpEQ PredicateOp = iota
	OpNE
	OpLT
	OpLE
	OpGT
	OpGE
)

// Predicate is the filter a Select operator evaluates against each input
// tuple.
type Predicate struct {
	Kind PredicateKind
	Op   PredicateOp

	Attr     int
	ConstInt int64
	ConstStr string

	Attr2 int // only used by PredAttrAttr
}

// Eval reports whether tuple satisfies the predicate.
func (p Predicate) Eval(t Tuple) bool {
	switch p.Kind {
	case PredAttrConstInt:
		if t[p.Attr].Kind != KindInt {
			return false
		}
		return evalOp(p.Op, t[p.Attr].I, p.ConstInt)
	case PredAttrConstString:
		return t[p.Attr].Kind == KindChar16 && t[p.Attr].AsString() == p.ConstStr
	case PredAttrAttr:
		return evalRegisterOp(p.Op, t[p.Attr], t[p.Attr2])
	default:
		return false
	}
}

// evalOp applies a PredicateOp to two ordered int64 operands.
func evalOp(op PredicateOp, a, b int64) bool {
	switch op {
	case OpEQ:
		return a == b
	case OpNE:
		return a != b
	case OpLT:
		return a < b
	case OpLE:
		return a <= b
	case OpGT:
		return a > b
	case OpGE:
		return a >= b
	default:
		return false
	}
}

// evalRegisterOp applies a PredicateOp to two registers of the same kind,
// via Register.Equal/Less so int and Char16 attr-attr predicates both work.
func evalRegisterOp(op PredicateOp, a, b Register) bool {
	switch op {
	case OpEQ:
		return a.Equal(b)
	case OpNE:
		return !a.Equal(b)
	case OpLT:
		return a.Less(b)
	case OpLE:
		return a.Equal(b) || a.Less(b)
	case OpGT:
		return b.Less(a)
	case OpGE:
		return a.Equal(b) || b.Less(a)
	default:
		return false
	}
}

// SortCriterion orders by Attr, ascending unless Desc is set. Sort applies
// criteria left to right as a full lexicographic comparison, not just the
// first.
type SortCriterion struct {
	Attr int
	Desc bool
}

// AggrKind selects an aggregate function for HashAggregation.
type AggrKind int

const (
	AggrSum AggrKind = iota
	AggrCount
	AggrMin
	AggrMax
)

// AggrFunc names one output aggregate: the function and the attribute it
// reads from (ignored for AggrCount, which counts rows).
type AggrFunc struct {
	Kind AggrKind
	Attr int
}
