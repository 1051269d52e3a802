package operator

// Union, Intersect, and Except implement set relational algebra: each
// distinct tuple appears in the output at most once. UnionAll,
// IntersectAll, and ExceptAll implement the bag variants, preserving
// multiplicities. All six operate over whole tuples — every register is
// hashed and compared — rather than the source system's set/bag operators,
// which only ever look at attribute 0.
type setOp int

const (
	opUnion setOp = iota
	opIntersect
	opExcept
)

type setCombiner struct {
	left, right Operator
	op          setOp
	all         bool // bag semantics (preserve multiplicity) vs set semantics

	rows []Tuple
	pos  int
	cur  Tuple
}

func newSetCombiner(left, right Operator, op setOp, all bool) *setCombiner {
	return &setCombiner{left: left, right: right, op: op, all: all}
}

func drain(op Operator) (map[string]Tuple, map[string]int, error) {
	if err := op.Open(); err != nil {
		return nil, nil, err
	}
	examples := make(map[string]Tuple)
	counts := make(map[string]int)
	for {
		ok, err := op.Next()
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			break
		}
		t := op.Output()
		k := t.key()
		if _, seen := examples[k]; !seen {
			examples[k] = append(Tuple(nil), t...)
		}
		counts[k]++
	}
	return examples, counts, op.Close()
}

func (s *setCombiner) Open() error {
	leftEx, leftCt, err := drain(s.left)
	if err != nil {
		return err
	}
	rightEx, rightCt, err := drain(s.right)
	if err != nil {
		return err
	}

	s.rows = s.rows[:0]
	switch s.op {
	case opUnion:
		emit := func(ex map[string]Tuple, ct map[string]int) {
			for k, t := range ex {
				n := 1
				if s.all {
					n = ct[k]
				}
				for i := 0; i < n; i++ {
					s.rows = append(s.rows, t)
				}
			}
		}
		emit(leftEx, leftCt)
		if s.all {
			emit(rightEx, rightCt)
		} else {
			for k, t := range rightEx {
				if _, ok := leftEx[k]; !ok {
					s.rows = append(s.rows, t)
				}
			}
		}
	case opIntersect:
		for k, t := range leftEx {
			if _, ok := rightEx[k]; !ok {
				continue
			}
			n := 1
			if s.all {
				n = min(leftCt[k], rightCt[k])
			}
			for i := 0; i < n; i++ {
				s.rows = append(s.rows, t)
			}
		}
	case opExcept:
		for k, t := range leftEx {
			n := 1
			if s.all {
				n = leftCt[k] - rightCt[k]
			} else if _, ok := rightEx[k]; ok {
				n = 0
			}
			for i := 0; i < n; i++ {
				s.rows = append(s.rows, t)
			}
		}
	}
	s.pos = 0
	return nil
}

func (s *setCombiner) Next() (bool, error) {
	if s.pos >= len(s.rows) {
		s.cur = nil
		return false, nil
	}
	s.cur = s.rows[s.pos]
	s.pos++
	return true, nil
}

func (s *setCombiner) Close() error {
	s.rows = nil
	return nil
}

func (s *setCombiner) Output() Tuple { return s.cur }

func NewUnion(left, right Operator) Operator     { return newSetCombiner(left, right, opUnion, false) }
func NewUnionAll(left, right Operator) Operator  { return newSetCombiner(left, right, opUnion, true) }
func NewIntersect(left, right Operator) Operator { return newSetCombiner(left, right, opIntersect, false) }
func NewIntersectAll(left, right Operator) Operator {
	return newSetCombiner(left, right, opIntersect, true)
}
func NewExcept(left, right Operator) Operator    { return newSetCombiner(left, right, opExcept, false) }
func NewExceptAll(left, right Operator) Operator { return newSetCombiner(left, right, opExcept, true) }
