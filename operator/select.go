package operator

// Select streams only the input tuples satisfying pred. Unlike the source
// system's select (which returns true with an empty output tuple for a
// non-matching row, pushing the "did it match" decision onto the caller),
// this loops internally until it finds a match or exhausts input, so a
// non-matching row is never visible to whatever pulls from Select.
type Select struct {
	input Operator
	pred  Predicate
	cur   Tuple
}

func NewSelect(input Operator, pred Predicate) *Select {
	return &Select{input: input, pred: pred}
}

func (s *Select) Open() error { return s.input.Open() }

func (s *Select) Next() (bool, error) {
	for {
		ok, err := s.input.Next()
		if err != nil || !ok {
			s.cur = nil
			return ok, err
		}
		t := s.input.Output()
		if s.pred.Eval(t) {
			s.cur = t
			return true, nil
		}
	}
}

func (s *Select) Close() error { return s.input.Close() }

func (s *Select) Output() Tuple { return s.cur }
