package operator

import "sort"

// Sort is a blocking operator: Open pulls every input tuple into memory
// and sorts them by criteria, applied left to right as a full
// lexicographic comparison (the source system hardcodes exactly two sort
// keys; this compares however many criteria are given).
type Sort struct {
	input    Operator
	criteria []SortCriterion

	rows []Tuple
	pos  int
	cur  Tuple
}

func NewSort(input Operator, criteria []SortCriterion) *Sort {
	return &Sort{input: input, criteria: criteria}
}

func (s *Sort) Open() error {
	if err := s.input.Open(); err != nil {
		return err
	}
	s.rows = s.rows[:0]
	for {
		ok, err := s.input.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		row := append(Tuple(nil), s.input.Output()...)
		s.rows = append(s.rows, row)
	}

	sort.SliceStable(s.rows, func(i, j int) bool {
		return s.less(s.rows[i], s.rows[j])
	})
	s.pos = 0
	return nil
}

func (s *Sort) less(a, b Tuple) bool {
	for _, c := range s.criteria {
		if a[c.Attr].Equal(b[c.Attr]) {
			continue
		}
		if c.Desc {
			return b[c.Attr].Less(a[c.Attr])
		}
		return a[c.Attr].Less(b[c.Attr])
	}
	return false
}

func (s *Sort) Next() (bool, error) {
	if s.pos >= len(s.rows) {
		s.cur = nil
		return false, nil
	}
	s.cur = s.rows[s.pos]
	s.pos++
	return true, nil
}

func (s *Sort) Close() error {
	s.rows = nil
	return s.input.Close()
}

func (s *Sort) Output() Tuple { return s.cur }
