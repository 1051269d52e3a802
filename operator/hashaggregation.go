package operator

// HashAggregation is a blocking group-by operator: Open pulls every input
// tuple, hashing it into a bucket keyed by the groupBy attributes, then
// emits one output row per distinct group (or a single row for the whole
// input if groupBy is empty), holding the groupBy values followed by each
// requested aggregate in the order given.
//
// The source system hardcodes its aggregate output as a fixed (sum, count)
// pair regardless of what was asked for; this emits exactly the requested
// aggregates, in the requested order.
type HashAggregation struct {
	input   Operator
	groupBy []int
	aggrs   []AggrFunc

	rows []Tuple
	pos  int
	cur  Tuple
}

type aggState struct {
	key     Tuple // the groupBy values for this group
	sum     map[int]int64
	count   int64
	min     map[int]Register
	max     map[int]Register
	haveMin map[int]bool
	haveMax map[int]bool
}

func NewHashAggregation(input Operator, groupBy []int, aggrs []AggrFunc) *HashAggregation {
	return &HashAggregation{input: input, groupBy: groupBy, aggrs: aggrs}
}

func (a *HashAggregation) Open() error {
	if err := a.input.Open(); err != nil {
		return err
	}

	groups := make(map[string]*aggState)
	var order []string

	for {
		ok, err := a.input.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		t := a.input.Output()

		key := make(Tuple, len(a.groupBy))
		for i, g := range a.groupBy {
			key[i] = t[g]
		}
		k := key.key()

		st, ok := groups[k]
		if !ok {
			st = &aggState{
				key:     key,
				sum:     make(map[int]int64),
				min:     make(map[int]Register),
				max:     make(map[int]Register),
				haveMin: make(map[int]bool),
				haveMax: make(map[int]bool),
			}
			groups[k] = st
			order = append(order, k)
		}
		st.count++
		for _, af := range a.aggrs {
			switch af.Kind {
			case AggrSum:
				st.sum[af.Attr] += t[af.Attr].AsInt()
			case AggrMin:
				if !st.haveMin[af.Attr] || t[af.Attr].Less(st.min[af.Attr]) {
					st.min[af.Attr] = t[af.Attr]
				}
				st.haveMin[af.Attr] = true
			case AggrMax:
				if !st.haveMax[af.Attr] || st.max[af.Attr].Less(t[af.Attr]) {
					st.max[af.Attr] = t[af.Attr]
				}
				st.haveMax[af.Attr] = true
			}
		}
	}
	if err := a.input.Close(); err != nil {
		return err
	}

	a.rows = a.rows[:0]
	for _, k := range order {
		st := groups[k]
		row := append(Tuple(nil), st.key...)
		for _, af := range a.aggrs {
			switch af.Kind {
			case AggrSum:
				row = append(row, NewIntRegister(st.sum[af.Attr]))
			case AggrCount:
				row = append(row, NewIntRegister(st.count))
			case AggrMin:
				row = append(row, st.min[af.Attr])
			case AggrMax:
				row = append(row, st.max[af.Attr])
			}
		}
		a.rows = append(a.rows, row)
	}
	a.pos = 0
	return nil
}

func (a *HashAggregation) Next() (bool, error) {
	if a.pos >= len(a.rows) {
		a.cur = nil
		return false, nil
	}
	a.cur = a.rows[a.pos]
	a.pos++
	return true, nil
}

func (a *HashAggregation) Close() error {
	a.rows = nil
	return nil
}

func (a *HashAggregation) Output() Tuple { return a.cur }
