package operator

// HashJoin is a blocking equi-join: Open builds a hash table over the
// right input keyed by the join attribute, then Next probes it one left
// tuple at a time, emitting left++right for every actual match. A hash
// collision alone is not treated as a match — each candidate is checked
// for genuine register equality on the join attribute before being
// emitted, which the source system's hash-only comparison does not do.
type HashJoin struct {
	left, right         Operator
	leftAttr, rightAttr int

	buckets map[uint64][]Tuple

	leftCur  Tuple
	matches  []Tuple
	matchPos int
	cur      Tuple
}

func NewHashJoin(left, right Operator, leftAttr, rightAttr int) *HashJoin {
	return &HashJoin{left: left, right: right, leftAttr: leftAttr, rightAttr: rightAttr}
}

func (j *HashJoin) Open() error {
	if err := j.right.Open(); err != nil {
		return err
	}
	j.buckets = make(map[uint64][]Tuple)
	for {
		ok, err := j.right.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		row := append(Tuple(nil), j.right.Output()...)
		h := row[j.rightAttr].hash()
		j.buckets[h] = append(j.buckets[h], row)
	}
	if err := j.right.Close(); err != nil {
		return err
	}

	if err := j.left.Open(); err != nil {
		return err
	}
	j.matches = nil
	j.matchPos = 0
	return nil
}

func (j *HashJoin) Next() (bool, error) {
	for {
		if j.matchPos < len(j.matches) {
			right := j.matches[j.matchPos]
			j.matchPos++
			j.cur = append(append(Tuple(nil), j.leftCur...), right...)
			return true, nil
		}

		ok, err := j.left.Next()
		if err != nil {
			j.cur = nil
			return false, err
		}
		if !ok {
			j.cur = nil
			return false, nil
		}
		j.leftCur = append(Tuple(nil), j.left.Output()...)

		h := j.leftCur[j.leftAttr].hash()
		candidates := j.buckets[h]
		j.matches = j.matches[:0]
		for _, cand := range candidates {
			if j.leftCur[j.leftAttr].Equal(cand[j.rightAttr]) {
				j.matches = append(j.matches, cand)
			}
		}
		j.matchPos = 0
	}
}

func (j *HashJoin) Close() error {
	j.buckets = nil
	return j.left.Close()
}

func (j *HashJoin) Output() Tuple { return j.cur }
