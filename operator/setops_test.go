package operator

import "testing"

// S6-style fixture: relation_set_a = {1,1,2,3,3,3}, relation_set_b =
// {2,4,4,3,3}. Set and bag combinators must operate over whole tuples and
// respect multiplicity only in the *All variants.
func setA() []Tuple { return []Tuple{row(1), row(1), row(2), row(3), row(3), row(3)} }
func setB() []Tuple { return []Tuple{row(2), row(4), row(4), row(3), row(3)} }

func countByValue(rows []Tuple) map[int64]int {
	out := make(map[int64]int)
	for _, r := range rows {
		out[r[0].AsInt()]++
	}
	return out
}

func TestUnionDedupsWholeTuples(t *testing.T) {
	got := collect(t, NewUnion(NewTupleScan(setA()), NewTupleScan(setB())))
	counts := countByValue(got)
	if len(counts) != 4 {
		t.Fatalf("got %d distinct values, want 4 ({1,2,3,4})", len(counts))
	}
	for _, c := range counts {
		if c != 1 {
			t.Fatalf("Union must not repeat a tuple, got counts %v", counts)
		}
	}
}

func TestUnionAllPreservesMultiplicity(t *testing.T) {
	got := collect(t, NewUnionAll(NewTupleScan(setA()), NewTupleScan(setB())))
	if len(got) != len(setA())+len(setB()) {
		t.Fatalf("UnionAll rows = %d, want %d", len(got), len(setA())+len(setB()))
	}
	counts := countByValue(got)
	want := map[int64]int{1: 2, 2: 2, 3: 5, 4: 2}
	for k, v := range want {
		if counts[k] != v {
			t.Fatalf("UnionAll count[%d] = %d, want %d", k, counts[k], v)
		}
	}
}

func TestIntersectIsSetSemantics(t *testing.T) {
	got := collect(t, NewIntersect(NewTupleScan(setA()), NewTupleScan(setB())))
	counts := countByValue(got)
	want := map[int64]int{2: 1, 3: 1}
	if len(counts) != len(want) {
		t.Fatalf("Intersect distinct values = %v, want %v", counts, want)
	}
	for k, v := range want {
		if counts[k] != v {
			t.Fatalf("Intersect count[%d] = %d, want %d", k, counts[k], v)
		}
	}
}

func TestIntersectAllTakesMinMultiplicity(t *testing.T) {
	got := collect(t, NewIntersectAll(NewTupleScan(setA()), NewTupleScan(setB())))
	counts := countByValue(got)
	want := map[int64]int{2: 1, 3: 2}
	if len(got) != 3 {
		t.Fatalf("IntersectAll rows = %d, want 3", len(got))
	}
	for k, v := range want {
		if counts[k] != v {
			t.Fatalf("IntersectAll count[%d] = %d, want %d", k, counts[k], v)
		}
	}
}

func TestExceptIsSetSemantics(t *testing.T) {
	got := collect(t, NewExcept(NewTupleScan(setA()), NewTupleScan(setB())))
	counts := countByValue(got)
	want := map[int64]int{1: 1}
	if len(counts) != 1 || counts[1] != 1 {
		t.Fatalf("Except = %v, want %v", counts, want)
	}
}

func TestExceptAllSubtractsMultiplicity(t *testing.T) {
	got := collect(t, NewExceptAll(NewTupleScan(setA()), NewTupleScan(setB())))
	counts := countByValue(got)
	want := map[int64]int{1: 2, 3: 1}
	if len(got) != 3 {
		t.Fatalf("ExceptAll rows = %d, want 3", len(got))
	}
	for k, v := range want {
		if counts[k] != v {
			t.Fatalf("ExceptAll count[%d] = %d, want %d", k, counts[k], v)
		}
	}
}
