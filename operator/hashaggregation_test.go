package operator

import "testing"

func TestHashAggregationGroupsAndOrdersAggregates(t *testing.T) {
	src := NewTupleScan([]Tuple{
		row(1, 10),
		row(1, 20),
		row(2, 5),
	})
	agg := NewHashAggregation(src, []int{0}, []AggrFunc{
		{Kind: AggrCount},
		{Kind: AggrSum, Attr: 1},
	})

	got := collect(t, agg)
	if len(got) != 2 {
		t.Fatalf("got %d groups, want 2", len(got))
	}
	byGroup := map[int64][2]int64{}
	for _, r := range got {
		byGroup[r[0].AsInt()] = [2]int64{r[1].AsInt(), r[2].AsInt()}
	}
	if byGroup[1] != [2]int64{2, 30} {
		t.Fatalf("group 1 (count,sum) = %v, want (2,30)", byGroup[1])
	}
	if byGroup[2] != [2]int64{1, 5} {
		t.Fatalf("group 2 (count,sum) = %v, want (1,5)", byGroup[2])
	}
}

func TestHashAggregationMinMaxWithoutGroupBy(t *testing.T) {
	src := NewTupleScan([]Tuple{row(7), row(2), row(9), row(4)})
	agg := NewHashAggregation(src, nil, []AggrFunc{
		{Kind: AggrMin, Attr: 0},
		{Kind: AggrMax, Attr: 0},
	})

	got := collect(t, agg)
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
	if got[0][0].AsInt() != 2 || got[0][1].AsInt() != 9 {
		t.Fatalf("(min,max) = (%d,%d), want (2,9)", got[0][0].AsInt(), got[0][1].AsInt())
	}
}
