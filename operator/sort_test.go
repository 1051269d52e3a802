package operator

import "testing"

func TestSortAppliesAllCriteriaLexicographically(t *testing.T) {
	src := NewTupleScan([]Tuple{
		row(1, 2),
		row(1, 1),
		row(0, 5),
		row(1, 3),
	})
	s := NewSort(src, []SortCriterion{{Attr: 0}, {Attr: 1}})

	got := collect(t, s)
	want := [][2]int64{{0, 5}, {1, 1}, {1, 2}, {1, 3}}
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d", len(got), len(want))
	}
	for i, row := range got {
		if row[0].AsInt() != want[i][0] || row[1].AsInt() != want[i][1] {
			t.Fatalf("row %d = (%d,%d), want (%d,%d)", i, row[0].AsInt(), row[1].AsInt(), want[i][0], want[i][1])
		}
	}
}

func TestSortDescending(t *testing.T) {
	src := NewTupleScan([]Tuple{row(1), row(3), row(2)})
	s := NewSort(src, []SortCriterion{{Attr: 0, Desc: true}})

	got := collect(t, s)
	want := []int64{3, 2, 1}
	for i, r := range got {
		if r[0].AsInt() != want[i] {
			t.Fatalf("row %d = %d, want %d", i, r[0].AsInt(), want[i])
		}
	}
}
