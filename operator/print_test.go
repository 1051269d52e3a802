package operator

import (
	"strings"
	"testing"
)

func row(vals ...any) Tuple {
	t := make(Tuple, len(vals))
	for i, v := range vals {
		switch x := v.(type) {
		case int64:
			t[i] = NewIntRegister(x)
		case int:
			t[i] = NewIntRegister(int64(x))
		case string:
			t[i] = NewCharRegister(x)
		}
	}
	return t
}

func TestPrintFormatsCommaSeparatedWithTrailingNewline(t *testing.T) {
	src := NewTupleScan([]Tuple{row(1, "alice"), row(2, "bob")})
	var sb strings.Builder
	p := NewPrint(&sb, src)

	if err := p.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	for {
		ok, err := p.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	want := "1,alice\n2,bob\n"
	if got := sb.String(); got != want {
		t.Fatalf("Print output = %q, want %q", got, want)
	}
}

func TestPrintEmitsTrailingNewlineForEmptyTuple(t *testing.T) {
	src := NewTupleScan([]Tuple{{}})
	var sb strings.Builder
	p := NewPrint(&sb, src)

	if err := p.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if ok, err := p.Next(); err != nil || !ok {
		t.Fatalf("Next() = %v, %v", ok, err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if got := sb.String(); got != "\n" {
		t.Fatalf("Print output = %q, want %q", got, "\n")
	}
}
