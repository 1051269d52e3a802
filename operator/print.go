package operator

import (
	"io"
	"strconv"
)

// Print is a terminal operator: it writes each tuple it pulls from input
// as comma-separated fields followed by a newline, and produces no
// tuples of its own — it is a sink, not a pass-through, matching the
// source system's Print::get_output(), which has no output.
//
// The trailing newline is written even for a tuple with zero registers,
// matching the source's unconditional line terminator.
type Print struct {
	w     io.Writer
	input Operator
}

func NewPrint(w io.Writer, input Operator) *Print {
	return &Print{w: w, input: input}
}

func (p *Print) Open() error { return p.input.Open() }

func (p *Print) Next() (bool, error) {
	ok, err := p.input.Next()
	if err != nil || !ok {
		return ok, err
	}
	if err := p.writeLine(p.input.Output()); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Print) writeLine(t Tuple) error {
	for i, r := range t {
		if i > 0 {
			if _, err := io.WriteString(p.w, ","); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(p.w, formatRegister(r)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(p.w, "\n")
	return err
}

func formatRegister(r Register) string {
	if r.Kind == KindInt {
		return strconv.FormatInt(r.I, 10)
	}
	return r.AsString()
}

func (p *Print) Close() error { return p.input.Close() }

// Output always returns nil: Print is a sink and produces no tuples.
func (p *Print) Output() Tuple { return nil }
