package operator

// Projection streams each input tuple through, keeping only the attrs
// listed (in that order; an attribute may repeat).
type Projection struct {
	input Operator
	attrs []int
	cur   Tuple
}

func NewProjection(input Operator, attrs []int) *Projection {
	return &Projection{input: input, attrs: attrs}
}

func (p *Projection) Open() error { return p.input.Open() }

func (p *Projection) Next() (bool, error) {
	ok, err := p.input.Next()
	if err != nil || !ok {
		p.cur = nil
		return ok, err
	}
	in := p.input.Output()
	out := make(Tuple, len(p.attrs))
	for i, a := range p.attrs {
		out[i] = in[a]
	}
	p.cur = out
	return true, nil
}

func (p *Projection) Close() error { return p.input.Close() }

func (p *Projection) Output() Tuple { return p.cur }
