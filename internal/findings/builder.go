package findings

// Builder assembles a Report from per-input slots. Each slot is written by at
// most one goroutine, so concurrent validators need no locking.
type Builder struct {
	validator Validator
	slots     [][]Finding
}

// NewBuilder creates a builder for a run over n inputs.
func NewBuilder(validator Validator, n int) *Builder {
	return &Builder{
		validator: validator,
		slots:     make([][]Finding, n),
	}
}

// Set stores the findings produced for the input at index. The slice is copied
// and each finding is stamped with the validator, the index and its emission
// order; RuleOrder is kept as produced.
func (b *Builder) Set(index int, fs []Finding) {
	slot := make([]Finding, len(fs))
	for i, f := range fs {
		f.Validator = b.validator
		f.Index = index
		f.seq = i
		slot[i] = f
	}
	b.slots[index] = slot
}

// Build returns the finished, ordered Report.
func (b *Builder) Build() *Report {
	r := &Report{filesTotal: len(b.slots)}
	for _, slot := range b.slots {
		r.findings = append(r.findings, slot...)
	}
	sortFindings(r.findings)
	return r
}
