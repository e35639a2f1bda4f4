package widget

import "github.com/lachiem1/monthlens/internal/aggregate"

// Summary shows period totals and the change against the previous period.
// The comparison fetch runs alongside the primary one; if it fails the
// widget still loads, only without a comparison.
type Summary struct {
	base
	primary    lifecycle
	comparison lifecycle

	summary *aggregate.Summary
	compare *aggregate.Comparison
}

type SummaryOutput struct {
	Output
	Summary         *aggregate.Summary
	Comparison      *aggregate.Comparison
	ComparisonState State
	ComparisonErr   error
}

func NewSummary(opts ...Option) *Summary {
	return &Summary{base: newBase(NameSummary, opts)}
}

func (w *Summary) State() State { return w.primary.state }

func (w *Summary) Observe(k Key) []Request {
	if w.primary.current(k) {
		return nil
	}
	w.summary, w.compare = nil, nil
	return []Request{
		w.request(&w.primary, SlotPrimary, k, k.Period),
		w.request(&w.comparison, SlotComparison, k, k.Period.Prev()),
	}
}

func (w *Summary) Retry() []Request {
	var out []Request
	k := w.primary.key
	if w.primary.state == Failed {
		out = append(out, w.request(&w.primary, SlotPrimary, k, k.Period))
	}
	if w.comparison.state == Failed {
		w.compare = nil
		out = append(out, w.request(&w.comparison, SlotComparison, k, k.Period.Prev()))
	}
	return out
}

func (w *Summary) Resolve(res Result) bool {
	if res.Request.Widget != w.name {
		return false
	}
	var applied bool
	switch res.Request.Slot {
	case SlotPrimary:
		applied = w.primary.accept(res, w.now())
	case SlotComparison:
		applied = w.comparison.accept(res, w.now())
	}
	if applied {
		w.derive()
	}
	return applied
}

func (w *Summary) derive() {
	w.summary, w.compare = nil, nil
	if w.primary.state != Loaded {
		return
	}
	s := aggregate.Summarize(w.primary.collection.Records)
	w.summary = &s
	if w.comparison.state == Loaded {
		c := aggregate.SummarizeWithComparison(w.primary.collection.Records, w.comparison.collection.Records)
		w.compare = &c
	}
}

func (w *Summary) Output() SummaryOutput {
	return SummaryOutput{
		Output:          outputOf(w.name, &w.primary),
		Summary:         w.summary,
		Comparison:      w.compare,
		ComparisonState: w.comparison.state,
		ComparisonErr:   w.comparison.err,
	}
}
