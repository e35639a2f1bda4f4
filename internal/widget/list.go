package widget

import (
	"github.com/lachiem1/monthlens/internal/aggregate"
	"github.com/lachiem1/monthlens/internal/records"
)

// List shows the period's records grouped by day, with the period's
// extremes.
type List struct {
	base
	primary lifecycle
	catalog aggregate.Catalog

	days  []aggregate.Day
	stats aggregate.Stats
}

type ListOutput struct {
	Output
	Records []records.Record
	Days    []aggregate.Day
	Stats   aggregate.Stats
	Catalog aggregate.Catalog
}

func NewList(opts ...Option) *List {
	return &List{base: newBase(NameList, opts)}
}

func (w *List) State() State { return w.primary.state }

func (w *List) SetCatalog(c aggregate.Catalog) {
	w.catalog = c
	w.derive()
}

func (w *List) Observe(k Key) []Request {
	if w.primary.current(k) {
		return nil
	}
	w.days, w.stats = nil, aggregate.Stats{}
	return []Request{w.request(&w.primary, SlotPrimary, k, k.Period)}
}

func (w *List) Retry() []Request {
	if w.primary.state != Failed {
		return nil
	}
	return []Request{w.request(&w.primary, SlotPrimary, w.primary.key, w.primary.key.Period)}
}

func (w *List) Resolve(res Result) bool {
	if res.Request.Widget != w.name || res.Request.Slot != SlotPrimary {
		return false
	}
	if !w.primary.accept(res, w.now()) {
		return false
	}
	w.derive()
	return true
}

func (w *List) derive() {
	w.days, w.stats = nil, aggregate.Stats{}
	if w.primary.state != Loaded {
		return
	}
	rs := w.primary.collection.Records
	w.days = aggregate.GroupByDay(rs)
	w.stats = aggregate.ComputeStats(rs, w.catalog)
}

func (w *List) Output() ListOutput {
	return ListOutput{
		Output:  outputOf(w.name, &w.primary),
		Records: w.primary.collection.Records,
		Days:    w.days,
		Stats:   w.stats,
		Catalog: w.catalog,
	}
}
