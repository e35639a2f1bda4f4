package widget

import (
	"github.com/lachiem1/monthlens/internal/aggregate"
	"github.com/shopspring/decimal"
)

// Distribution shows spend per category.
type Distribution struct {
	base
	primary lifecycle
	catalog aggregate.Catalog

	buckets []aggregate.CategoryAggregate
	total   decimal.Decimal
}

type DistributionOutput struct {
	Output
	Buckets []aggregate.CategoryAggregate
	Total   decimal.Decimal
}

func NewDistribution(opts ...Option) *Distribution {
	return &Distribution{base: newBase(NameDistribution, opts)}
}

func (w *Distribution) State() State { return w.primary.state }

func (w *Distribution) SetCatalog(c aggregate.Catalog) {
	w.catalog = c
	w.derive()
}

func (w *Distribution) Observe(k Key) []Request {
	if w.primary.current(k) {
		return nil
	}
	w.buckets, w.total = nil, decimal.Zero
	return []Request{w.request(&w.primary, SlotPrimary, k, k.Period)}
}

func (w *Distribution) Retry() []Request {
	if w.primary.state != Failed {
		return nil
	}
	return []Request{w.request(&w.primary, SlotPrimary, w.primary.key, w.primary.key.Period)}
}

func (w *Distribution) Resolve(res Result) bool {
	if res.Request.Widget != w.name || res.Request.Slot != SlotPrimary {
		return false
	}
	if !w.primary.accept(res, w.now()) {
		return false
	}
	w.derive()
	return true
}

func (w *Distribution) derive() {
	w.buckets, w.total = nil, decimal.Zero
	if w.primary.state != Loaded {
		return
	}
	rs := w.primary.collection.Records
	w.buckets = aggregate.DistributeByCategory(rs, w.catalog)
	w.total = aggregate.Summarize(rs).Total
}

func (w *Distribution) Output() DistributionOutput {
	return DistributionOutput{
		Output:  outputOf(w.name, &w.primary),
		Buckets: w.buckets,
		Total:   w.total,
	}
}
