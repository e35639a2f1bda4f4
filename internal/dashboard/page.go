// Package dashboard is the page-level controller. It owns the period
// selector and the refresh coordinator, passes (period, token) down to each
// widget, and routes fetch results back to the widget that asked.
//
// All Page methods except Run must be called from a single goroutine.
// Run only touches the fetcher and diagnostics and may be called from any
// goroutine.
package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/lachiem1/monthlens/internal/aggregate"
	"github.com/lachiem1/monthlens/internal/errs"
	"github.com/lachiem1/monthlens/internal/logger"
	"github.com/lachiem1/monthlens/internal/period"
	"github.com/lachiem1/monthlens/internal/records"
	"github.com/lachiem1/monthlens/internal/refresh"
	"github.com/lachiem1/monthlens/internal/widget"
)

const defaultWorkers = 4

type Fetcher interface {
	Fetch(ctx context.Context, p period.Period, filters records.Filters) (records.Collection, error)
}

type CategoryLister interface {
	ListCategories(ctx context.Context) ([]records.Category, error)
}

// Settings persists the selected period across runs.
type Settings interface {
	LastPeriod(ctx context.Context) (period.Period, bool, error)
	SaveLastPeriod(ctx context.Context, p period.Period) error
}

// Diagnostics records per-widget fetch outcomes.
type Diagnostics interface {
	RecordAttempt(ctx context.Context, widget, period string, at time.Time) error
	RecordSuccess(ctx context.Context, widget, period string, at time.Time, count int) error
	RecordError(ctx context.Context, widget, period string, at time.Time, fetchErr error) error
}

type Page struct {
	fetcher     Fetcher
	categories  CategoryLister
	settings    Settings
	diag        Diagnostics
	selector    *period.Selector
	coordinator *refresh.Coordinator
	widgets     []widget.Widget
	workers     int
	now         func() time.Time
	log         *slog.Logger

	pending     []widget.Request
	unsubscribe func()
}

type Option func(*Page)

func WithSettings(s Settings) Option { return func(p *Page) { p.settings = s } }

func WithDiagnostics(d Diagnostics) Option { return func(p *Page) { p.diag = d } }

func WithCategories(c CategoryLister) Option { return func(p *Page) { p.categories = c } }

// WithWorkers bounds the concurrency of Load.
func WithWorkers(n int) Option { return func(p *Page) { p.workers = n } }

func WithClock(now func() time.Time) Option { return func(p *Page) { p.now = now } }

func WithLogger(l *slog.Logger) Option { return func(p *Page) { p.log = l } }

// WithCoordinator shares a refresh coordinator with other mutation paths.
func WithCoordinator(c *refresh.Coordinator) Option { return func(p *Page) { p.coordinator = c } }

// NewPage builds a page showing initial. Nothing is fetched until Start.
func NewPage(fetcher Fetcher, initial period.Period, widgets []widget.Widget, opts ...Option) *Page {
	p := &Page{
		fetcher:  fetcher,
		selector: period.NewSelector(initial),
		widgets:  widgets,
		workers:  defaultWorkers,
		now:      time.Now,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.coordinator == nil {
		p.coordinator = refresh.NewCoordinator()
	}
	if p.workers < 1 {
		p.workers = 1
	}
	p.log = p.log.With(logger.FieldComponent, logger.ComponentDashboard)
	p.unsubscribe = p.selector.Subscribe(p.periodChanged)
	return p
}

// Close detaches the page from its selector.
func (p *Page) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}

func (p *Page) Period() period.Period { return p.selector.Current() }

func (p *Page) Token() refresh.Token { return p.coordinator.Current() }

func (p *Page) Key() widget.Key {
	return widget.Key{Period: p.selector.Current(), Token: p.coordinator.Current()}
}

// Start restores the last viewed period when settings hold one and returns
// the initial requests of every widget.
func (p *Page) Start(ctx context.Context) []widget.Request {
	if p.settings != nil {
		last, ok, err := p.settings.LastPeriod(ctx)
		if err != nil {
			p.log.Warn("restore last period failed", logger.FieldError, err)
		}
		if ok {
			// Set notifies, which observes every widget
			p.selector.Set(last)
			return p.drain()
		}
	}
	p.observeAll(p.Key())
	return p.drain()
}

// Advance moves the period one month and returns the resulting requests.
func (p *Page) Advance(dir period.Direction) []widget.Request {
	p.selector.Advance(dir)
	return p.drain()
}

func (p *Page) SetPeriod(target period.Period) []widget.Request {
	p.selector.Set(target)
	return p.drain()
}

// SetExact jumps to (year, monthIndex). An invalid month is rejected and
// nothing is requested.
func (p *Page) SetExact(year, monthIndex int) ([]widget.Request, error) {
	if err := p.selector.SetExact(year, monthIndex); err != nil {
		return nil, err
	}
	return p.drain(), nil
}

// Bump marks every widget stale after an acknowledged mutation and returns
// the refetch requests for the unchanged period.
func (p *Page) Bump() []widget.Request {
	tok := p.coordinator.Bump()
	p.log.Debug("refresh token bumped", logger.FieldToken, uint64(tok))
	p.observeAll(widget.Key{Period: p.selector.Current(), Token: tok})
	return p.drain()
}

// Retry re-issues the failed fetches of every widget for the current key.
func (p *Page) Retry() []widget.Request {
	var out []widget.Request
	for _, w := range p.widgets {
		out = append(out, w.Retry()...)
	}
	return out
}

func (p *Page) periodChanged(next period.Period) {
	p.observeAll(widget.Key{Period: next, Token: p.coordinator.Current()})
	if p.settings != nil {
		if err := p.settings.SaveLastPeriod(context.Background(), next); err != nil {
			p.log.Warn("save last period failed", logger.FieldPeriod, next.String(), logger.FieldError, err)
		}
	}
}

func (p *Page) observeAll(k widget.Key) {
	for _, w := range p.widgets {
		p.pending = append(p.pending, w.Observe(k)...)
	}
}

func (p *Page) drain() []widget.Request {
	out := p.pending
	p.pending = nil
	return out
}

// Run performs one request. It never fails; the outcome is in the result.
func (p *Page) Run(ctx context.Context, req widget.Request) widget.Result {
	log, ctx := logger.With(ctx,
		logger.FieldComponent, logger.ComponentDashboard,
		logger.FieldWidget, req.Widget,
		logger.FieldSlot, string(req.Slot),
		logger.FieldPeriod, req.Fetch.String(),
		logger.FieldToken, uint64(req.Key.Token),
		logger.FieldSeq, req.Seq,
	)
	diagKey := diagnosticsKey(req)
	p.recordAttempt(ctx, diagKey, req)

	col, err := p.fetcher.Fetch(ctx, req.Fetch, req.Filters)
	if err != nil {
		log.Warn("fetch failed", logger.FieldErrorKind, string(errs.KindOf(err)), logger.FieldError, err)
		p.recordError(ctx, diagKey, req, err)
		return widget.Result{Request: req, Err: err}
	}
	log.Debug("fetch done", logger.FieldCount, col.Len())
	p.recordSuccess(ctx, diagKey, req, col.Len())
	return widget.Result{Request: req, Collection: col}
}

// Deliver routes a result to its widget and reports whether it was applied.
func (p *Page) Deliver(res widget.Result) bool {
	for _, w := range p.widgets {
		if w.Name() != res.Request.Widget {
			continue
		}
		if w.Resolve(res) {
			return true
		}
		p.log.Debug("discarded stale result",
			logger.FieldWidget, res.Request.Widget,
			logger.FieldSlot, string(res.Request.Slot),
			logger.FieldPeriod, res.Request.Key.Period.String(),
			logger.FieldToken, uint64(res.Request.Key.Token),
			logger.FieldSeq, res.Request.Seq,
		)
		return false
	}
	p.log.Warn("result for unknown widget", logger.FieldWidget, res.Request.Widget)
	return false
}

// LoadCatalog fetches category labels. It may run on any goroutine; pass the
// result to ApplyCatalog.
func (p *Page) LoadCatalog(ctx context.Context) (aggregate.Catalog, error) {
	if p.categories == nil {
		return aggregate.Catalog{}, nil
	}
	cats, err := p.categories.ListCategories(ctx)
	if err != nil {
		return aggregate.Catalog{}, err
	}
	return aggregate.NewCatalog(cats), nil
}

func (p *Page) ApplyCatalog(c aggregate.Catalog) {
	for _, w := range p.widgets {
		if cw, ok := w.(widget.Cataloged); ok {
			cw.SetCatalog(c)
		}
	}
}

func diagnosticsKey(req widget.Request) string {
	if req.Slot == widget.SlotPrimary {
		return req.Widget
	}
	return req.Widget + "." + string(req.Slot)
}

func (p *Page) recordAttempt(ctx context.Context, key string, req widget.Request) {
	if p.diag == nil {
		return
	}
	if err := p.diag.RecordAttempt(ctx, key, req.Fetch.String(), p.now()); err != nil {
		logger.FromContext(ctx).Warn("record fetch attempt failed", logger.FieldError, err)
	}
}

func (p *Page) recordSuccess(ctx context.Context, key string, req widget.Request, count int) {
	if p.diag == nil {
		return
	}
	if err := p.diag.RecordSuccess(ctx, key, req.Fetch.String(), p.now(), count); err != nil {
		logger.FromContext(ctx).Warn("record fetch success failed", logger.FieldError, err)
	}
}

func (p *Page) recordError(ctx context.Context, key string, req widget.Request, fetchErr error) {
	if p.diag == nil {
		return
	}
	if err := p.diag.RecordError(ctx, key, req.Fetch.String(), p.now(), fetchErr); err != nil {
		logger.FromContext(ctx).Warn("record fetch error failed", logger.FieldError, err)
	}
}
