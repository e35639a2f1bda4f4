// Package widget holds the per-view fetch state machines. A widget turns a
// (period, token) key into fetch requests and applies only the result of
// the latest request it issued. Widgets are not safe for concurrent use;
// the dashboard drives them from one goroutine.
package widget

import (
	"time"

	"github.com/lachiem1/monthlens/internal/period"
	"github.com/lachiem1/monthlens/internal/records"
	"github.com/lachiem1/monthlens/internal/refresh"
)

type State int

const (
	Idle State = iota
	Loading
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Key identifies what a widget is showing.
type Key struct {
	Period period.Period
	Token  refresh.Token
}

type Slot string

const (
	SlotPrimary    Slot = "primary"
	SlotComparison Slot = "comparison"
)

// Request is one fetch a widget wants issued. Fetch is the period to query,
// which differs from Key.Period for the comparison slot.
type Request struct {
	Widget  string
	Slot    Slot
	Key     Key
	Fetch   period.Period
	Seq     uint64
	Filters records.Filters
}

type Result struct {
	Request    Request
	Collection records.Collection
	Err        error
}

// Option configures a widget.
type Option func(*base)

// WithFilters narrows every fetch the widget issues.
func WithFilters(f records.Filters) Option {
	return func(b *base) { b.filters = f }
}

// WithClock replaces time.Now for load timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *base) { b.now = now }
}

// base holds what all widgets share: identity, options and the request
// sequence counter.
type base struct {
	name    string
	filters records.Filters
	now     func() time.Time
	seq     uint64
}

func newBase(name string, opts []Option) base {
	b := base{name: name, now: time.Now}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *base) Name() string { return b.name }

func (b *base) request(l *lifecycle, slot Slot, k Key, fetch period.Period) Request {
	b.seq++
	l.start(k, b.seq)
	return Request{
		Widget:  b.name,
		Slot:    slot,
		Key:     k,
		Fetch:   fetch,
		Seq:     b.seq,
		Filters: b.filters,
	}
}

// lifecycle is one Idle/Loading/Loaded/Failed machine.
type lifecycle struct {
	state      State
	key        Key
	seq        uint64
	collection records.Collection
	err        error
	loadedAt   time.Time
}

func (l *lifecycle) start(k Key, seq uint64) {
	l.state = Loading
	l.key = k
	l.seq = seq
	l.collection = records.Collection{}
	l.err = nil
}

// current reports whether k is already the key of the latest started fetch.
func (l *lifecycle) current(k Key) bool {
	return l.state != Idle && l.key == k
}

// accept applies res if it answers the latest request and reports whether
// it did.
func (l *lifecycle) accept(res Result, now time.Time) bool {
	if l.state != Loading || res.Request.Key != l.key || res.Request.Seq != l.seq {
		return false
	}
	if res.Err != nil {
		l.state = Failed
		l.err = res.Err
		l.collection = records.Collection{}
		return true
	}
	l.state = Loaded
	l.collection = res.Collection
	l.loadedAt = now
	return true
}
