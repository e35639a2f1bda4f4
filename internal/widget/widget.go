package widget

import (
	"time"

	"github.com/lachiem1/monthlens/internal/aggregate"
	"github.com/lachiem1/monthlens/internal/period"
)

const (
	NameSummary      = "summary"
	NameDistribution = "distribution"
	NameList         = "list"
)

// Widget is one independently loading view.
type Widget interface {
	Name() string
	State() State
	// Observe returns the requests needed to show k, or nil when k is
	// already being shown or loaded.
	Observe(k Key) []Request
	// Retry re-issues the current key's failed fetches.
	Retry() []Request
	// Resolve applies res when it answers the latest request.
	Resolve(res Result) bool
}

// Cataloged widgets resolve category labels.
type Cataloged interface {
	SetCatalog(aggregate.Catalog)
}

// Output is the render contract shared by every widget.
type Output struct {
	Widget   string
	State    State
	Period   period.Period
	Err      error
	LoadedAt time.Time
}

func outputOf(name string, l *lifecycle) Output {
	return Output{
		Widget:   name,
		State:    l.state,
		Period:   l.key.Period,
		Err:      l.err,
		LoadedAt: l.loadedAt,
	}
}
