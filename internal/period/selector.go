package period

import "sync"

type Direction int

const (
	Previous Direction = -1
	Next     Direction = 1
)

// Selector holds the single source of truth for the viewed period.
// Subscribers run synchronously, in subscription order, after every
// successful change. There is no debounce.
type Selector struct {
	mu      sync.Mutex
	current Period
	subs    []subscription
	nextID  int
}

type subscription struct {
	id int
	fn func(Period)
}

func NewSelector(initial Period) *Selector {
	return &Selector{current: initial}
}

func (s *Selector) Current() Period {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Advance moves one month in dir and notifies subscribers.
func (s *Selector) Advance(dir Direction) Period {
	step := 0
	switch {
	case dir < 0:
		step = -1
	case dir > 0:
		step = 1
	default:
		return s.Current()
	}

	s.mu.Lock()
	s.current = s.current.Shift(step)
	next := s.current
	s.mu.Unlock()

	s.notify(next)
	return next
}

// SetExact jumps to (year, zero-based month). Invalid input leaves the
// current period untouched and notifies no one.
func (s *Selector) SetExact(year, monthIndex int) error {
	p, err := New(year, monthIndex)
	if err != nil {
		return err
	}
	s.Set(p)
	return nil
}

// Set jumps to an already-validated period.
func (s *Selector) Set(p Period) {
	s.mu.Lock()
	s.current = p
	s.mu.Unlock()

	s.notify(p)
}

// Subscribe registers fn and returns a function that removes it.
func (s *Selector) Subscribe(fn func(Period)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Selector) notify(p Period) {
	s.mu.Lock()
	subs := append([]subscription(nil), s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(p)
	}
}
