package match

import (
	"sync"

	"github.com/gokatarajesh/kickoff-quiz/internal/question"
)

// EventKind tags a match event.
type EventKind string

const (
	EventPhaseChanged EventKind = "phase-changed"
	EventGoalScored   EventKind = "goal-scored"
	EventGameEnded    EventKind = "game-ended"
	EventPoolLow      EventKind = "pool-low"
)

// Goal names the scorer and their new score.
type Goal struct {
	PlayerID   string `json:"player_id"`
	NewScore   int    `json:"new_score"`
	QuestionID string `json:"question_id"`
}

// PoolLow is the informational low-pool notice for one player's selection.
type PoolLow struct {
	PlayerID string `json:"player_id"`
	question.LowPoolWarning
}

// Event is one emitted match event. Exactly one of Goal, Result or PoolLow is
// set for the matching kinds; every event carries the snapshot at emission.
type Event struct {
	Kind     EventKind `json:"kind"`
	Ordinal  uint64    `json:"ordinal"`
	MatchID  string    `json:"match_id"`
	Snapshot Snapshot  `json:"snapshot"`
	Goal     *Goal     `json:"goal,omitempty"`
	Result   *Result   `json:"result,omitempty"`
	PoolLow  *PoolLow  `json:"pool_low,omitempty"`
}

// Bus fans events out to subscribers in emission order. Publishing never
// blocks: each subscriber has its own unbounded queue.
type Bus struct {
	mu      sync.Mutex
	subs    map[*Subscription]struct{}
	ordinal uint64
	closed  bool
}

func NewBus() *Bus {
	return &Bus{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers for the given kinds, or all kinds when none are given.
// On a closed bus the returned subscription's channel is already closed.
func (b *Bus) Subscribe(kinds ...EventKind) *Subscription {
	sub := newSubscription(b, kinds)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		sub.finish()
		return sub
	}
	b.subs[sub] = struct{}{}
	return sub
}

// Publish stamps the event ordinal and queues it for every interested subscriber.
func (b *Bus) Publish(ev Event) Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ev
	}
	b.ordinal++
	ev.Ordinal = b.ordinal
	for sub := range b.subs {
		if sub.wants(ev.Kind) {
			sub.push(ev)
		}
	}
	return ev
}

// Close delivers what is queued and then closes every subscriber channel.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		sub.finish()
	}
	b.subs = nil
}

func (b *Bus) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, sub)
}

// Subscription is a single consumer's ordered event stream.
type Subscription struct {
	bus   *Bus
	kinds map[EventKind]struct{}
	out   chan Event
	stop  chan struct{}
	once  sync.Once

	mu       sync.Mutex
	cond     *sync.Cond
	queue    []Event
	draining bool
}

func newSubscription(bus *Bus, kinds []EventKind) *Subscription {
	s := &Subscription{
		bus:  bus,
		out:  make(chan Event),
		stop: make(chan struct{}),
	}
	if len(kinds) > 0 {
		s.kinds = make(map[EventKind]struct{}, len(kinds))
		for _, k := range kinds {
			s.kinds[k] = struct{}{}
		}
	}
	s.cond = sync.NewCond(&s.mu)
	go s.pump()
	return s
}

// C yields events in order. It is closed after Unsubscribe, or once the match
// has finished and every queued event was delivered.
func (s *Subscription) C() <-chan Event {
	return s.out
}

// Unsubscribe stops delivery and drops undelivered events. Safe to call twice.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.bus.remove(s)
		close(s.stop)
		s.mu.Lock()
		s.queue = nil
		s.cond.Broadcast()
		s.mu.Unlock()
	})
}

func (s *Subscription) wants(kind EventKind) bool {
	if s.kinds == nil {
		return true
	}
	_, ok := s.kinds[kind]
	return ok
}

func (s *Subscription) push(ev Event) {
	s.mu.Lock()
	s.queue = append(s.queue, ev)
	s.cond.Signal()
	s.mu.Unlock()
}

func (s *Subscription) finish() {
	s.mu.Lock()
	s.draining = true
	s.cond.Signal()
	s.mu.Unlock()
}

func (s *Subscription) pump() {
	defer close(s.out)
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.draining && !s.stopped() {
			s.cond.Wait()
		}
		if s.stopped() || len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		ev := s.queue[0]
		s.queue[0] = Event{}
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- ev:
		case <-s.stop:
			return
		}
	}
}

func (s *Subscription) stopped() bool {
	select {
	case <-s.stop:
		return true
	default:
		return false
	}
}
