package perception

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/pitchside/internal/core/world"
)

type subscription struct {
	id       string
	receiver Receiver
	active   atomic.Bool
	cancel   func()
}

func (s *subscription) ID() string     { return s.id }
func (s *subscription) IsActive() bool { return s.active.Load() }
func (s *subscription) Cancel() {
	if s.active.Swap(false) && s.cancel != nil {
		s.cancel()
	}
}

// Feed is the in-process snapshot bus between perception and strategies.
type Feed struct {
	mu        sync.RWMutex
	subs      map[string]*subscription
	observers map[Observer]struct{}
	metrics   Metrics
	lastSeq   uint64

	pitch atomic.Pointer[world.Pitch]
}

func NewFeed() *Feed {
	return &Feed{
		subs:      make(map[string]*subscription),
		observers: make(map[Observer]struct{}),
	}
}

// SetPitch sets the geometry stamped onto snapshots that arrive without one.
func (f *Feed) SetPitch(p world.Pitch) {
	f.pitch.Store(&p)
}

// Register adds a receiver and returns its handle.
func (f *Feed) Register(r Receiver) Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := uuid.NewString()
	s := &subscription{id: id, receiver: r}
	s.active.Store(true)
	s.cancel = func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}
	f.subs[id] = s
	return s
}

// Unregister cancels the subscription. A nil subscription is ignored.
func (f *Feed) Unregister(sub Subscription) {
	if sub == nil {
		return
	}
	sub.Cancel()
}

// Publish delivers ws to every active receiver. It returns false when the
// snapshot was dropped as out of order.
func (f *Feed) Publish(ws world.State) bool {
	start := time.Now()

	if ws.Pitch == (world.Pitch{}) {
		if p := f.pitch.Load(); p != nil {
			ws.Pitch = *p
		}
	}

	f.mu.Lock()
	if ws.Seq != 0 {
		if ws.Seq <= f.lastSeq {
			if len(f.observers) > 0 {
				f.metrics.Dropped++
			}
			f.mu.Unlock()
			return false
		}
		f.lastSeq = ws.Seq
	}
	subs := make([]*subscription, 0, len(f.subs))
	for _, s := range f.subs {
		subs = append(subs, s)
	}
	observers := make([]Observer, 0, len(f.observers))
	for o := range f.observers {
		observers = append(observers, o)
	}
	f.mu.Unlock()

	delivered := 0
	for _, s := range subs {
		if !s.IsActive() {
			continue
		}
		s.receiver.OnWorldState(ws)
		delivered++
	}

	if len(observers) > 0 {
		dur := time.Since(start).Microseconds()
		for _, o := range observers {
			o.OnPublish(ws, delivered, dur)
		}
		f.mu.Lock()
		f.metrics.Published++
		f.metrics.Delivered += uint64(delivered)
		f.metrics.SubscribersActive = uint64(len(f.subs))
		f.mu.Unlock()
	}
	return true
}

// ResetSequence accepts the next snapshot whatever its sequence number,
// for when the perception process restarts.
func (f *Feed) ResetSequence() {
	f.mu.Lock()
	f.lastSeq = 0
	f.mu.Unlock()
}

func (f *Feed) AddObserver(o Observer) {
	f.mu.Lock()
	f.observers[o] = struct{}{}
	f.mu.Unlock()
}

func (f *Feed) RemoveObserver(o Observer) {
	f.mu.Lock()
	delete(f.observers, o)
	f.mu.Unlock()
}

func (f *Feed) Metrics() Metrics {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.metrics
}

// Subscribers returns how many receivers are registered.
func (f *Feed) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}
