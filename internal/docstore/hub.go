package docstore

import (
	"context"
	"log"
	"sync"
)

const subscriptionBuffer = 8

type fetchFunc func(ctx context.Context, path string) (Snapshot, error)

// hub fans changes out to local subscriptions. Notifications are serialised
// and each one re-reads the latest state, so a subscriber never observes an
// older snapshot after a newer one.
type hub struct {
	fetch fetchFunc

	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	closed bool

	notifyMu sync.Mutex
}

func newHub(fetch fetchFunc) *hub {
	return &hub{
		fetch: fetch,
		subs:  make(map[*Subscription]struct{}),
	}
}

func (h *hub) subscribe(ctx context.Context, path string) (*Subscription, error) {
	h.notifyMu.Lock()
	defer h.notifyMu.Unlock()

	snap, err := h.fetch(ctx, path)
	if err != nil {
		return nil, err
	}

	sub := newSubscription(path, h.remove)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrClosed
	}
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	sub.deliver(snap)

	go func() {
		select {
		case <-ctx.Done():
			sub.Close()
		case <-sub.done:
		}
	}()

	return sub, nil
}

func (h *hub) remove(sub *Subscription) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
}

// notify refreshes every subscription related to one of the changed paths.
func (h *hub) notify(ctx context.Context, changed ...string) {
	h.notifyMu.Lock()
	defer h.notifyMu.Unlock()

	h.mu.Lock()
	targets := make([]*Subscription, 0, len(h.subs))
	for sub := range h.subs {
		for _, p := range changed {
			if related(sub.path, p) {
				targets = append(targets, sub)
				break
			}
		}
	}
	h.mu.Unlock()

	for _, sub := range targets {
		snap, err := h.fetch(ctx, sub.path)
		if err != nil {
			log.Printf("docstore: refresh %q: %v", sub.path, err)
			continue
		}
		sub.deliver(snap)
	}
}

func (h *hub) close() {
	h.mu.Lock()
	h.closed = true
	subs := make([]*Subscription, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
}

// Subscription is a scoped stream of snapshots at one path. It must be
// released with Close, or by cancelling the context it was created with.
type Subscription struct {
	path    string
	ch      chan Snapshot
	done    chan struct{}
	release func(*Subscription)

	mu     sync.Mutex
	closed bool
	once   sync.Once
}

func newSubscription(path string, release func(*Subscription)) *Subscription {
	return &Subscription{
		path:    path,
		ch:      make(chan Snapshot, subscriptionBuffer),
		done:    make(chan struct{}),
		release: release,
	}
}

func (s *Subscription) Path() string {
	return s.path
}

// C yields snapshots until the subscription is closed.
func (s *Subscription) C() <-chan Snapshot {
	return s.ch
}

// Done is closed once the subscription has been released.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// deliver never blocks: when the buffer is full the oldest pending snapshot
// is discarded, the latest state always gets through.
func (s *Subscription) deliver(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for {
		select {
		case s.ch <- snap:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		if s.release != nil {
			s.release(s)
		}
		s.mu.Lock()
		s.closed = true
		close(s.ch)
		close(s.done)
		s.mu.Unlock()
	})
}
