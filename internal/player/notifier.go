package player

import "sync"

// FrameChange is delivered to subscribers when the current frame settles:
// once per instant jump and once per terminal animation outcome, never
// mid-animation.
type FrameChange struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// Notifier fans frame-change events out to channel subscribers. Delivery is
// non-blocking: an event is dropped for a subscriber whose channel buffer is
// full, so a slow observer cannot stall playback.
type Notifier struct {
	mu   sync.Mutex
	subs map[<-chan FrameChange]chan FrameChange
}

// NewNotifier returns an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[<-chan FrameChange]chan FrameChange)}
}

// Subscribe registers a new subscriber with the given channel buffer.
// A non-positive buffer defaults to 1.
func (n *Notifier) Subscribe(buffer int) <-chan FrameChange {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan FrameChange, buffer)
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs[ch] = ch
	return ch
}

// Unsubscribe removes a subscriber and closes its channel. Unsubscribing an
// unknown channel is a no-op.
func (n *Notifier) Unsubscribe(ch <-chan FrameChange) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if send, ok := n.subs[ch]; ok {
		delete(n.subs, ch)
		close(send)
	}
}

// Len returns the number of active subscribers.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}

func (n *Notifier) publish(ev FrameChange) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, send := range n.subs {
		select {
		case send <- ev:
		default:
		}
	}
}
