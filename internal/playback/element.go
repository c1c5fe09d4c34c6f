package playback

import (
	"sort"
	"sync"
	"time"
)

type EventKind int

const (
	// the playback position moved
	EventPosition EventKind = iota
	// the media cannot be loaded or decoded
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventPosition:
		return "position"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribed handlers.
type Event struct {
	Kind     EventKind
	Position float64
	Err      error
}

type Handler func(Event)

// Subscription identifies one registered handler.
type Subscription struct {
	id uint64
}

// Valid reports whether s came from Subscribe.
func (s Subscription) Valid() bool {
	return s.id != 0
}

// Media is what a clock needs from a video source: a way to observe
// position and error notifications and to stop observing them.
type Media interface {
	Subscribe(h Handler) Subscription
	Unsubscribe(s Subscription)
}

// Element is an in-process media element. It emits position events as it
// is advanced or seeked and an error event when it fails. Handlers run
// synchronously on the goroutine that drives the element.
type Element struct {
	mu       sync.Mutex
	handlers map[uint64]Handler
	nextID   uint64

	position float64
	duration time.Duration
	playing  bool
	err      error
}

func NewElement() *Element {
	return &Element{handlers: make(map[uint64]Handler)}
}

func (e *Element) Subscribe(h Handler) Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	e.handlers[e.nextID] = h
	return Subscription{id: e.nextID}
}

// Unsubscribe removes the handler; unknown or repeated handles are ignored.
func (e *Element) Unsubscribe(s Subscription) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.handlers, s.id)
}

// Subscribers returns the number of registered handlers.
func (e *Element) Subscribers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handlers)
}

func (e *Element) Position() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.position
}

func (e *Element) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration
}

// SetDuration bounds playback; zero means unknown length.
func (e *Element) SetDuration(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.duration = d
}

func (e *Element) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// Play starts playback unless the element has failed.
func (e *Element) Play() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return false
	}
	e.playing = true
	return true
}

func (e *Element) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.playing = false
}

// Err returns the failure recorded by Fail, if any.
func (e *Element) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Advance moves a playing element forward by d and emits a position event.
// Reaching the duration pauses the element.
func (e *Element) Advance(d time.Duration) {
	e.mu.Lock()
	if !e.playing || e.err != nil || d <= 0 {
		e.mu.Unlock()
		return
	}
	e.position += d.Seconds()
	if e.duration > 0 && e.position >= e.duration.Seconds() {
		e.position = e.duration.Seconds()
		e.playing = false
	}
	ev := Event{Kind: EventPosition, Position: e.position}
	handlers := e.snapshotLocked()
	e.mu.Unlock()

	dispatch(handlers, ev)
}

// Seek jumps to pos and emits a position event. A seek recovers a failed
// element, the same way a new successful playback event does.
func (e *Element) Seek(pos float64) {
	e.mu.Lock()
	if pos < 0 {
		pos = 0
	}
	if e.duration > 0 && pos > e.duration.Seconds() {
		pos = e.duration.Seconds()
	}
	e.position = pos
	e.err = nil
	ev := Event{Kind: EventPosition, Position: e.position}
	handlers := e.snapshotLocked()
	e.mu.Unlock()

	dispatch(handlers, ev)
}

// Fail stops playback and emits one error event.
func (e *Element) Fail(err error) {
	e.mu.Lock()
	e.err = err
	e.playing = false
	ev := Event{Kind: EventError, Position: e.position, Err: err}
	handlers := e.snapshotLocked()
	e.mu.Unlock()

	dispatch(handlers, ev)
}

func (e *Element) snapshotLocked() []Handler {
	ids := make([]uint64, 0, len(e.handlers))
	for id := range e.handlers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]Handler, len(ids))
	for i, id := range ids {
		out[i] = e.handlers[id]
	}
	return out
}

func dispatch(handlers []Handler, ev Event) {
	for _, h := range handlers {
		h(ev)
	}
}
