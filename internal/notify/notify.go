// Package notify carries user-facing notifications (toasts) from the engine
// to whatever presentation layer is attached.
package notify

import (
	"log"
	"sync"
	"time"
)

// Severity of a notification.
type Severity string

const (
	Info    Severity = "info"
	Success Severity = "success"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// Notification is one delivered message.
type Notification struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
	At       time.Time `json:"at"`
}

// Sink receives notifications. Delivery is fire-and-forget.
type Sink interface {
	Notify(title, message string, sev Severity)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(title, message string, sev Severity)

// Notify implements Sink.
func (f SinkFunc) Notify(title, message string, sev Severity) { f(title, message, sev) }

// Discard drops every notification.
var Discard Sink = SinkFunc(func(string, string, Severity) {})

// Log writes notifications to a logger.
type Log struct {
	Logger *log.Logger // nil uses the standard logger
}

// Notify implements Sink.
func (l Log) Notify(title, message string, sev Severity) {
	if l.Logger == nil {
		log.Printf("tripdeck %s: %s: %s", sev, title, message)
		return
	}
	l.Logger.Printf("%s: %s: %s", sev, title, message)
}

// Multi fans a notification out to several sinks.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(title, message string, sev Severity) {
		for _, s := range sinks {
			if s != nil {
				s.Notify(title, message, sev)
			}
		}
	})
}

// Recorder keeps the most recent notifications in a bounded buffer and
// forwards them to subscribers without blocking.
type Recorder struct {
	mu      sync.RWMutex
	limit   int
	nextID  int64
	items   []Notification
	subs    map[int]chan Notification
	nextSub int
	now     func() time.Time
}

// NewRecorder returns a recorder holding up to limit notifications.
func NewRecorder(limit int) *Recorder {
	if limit < 1 {
		limit = 50
	}
	return &Recorder{limit: limit, subs: make(map[int]chan Notification), now: time.Now}
}

// Notify implements Sink.
func (r *Recorder) Notify(title, message string, sev Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	n := Notification{ID: r.nextID, Title: title, Message: message, Severity: sev, At: r.now()}
	r.items = append(r.items, n)
	if len(r.items) > r.limit {
		r.items = r.items[len(r.items)-r.limit:]
	}
	for _, ch := range r.subs {
		select {
		case ch <- n:
		default:
		}
	}
}

// All returns a copy of the buffered notifications, oldest first.
func (r *Recorder) All() []Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Notification(nil), r.items...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// Subscribe returns a channel of new notifications and a cancel function.
func (r *Recorder) Subscribe(buffer int) (<-chan Notification, func()) {
	if buffer < 1 {
		buffer = 16
	}
	ch := make(chan Notification, buffer)

	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = ch
	r.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs, id)
			r.mu.Unlock()
			close(ch)
		})
	}
}
