// Package daemon serves a trip's schedule and map markers over HTTP and keeps
// them fresh by polling the store.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/theirongolddev/tripdeck/internal/notify"
	"github.com/theirongolddev/tripdeck/internal/pipeline"
	"github.com/theirongolddev/tripdeck/internal/search"
	"github.com/theirongolddev/tripdeck/internal/session"
)

// Config controls the daemon runtime behavior.
type Config struct {
	TripID       string
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	Location     *time.Location

	Source   pipeline.Source
	Creator  session.Creator // nil disables POST /v1/items
	Searcher *search.Merger  // nil disables search and item creation
	Notifier notify.Sink     // receives session notifications besides the recorder
}

// Snapshot is a compact dashboard state for status/event payloads.
type Snapshot struct {
	At          time.Time `json:"at"`
	Items       int       `json:"items"`
	Scheduled   int       `json:"scheduled"`
	Unscheduled int       `json:"unscheduled"`
	Days        int       `json:"days"`
	Places      int       `json:"places"`
	Markers     int       `json:"markers"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Items   int `json:"items"`
	Days    int `json:"days"`
	Places  int `json:"places"`
	Markers int `json:"markers"`
}

func (d Delta) isZero() bool {
	return d.Items == 0 && d.Days == 0 && d.Places == 0 && d.Markers == 0
}

// Event is emitted whenever the dashboard changes or a notification fires.
type Event struct {
	ID           int64                `json:"id"`
	Type         string               `json:"type"`
	Timestamp    time.Time            `json:"timestamp"`
	Snapshot     Snapshot             `json:"snapshot"`
	Delta        Delta                `json:"delta"`
	Notification *notify.Notification `json:"notification,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	TripID          string    `json:"trip_id"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg      Config
	recorder *notify.Recorder

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	dash        *pipeline.Dashboard
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 30 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	return &Service{
		cfg:       cfg,
		recorder:  notify.NewRecorder(cfg.EventsBuffer),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/schedule", s.handleSchedule)
	mux.HandleFunc("GET /v1/markers", s.handleMarkers)
	mux.HandleFunc("GET /v1/search", s.handleSearch)
	mux.HandleFunc("POST /v1/items", s.handleCreateItem)
	mux.HandleFunc("GET /v1/notifications", s.handleNotifications)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	return mux
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	notes, cancelNotes := s.recorder.Subscribe(32)
	defer cancelNotes()

	// Seed initial snapshot so status is useful immediately.
	_ = s.Poll(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			_ = s.Poll(ctx)
		case n := <-notes:
			s.publishNotification(n)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// Poll reloads the trip once and publishes an event when it changed.
func (s *Service) Poll(ctx context.Context) error {
	d, err := pipeline.Load(ctx, s.cfg.Source, s.cfg.TripID, pipeline.Options{Location: s.cfg.Location})
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = time.Now()
		s.pollCount++
		s.mu.Unlock()
		log.Printf("tripdeck daemon poll error: %v", err)
		return err
	}

	now := time.Now()
	snap := snapshotFromDashboard(d, now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.dash != nil

	s.dash = d
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		ev = Event{Type: "snapshot", Timestamp: now, Snapshot: snap}
		publish = true
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		ev = Event{Type: "trip_delta", Timestamp: now, Snapshot: snap, Delta: delta}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
	}
	return nil
}

func snapshotFromDashboard(d *pipeline.Dashboard, at time.Time) Snapshot {
	scheduled := 0
	for _, day := range d.Schedule.Days {
		scheduled += len(day.Items)
	}
	return Snapshot{
		At:          at,
		Items:       len(d.Items),
		Scheduled:   scheduled,
		Unscheduled: len(d.Schedule.Unscheduled),
		Days:        len(d.Schedule.Days),
		Places:      len(d.Places),
		Markers:     len(d.Board.Markers()),
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Items:   curr.Items - prev.Items,
		Days:    curr.Days - prev.Days,
		Places:  curr.Places - prev.Places,
		Markers: curr.Markers - prev.Markers,
	}
}

func (s *Service) publishNotification(n notify.Notification) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()
	s.publishEvent(Event{Type: "notification", Timestamp: n.At, Snapshot: snap, Notification: &n})
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) dashboard() *pipeline.Dashboard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dash
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		TripID:          s.cfg.TripID,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleSchedule(w http.ResponseWriter, _ *http.Request) {
	d := s.dashboard()
	if d == nil {
		writeError(w, http.StatusServiceUnavailable, "trip not loaded yet")
		return
	}
	writeJSON(w, http.StatusOK, scheduleResponse(d.Schedule, s.cfg.Location))
}

func (s *Service) handleMarkers(w http.ResponseWriter, r *http.Request) {
	d := s.dashboard()
	if d == nil {
		writeError(w, http.StatusServiceUnavailable, "trip not loaded yet")
		return
	}
	board := d.Board
	if z := r.URL.Query().Get("zoom"); z != "" {
		zoom, err := strconv.Atoi(z)
		if err != nil {
			writeError(w, http.StatusBadRequest, "zoom must be an integer")
			return
		}
		board = board.WithZoom(zoom)
	}
	if key := r.URL.Query().Get("focus"); key != "" {
		focused, ok := board.Focus(key)
		if !ok {
			writeError(w, http.StatusNotFound, "no marker "+strconv.Quote(key))
			return
		}
		board = focused
	}
	writeJSON(w, http.StatusOK, markersResponse{View: board.View(), Markers: board.Markers()})
}

func (s *Service) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Searcher == nil {
		writeError(w, http.StatusNotImplemented, "search is not configured")
		return
	}
	res := s.cfg.Searcher.Search(r.Context(), r.URL.Query().Get("q"))
	if res.RemoteErr != nil {
		log.Printf("tripdeck daemon search: %v", res.RemoteErr)
	}
	writeJSON(w, http.StatusOK, searchResponse(res))
}

func (s *Service) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Searcher == nil || s.cfg.Creator == nil {
		writeError(w, http.StatusNotImplemented, "item creation is not configured")
		return
	}
	var req createItemRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id, err := s.createItem(r.Context(), req)
	var ve *session.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "validation failed", "problems": ve.Messages()})
	case errors.Is(err, session.ErrUnknownCandidate):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, session.ErrCommit):
		writeError(w, http.StatusBadGateway, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})
	}
}

// createItem drives one add-item session: search, select, fill, commit.
func (s *Service) createItem(ctx context.Context, req createItemRequest) (string, error) {
	sinks := []notify.Sink{s.recorder}
	if s.cfg.Notifier != nil {
		sinks = append(sinks, s.cfg.Notifier)
	}
	sess := session.New(session.Options{
		TripID:   s.cfg.TripID,
		Creator:  s.cfg.Creator,
		Notifier: notify.Multi(sinks...),
		Location: s.cfg.Location,
		Reload:   s.Poll,
	})
	defer sess.Close()

	if req.Term != "" {
		res, _ := sess.Search(ctx, s.cfg.Searcher, req.Term)
		candidate := req.CandidateID
		if candidate == "" && len(res.Candidates) > 0 {
			candidate = res.Candidates[0].ID
		}
		if candidate != "" {
			if err := sess.Select(candidate); err != nil {
				return "", err
			}
		}
	}

	sess.SetName(req.Name)
	sess.SetNotes(req.Notes)
	if req.Category != "" {
		sess.SetCategory(req.Category)
	}
	if err := sess.SetPlanned(req.PlannedAt); err != nil {
		return "", err
	}
	sess.SetDuration(req.Duration)
	return sess.Commit(ctx)
}

func (s *Service) handleNotifications(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.recorder.All())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	writeSSE(w, Event{
		Type:      "snapshot",
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
