package notify

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestRecorderBoundsBuffer(t *testing.T) {
	r := NewRecorder(2)
	r.Notify("a", "1", Info)
	r.Notify("b", "2", Warning)
	r.Notify("c", "3", Error)

	all := r.All()
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}
	if all[0].Title != "b" || all[1].Title != "c" {
		t.Errorf("titles = %s, %s", all[0].Title, all[1].Title)
	}
	if all[1].ID != 3 {
		t.Errorf("id = %d, want 3", all[1].ID)
	}
	last, ok := r.Last()
	if !ok || last.Severity != Error {
		t.Errorf("Last() = %+v, %v", last, ok)
	}
}

func TestRecorderSubscribe(t *testing.T) {
	r := NewRecorder(10)
	ch, cancel := r.Subscribe(1)

	r.Notify("Saved", "ok", Success)
	r.Notify("Dropped", "buffer full", Info)

	got := <-ch
	if got.Title != "Saved" {
		t.Errorf("got %q, want Saved", got.Title)
	}
	cancel()
	cancel()
	if _, open := <-ch; open {
		t.Error("channel still open after cancel")
	}
	r.Notify("after", "cancel", Info)
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	Log{Logger: log.New(&buf, "", 0)}.Notify("Error Saving Item", "boom", Error)
	if got := strings.TrimSpace(buf.String()); got != "error: Error Saving Item: boom" {
		t.Errorf("log line = %q", got)
	}
}

func TestMulti(t *testing.T) {
	a, b := NewRecorder(5), NewRecorder(5)
	Multi(a, nil, b).Notify("t", "m", Info)
	if len(a.All()) != 1 || len(b.All()) != 1 {
		t.Errorf("fan-out failed: %d %d", len(a.All()), len(b.All()))
	}
}
