package cmd

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/theirongolddev/tripdeck/internal/config"
	"github.com/theirongolddev/tripdeck/internal/model"
	"github.com/theirongolddev/tripdeck/internal/store"
)

func testEnv(t *testing.T) *env {
	t.Helper()
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return &env{cfg: config.DefaultConfig(), store: s, loc: time.UTC}
}

func TestResolveTripOrder(t *testing.T) {
	e := testEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()

	trips := []model.Trip{
		{ID: "old", Name: "Old", StartDate: now.AddDate(-1, 0, 0), EndDate: now.AddDate(-1, 0, 3)},
		{ID: "live", Name: "Live", StartDate: now.AddDate(0, 0, -1), EndDate: now.AddDate(0, 0, 2)},
		{ID: "next", Name: "Next", StartDate: now.AddDate(0, 1, 0), EndDate: now.AddDate(0, 1, 4)},
	}
	for _, tr := range trips {
		if _, err := e.store.CreateTrip(ctx, tr); err != nil {
			t.Fatalf("CreateTrip: %v", err)
		}
	}

	t.Cleanup(func() { flagTrip = "" })

	flagTrip = ""
	got, err := e.resolveTrip(ctx)
	if err != nil || got.ID != "live" {
		t.Fatalf("default trip = %q, %v; want live", got.ID, err)
	}

	e.cfg.General.DefaultTrip = "next"
	if got, _ = e.resolveTrip(ctx); got.ID != "next" {
		t.Errorf("config trip = %q, want next", got.ID)
	}

	flagTrip = "old"
	if got, _ = e.resolveTrip(ctx); got.ID != "old" {
		t.Errorf("flag trip = %q, want old", got.ID)
	}

	flagTrip = "missing"
	if _, err := e.resolveTrip(ctx); err == nil {
		t.Error("unknown trip should fail")
	}
}

func TestResolveTripEmptyStore(t *testing.T) {
	e := testEnv(t)
	flagTrip = ""
	if _, err := e.resolveTrip(context.Background()); err != errNoTrips {
		t.Fatalf("err = %v, want errNoTrips", err)
	}
}

func TestSearcherOffline(t *testing.T) {
	e := testEnv(t)
	flagOffline = true
	t.Cleanup(func() { flagOffline = false })

	res := e.searcher().Search(context.Background(), "CDG")
	if res.Empty() || res.RemoteErr != nil {
		t.Fatalf("result = %+v", res)
	}
	if res.Candidates[0].Source != model.SourceLocal {
		t.Errorf("first source = %v, want local", res.Candidates[0].Source)
	}
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"daemon", "--detach", "--addr", ":9000", "--detach=true"})
	want := []string{"daemon", "--addr", ":9000"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("filterDetachArg = %v, want %v", got, want)
	}
}

func TestPIDFileRoundTrip(t *testing.T) {
	pf := pidFile(filepath.Join(t.TempDir(), "run", "tripdeckd.pid"))

	if err := pf.claimable(); err != nil {
		t.Fatalf("missing pid file should be claimable: %v", err)
	}

	st := daemonRuntimeState{PID: os.Getpid(), Addr: "127.0.0.1:8787", TripID: "t1", DB: "/tmp/x.db"}
	if err := pf.write(st); err != nil {
		t.Fatalf("write: %v", err)
	}
	pid, err := pf.pid()
	if err != nil || pid != st.PID {
		t.Fatalf("pid = %d, %v", pid, err)
	}
	back, err := pf.state()
	if err != nil || back.TripID != "t1" || back.Addr != st.Addr {
		t.Errorf("state = %+v, %v", back, err)
	}

	// Our own pid is alive, so the file is taken.
	if err := pf.claimable(); err == nil {
		t.Error("live pid should not be claimable")
	}

	pf.remove()
	if _, err := os.Stat(pf.statePath()); !os.IsNotExist(err) {
		t.Errorf("state file not removed: %v", err)
	}
}

func TestPIDFileInvalid(t *testing.T) {
	pf := pidFile(filepath.Join(t.TempDir(), "tripdeckd.pid"))
	if err := os.WriteFile(string(pf), []byte("nope\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := pf.pid(); err == nil {
		t.Error("garbage pid should fail")
	}
}
