package state

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/tuneup/studio/internal/core/domain"
)

func TestStore_SnapshotIsDeepCopy(t *testing.T) {
	s := NewStore()
	ts := &domain.Timestamp{Seconds: 10}
	s.update(func(st *State) bool {
		st.Auth.User = &domain.User{UID: "u1"}
		st.Lessons.Items = []domain.Lesson{{ID: "l1", Title: "Scales", CreatedAt: ts}}
		st.Roster.MyStudents = []string{"s1"}
		return true
	})

	snap := s.Snapshot()
	snap.Auth.User.UID = "changed"
	snap.Lessons.Items[0].Title = "changed"
	snap.Lessons.Items[0].CreatedAt.Seconds = 99
	snap.Roster.MyStudents[0] = "changed"

	again := s.Snapshot()
	if again.Auth.User.UID != "u1" || again.Lessons.Items[0].Title != "Scales" ||
		again.Lessons.Items[0].CreatedAt.Seconds != 10 || again.Roster.MyStudents[0] != "s1" {
		t.Fatalf("snapshot mutation leaked into the store: %+v", again)
	}
}

func TestStore_SubscribeAndUnsubscribe(t *testing.T) {
	s := NewStore()
	var mu sync.Mutex
	var seen []bool

	unsubscribe := s.Subscribe(func(st State) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, st.Lessons.Loading)
	})

	s.update(func(st *State) bool { st.Lessons.Loading = true; return true })
	s.update(func(*State) bool { return false })
	unsubscribe()
	unsubscribe()
	s.update(func(st *State) bool { st.Lessons.Loading = false; return true })

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 || !seen[0] {
		t.Fatalf("expected exactly one notification with loading set, got %v", seen)
	}
}

func TestStore_ListenerMayReadStore(t *testing.T) {
	s := NewStore()
	var got string
	s.Subscribe(func(State) {
		got = s.Snapshot().Auth.Error
	})
	s.update(func(st *State) bool { st.Auth.Error = "boom"; return true })
	if got != "boom" {
		t.Errorf("expected listener to observe the update, got %q", got)
	}
}

func TestStore_ConcurrentUpdatesEndOnCurrentState(t *testing.T) {
	s := NewStore()
	entered := make(chan struct{})
	release := make(chan struct{})

	var (
		mu    sync.Mutex
		calls int
		last  []string
	)
	s.Subscribe(func(st State) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			close(entered)
			<-release
		}
		mu.Lock()
		last = st.Roster.MyStudents
		mu.Unlock()
	})

	add := func(id string) func(*State) bool {
		return func(st *State) bool {
			st.Roster.MyStudents = append(st.Roster.MyStudents, id)
			return true
		}
	}

	done := make(chan struct{})
	go func() {
		s.update(add("a"))
		close(done)
	}()
	<-entered
	// The first delivery is still blocked; this update must not be lost
	// behind it.
	s.update(add("b"))
	close(release)
	<-done

	mu.Lock()
	defer mu.Unlock()
	want := s.Snapshot().Roster.MyStudents
	if len(last) != 2 || last[0] != "a" || last[1] != "b" || len(want) != 2 {
		t.Fatalf("store=%v but last delivered=%v", want, last)
	}
}

func TestStore_ListenerMayUpdate(t *testing.T) {
	s := NewStore()
	var seen []string
	s.Subscribe(func(st State) {
		seen = append(seen, st.Auth.Error)
		if st.Auth.Error == "first" {
			s.update(func(st *State) bool { st.Auth.Error = "second"; return true })
		}
	})
	s.update(func(st *State) bool { st.Auth.Error = "first"; return true })
	if len(seen) != 2 || seen[1] != "second" {
		t.Fatalf("expected the nested update delivered after the first, got %v", seen)
	}
}

func TestDispatch(t *testing.T) {
	res := <-Dispatch(context.Background(), func(context.Context) (int, error) { return 42, nil })
	if res.Err != nil || res.Value != 42 {
		t.Errorf("unexpected result %+v", res)
	}

	boom := errors.New("boom")
	res = <-Dispatch(context.Background(), func(context.Context) (int, error) { return 0, boom })
	if !errors.Is(res.Err, boom) {
		t.Errorf("expected boom, got %v", res.Err)
	}
}

func TestDispatch_SettlesWithoutReader(t *testing.T) {
	f := newFixture(t, Options{})
	done := make(chan struct{})
	unsubscribe := f.studio.Store.Subscribe(func(st State) {
		if !st.Assignments.Loading && len(st.Assignments.Items) == 1 {
			select {
			case <-done:
			default:
				close(done)
			}
		}
	})
	defer unsubscribe()

	// Nobody reads the result channel.
	Dispatch(context.Background(), func(ctx context.Context) (domain.Assignment, error) {
		return f.studio.Assignments.Assign(ctx, "t", "s", "c", domain.ContentLesson, "")
	})
	<-done
}

func TestParseFetchOrdering(t *testing.T) {
	tests := []struct {
		in      string
		want    FetchOrdering
		wantErr bool
	}{
		{"", FetchArrival, false},
		{"arrival", FetchArrival, false},
		{" Issue ", FetchIssue, false},
		{"random", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFetchOrdering(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFetchOrdering(%q) = %q, %v", tt.in, got, err)
		}
		if tt.wantErr && !errors.Is(err, ErrUnknownOrdering) {
			t.Errorf("expected ErrUnknownOrdering, got %v", err)
		}
	}
}

func TestDecodeDocument(t *testing.T) {
	doc := domain.Document{ID: "t1", Data: map[string]any{
		"id":         "ignored",
		"title":      "Legato",
		"level":      float64(3),
		"difficulty": "Advanced",
		"createdAt":  map[string]any{"seconds": int64(5), "nanoseconds": int32(7)},
		"updatedAt":  "not a timestamp",
		"unknown":    true,
	}}
	tech, err := decodeDocument[domain.Technique](doc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tech.ID != "t1" || tech.Level != 3 || tech.Difficulty != domain.DifficultyAdvanced {
		t.Errorf("unexpected technic %+v", tech)
	}
	if tech.CreatedAt == nil || *tech.CreatedAt != (domain.Timestamp{Seconds: 5, Nanoseconds: 7}) {
		t.Errorf("unexpected createdAt %+v", tech.CreatedAt)
	}
	if tech.UpdatedAt == nil || *tech.UpdatedAt != (domain.Timestamp{}) {
		t.Errorf("expected an unparseable timestamp to decode as epoch, got %+v", tech.UpdatedAt)
	}
}
