package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/quizdesk/internal/api"
	"github.com/abhisek/quizdesk/internal/attempt"
	"github.com/abhisek/quizdesk/internal/store"
)

func TestSlotRepoBacksAttemptPersister(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "quiz.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	p := attempt.NewSlotPersister(s.Slots())

	want := &attempt.Attempt{
		ID:        "12",
		Number:    1,
		TestID:    "7",
		CourseID:  "3",
		StartedAt: time.Date(2026, 2, 2, 9, 30, 0, 0, time.UTC),
		Answers: map[api.ID]attempt.Answer{
			"1": attempt.SingleChoice("10"),
			"2": attempt.MultiChoice("20", "21"),
			"3": attempt.Text("free text"),
		},
	}
	if err := p.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil {
		t.Fatal("expected a stored attempt")
	}
	if got.ID != want.ID || got.TestID != want.TestID || !got.StartedAt.Equal(want.StartedAt) {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if a := got.Answers["2"]; !a.Multi || len(a.Values) != 2 {
		t.Errorf("multi answer = %+v", a)
	}

	if err := p.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	got, err = p.Load(ctx)
	if err != nil {
		t.Fatalf("Load after clear: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after clear, got %+v", got)
	}
}
