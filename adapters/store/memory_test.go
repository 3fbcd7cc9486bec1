package store

import (
	"context"
	"testing"

	"goscreen/domain/core"
	"goscreen/domain/screening"
)

func newSession(t *testing.T) *screening.Session {
	t.Helper()
	session, err := screening.NewSession(screening.SessionConfig{TrialCount: 3})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return session
}

func TestMemorySessionStore_SaveAndGet(t *testing.T) {
	s := NewMemorySessionStore()
	ctx := context.Background()

	session := newSession(t)
	if err := s.Save(ctx, session); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Get(ctx, session.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != session {
		t.Error("Get returned a different session instance")
	}
}

func TestMemorySessionStore_GetMissing(t *testing.T) {
	s := NewMemorySessionStore()

	_, err := s.Get(context.Background(), core.SessionID(core.NewID()))
	if !core.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestMemorySessionStore_Delete(t *testing.T) {
	s := NewMemorySessionStore()
	ctx := context.Background()

	session := newSession(t)
	if err := s.Save(ctx, session); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(ctx, session.ID()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, session.ID()); !core.IsNotFound(err) {
		t.Errorf("expected not-found after delete, got %v", err)
	}

	// Deleting again is a no-op.
	if err := s.Delete(ctx, session.ID()); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestMemorySessionStore_List(t *testing.T) {
	s := NewMemorySessionStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.Save(ctx, newSession(t)); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	sessions, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(sessions) != 3 {
		t.Errorf("List returned %d sessions, want 3", len(sessions))
	}
}
