package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"taskdesk/internal/domain/auth"
	"taskdesk/internal/pkg/storage"
)

type failingStorage struct {
	storage.Storage
	failSet    bool
	failSetKey string
	failDelete bool
}

func (f *failingStorage) Set(ctx context.Context, key, value string) error {
	if f.failSet || (f.failSetKey != "" && key == f.failSetKey) {
		return errors.New("disk full")
	}
	return f.Storage.Set(ctx, key, value)
}

func (f *failingStorage) Delete(ctx context.Context, keys ...string) error {
	if f.failDelete {
		return errors.New("read-only")
	}
	return f.Storage.Delete(ctx, keys...)
}

var bob = auth.User{ID: "42", Username: "bob", Email: "bob@x.com"}

func TestSetAuthThenClearAuth(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStorage()
	s := NewStore(st, nil)

	if s.IsAuthenticated() {
		t.Fatal("new store must start signed out")
	}

	if err := s.SetAuth(ctx, bob, "tok-1"); err != nil {
		t.Fatalf("SetAuth: %v", err)
	}
	if !s.IsAuthenticated() || s.Token() != "tok-1" || s.User() == nil || s.User().ID != "42" {
		t.Fatalf("unexpected state after SetAuth: %+v", s.Snapshot())
	}

	tok, err := st.Get(ctx, storage.KeyToken)
	if err != nil || tok != "tok-1" {
		t.Fatalf("expected raw token persisted, got %q, %v", tok, err)
	}
	raw, err := st.Get(ctx, storage.KeySession)
	if err != nil {
		t.Fatalf("expected session blob persisted: %v", err)
	}
	var rec PersistedRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("blob not json: %v", err)
	}
	if !rec.State.IsAuthenticated || rec.State.Token != "tok-1" || rec.State.User.Username != "bob" {
		t.Fatalf("unexpected persisted record: %+v", rec)
	}

	if err := s.ClearAuth(ctx); err != nil {
		t.Fatalf("ClearAuth: %v", err)
	}
	if s.IsAuthenticated() || s.Token() != "" || s.User() != nil {
		t.Fatalf("unexpected state after ClearAuth: %+v", s.Snapshot())
	}
	for _, k := range []string{storage.KeyToken, storage.KeySession} {
		if _, ok, _ := storage.Lookup(ctx, st, k); ok {
			t.Fatalf("expected %s deleted", k)
		}
	}

	// idempotent
	if err := s.ClearAuth(ctx); err != nil {
		t.Fatalf("second ClearAuth: %v", err)
	}
}

func TestSetAuthRejectsEmptyToken(t *testing.T) {
	s := NewStore(storage.NewMemoryStorage(), nil)
	if err := s.SetAuth(context.Background(), bob, ""); err == nil {
		t.Fatal("expected error for empty token")
	}
	if s.IsAuthenticated() {
		t.Fatal("store must stay signed out")
	}
}

func TestSetAuthStorageFailureLeavesMemoryUntouched(t *testing.T) {
	st := &failingStorage{Storage: storage.NewMemoryStorage(), failSet: true}
	s := NewStore(st, nil)

	if err := s.SetAuth(context.Background(), bob, "tok"); err == nil {
		t.Fatal("expected persistence error")
	}
	if s.IsAuthenticated() {
		t.Fatal("memory must not change when persistence fails")
	}
}

func TestSetAuthTokenFailureKeepsPreviousSession(t *testing.T) {
	ctx := context.Background()
	st := &failingStorage{Storage: storage.NewMemoryStorage()}
	s := NewStore(st, nil)
	if err := s.SetAuth(ctx, bob, "tok-1"); err != nil {
		t.Fatalf("SetAuth: %v", err)
	}

	st.failSetKey = storage.KeyToken
	alice := auth.User{ID: "7", Username: "alice"}
	if err := s.SetAuth(ctx, alice, "tok-2"); err == nil {
		t.Fatal("expected token persistence error")
	}
	if s.Token() != "tok-1" || s.User().ID != "42" {
		t.Fatalf("memory changed after failed SetAuth: %+v", s.Snapshot())
	}

	// storage still pairs the old blob with the old token
	restored := NewStore(st, nil)
	if err := restored.Rehydrate(ctx); err != nil {
		t.Fatalf("Rehydrate: %v", err)
	}
	if !restored.IsAuthenticated() || restored.Token() != "tok-1" || restored.User().ID != "42" {
		t.Fatalf("expected previous session on disk, got %+v", restored.Snapshot())
	}
}

func TestSetAuthTokenFailureOnFirstLoginLeavesNoBlob(t *testing.T) {
	ctx := context.Background()
	st := &failingStorage{Storage: storage.NewMemoryStorage(), failSetKey: storage.KeyToken}
	s := NewStore(st, nil)

	if err := s.SetAuth(ctx, bob, "tok-1"); err == nil {
		t.Fatal("expected token persistence error")
	}
	if _, ok, _ := storage.Lookup(ctx, st, storage.KeySession); ok {
		t.Fatal("expected no persisted session after failed first login")
	}
}

func TestClearAuthResetsMemoryEvenWhenDeleteFails(t *testing.T) {
	ctx := context.Background()
	st := &failingStorage{Storage: storage.NewMemoryStorage()}
	s := NewStore(st, nil)
	if err := s.SetAuth(ctx, bob, "tok"); err != nil {
		t.Fatalf("SetAuth: %v", err)
	}

	st.failDelete = true
	if err := s.ClearAuth(ctx); err == nil {
		t.Fatal("expected delete error to surface")
	}
	if s.IsAuthenticated() {
		t.Fatal("memory must be reset regardless of storage")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore(storage.NewMemoryStorage(), nil)
	if err := s.SetAuth(context.Background(), bob, "tok"); err != nil {
		t.Fatalf("SetAuth: %v", err)
	}

	snap := s.Snapshot()
	snap.User.Username = "mallory"
	if s.User().Username != "bob" {
		t.Fatal("mutating a snapshot must not leak into the store")
	}
}

func TestRehydrate(t *testing.T) {
	ctx := context.Background()

	t.Run("restores persisted session", func(t *testing.T) {
		st := storage.NewMemoryStorage()
		if err := NewStore(st, nil).SetAuth(ctx, bob, "tok"); err != nil {
			t.Fatalf("SetAuth: %v", err)
		}

		reloaded := NewStore(st, nil)
		if err := reloaded.Rehydrate(ctx); err != nil {
			t.Fatalf("Rehydrate: %v", err)
		}
		if !reloaded.IsAuthenticated() || reloaded.Token() != "tok" || reloaded.User().ID != "42" {
			t.Fatalf("unexpected rehydrated state: %+v", reloaded.Snapshot())
		}
	})

	t.Run("empty storage stays signed out", func(t *testing.T) {
		s := NewStore(storage.NewMemoryStorage(), nil)
		if err := s.Rehydrate(ctx); err != nil {
			t.Fatalf("Rehydrate: %v", err)
		}
		if s.IsAuthenticated() {
			t.Fatal("expected signed out")
		}
	})

	t.Run("corrupt blob is discarded", func(t *testing.T) {
		st := storage.NewMemoryStorage()
		_ = st.Set(ctx, storage.KeySession, "{broken")
		_ = st.Set(ctx, storage.KeyToken, "tok")

		s := NewStore(st, nil)
		if err := s.Rehydrate(ctx); err != nil {
			t.Fatalf("Rehydrate: %v", err)
		}
		if s.IsAuthenticated() {
			t.Fatal("expected signed out")
		}
		if _, ok, _ := storage.Lookup(ctx, st, storage.KeyToken); ok {
			t.Fatal("expected token deleted with corrupt blob")
		}
	})

	t.Run("invariant violation is discarded", func(t *testing.T) {
		st := storage.NewMemoryStorage()
		_ = st.Set(ctx, storage.KeySession, `{"state":{"user":null,"token":"t","isAuthenticated":true},"version":0}`)

		s := NewStore(st, nil)
		if err := s.Rehydrate(ctx); err != nil {
			t.Fatalf("Rehydrate: %v", err)
		}
		if s.IsAuthenticated() {
			t.Fatal("expected signed out")
		}
	})

	t.Run("token key cleared externally", func(t *testing.T) {
		st := storage.NewMemoryStorage()
		if err := NewStore(st, nil).SetAuth(ctx, bob, "tok"); err != nil {
			t.Fatalf("SetAuth: %v", err)
		}
		_ = st.Delete(ctx, storage.KeyToken)

		s := NewStore(st, nil)
		if err := s.Rehydrate(ctx); err != nil {
			t.Fatalf("Rehydrate: %v", err)
		}
		if s.IsAuthenticated() {
			t.Fatal("expected signed out when the token key is gone")
		}
	})
}
