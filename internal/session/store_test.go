package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/findosh/tourdesk/internal/models"
)

func newTestStore(storage Storage, clock *fakeClock) *Store {
	return NewStore(NewPersistence(storage, 10*time.Minute, clock))
}

func TestStore_InitialState(t *testing.T) {
	s := newTestStore(NewMemoryStorage(), newFakeClock())
	st := s.State(context.Background())

	if st.Hydrated {
		t.Error("Expected store to start unhydrated")
	}
	if st.Language != models.LanguageSpanish {
		t.Errorf("Expected default language es, got %s", st.Language)
	}
	if st.Theme != ThemeAuto {
		t.Errorf("Expected default theme auto, got %s", st.Theme)
	}
	if st.SidebarCollapsed || st.Loading {
		t.Error("Expected sidebar expanded and not loading")
	}
	if got := s.Phase(context.Background()); got != PhaseHydrating {
		t.Errorf("Expected phase %s, got %s", PhaseHydrating, got)
	}
}

func TestStore_HydrateWithoutRecord(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(NewMemoryStorage(), newFakeClock())

	s.Hydrate(ctx)

	if s.CurrentUser(ctx) != nil {
		t.Error("Expected no user")
	}
	if got := s.Phase(ctx); got != PhaseUnauthenticated {
		t.Errorf("Expected phase %s, got %s", PhaseUnauthenticated, got)
	}
}

func TestStore_PersistThenHydrate(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	clock := newFakeClock()
	user := testUser(models.RoleAdmin)

	first := newTestStore(storage, clock)
	first.Hydrate(ctx)
	if err := first.SetUser(ctx, user); err != nil {
		t.Fatalf("SetUser failed: %v", err)
	}

	second := newTestStore(storage, clock)
	second.Hydrate(ctx)

	assertSameUser(t, second.CurrentUser(ctx), user)
	if got := second.Phase(ctx); got != PhaseAuthenticated {
		t.Errorf("Expected phase %s, got %s", PhaseAuthenticated, got)
	}
	st := second.State(ctx)
	if st.ExpiresAt == nil || !st.ExpiresAt.Equal(clock.Now().Add(10*time.Minute)) {
		t.Errorf("Expected restored expiry, got %v", st.ExpiresAt)
	}
}

func TestStore_HydrateCorruptRecord(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	storage.Set(ctx, RecordKey, []byte("{not json"))

	s := newTestStore(storage, newFakeClock())
	s.Hydrate(ctx)

	if s.CurrentUser(ctx) != nil {
		t.Error("Expected no user from a corrupt record")
	}
	if !s.State(ctx).Hydrated {
		t.Error("Expected hydration to complete")
	}
	if storage.Len() != 0 {
		t.Error("Expected corrupt record to be removed")
	}
}

func TestStore_HydrateAfterTTL(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	clock := newFakeClock()

	first := newTestStore(storage, clock)
	first.Hydrate(ctx)
	first.SetUser(ctx, testUser(models.RoleEditor))

	clock.Advance(11 * time.Minute)

	second := newTestStore(storage, clock)
	second.Hydrate(ctx)

	if second.CurrentUser(ctx) != nil {
		t.Error("Expected no user after 11 minutes")
	}
	if storage.Len() != 0 {
		t.Error("Expected expired record to be deleted")
	}
}

func TestStore_HydrateStorageFailure(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(failingStorage{}, newFakeClock())

	s.Hydrate(ctx)

	if got := s.Phase(ctx); got != PhaseUnauthenticated {
		t.Errorf("Expected phase %s, got %s", PhaseUnauthenticated, got)
	}
}

func TestStore_ToggleSidebarDoesNotPersist(t *testing.T) {
	ctx := context.Background()
	storage := newCountingStorage()
	s := newTestStore(storage, newFakeClock())
	s.Hydrate(ctx)

	user := testUser(models.RoleAdmin)
	s.SetUser(ctx, user)
	setsBefore, deletesBefore := storage.writes()

	s.ToggleSidebar()

	setsAfter, deletesAfter := storage.writes()
	if setsAfter != setsBefore || deletesAfter != deletesBefore {
		t.Errorf("Expected no storage writes, sets %d->%d deletes %d->%d",
			setsBefore, setsAfter, deletesBefore, deletesAfter)
	}
	st := s.State(ctx)
	if !st.SidebarCollapsed {
		t.Error("Expected sidebar to be collapsed")
	}
	assertSameUser(t, st.CurrentUser, user)
}

func TestStore_PreferencesDoNotPersist(t *testing.T) {
	ctx := context.Background()
	storage := newCountingStorage()
	s := newTestStore(storage, newFakeClock())
	s.Hydrate(ctx)

	if err := s.SetLanguage(models.LanguageValencian); err != nil {
		t.Fatalf("SetLanguage failed: %v", err)
	}
	if err := s.SetTheme(ThemeDark); err != nil {
		t.Fatalf("SetTheme failed: %v", err)
	}
	s.SetLoading(true)

	if sets, deletes := storage.writes(); sets != 0 || deletes != 0 {
		t.Errorf("Expected no storage writes, got %d sets %d deletes", sets, deletes)
	}
	st := s.State(ctx)
	if st.Language != models.LanguageValencian || st.Theme != ThemeDark || !st.Loading {
		t.Errorf("Unexpected state %+v", st)
	}
}

func TestStore_LogoutDeletesRecord(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	s := newTestStore(storage, newFakeClock())
	s.Hydrate(ctx)
	s.SetUser(ctx, testUser(models.RoleAdmin))

	if err := s.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if s.CurrentUser(ctx) != nil {
		t.Error("Expected no user after logout")
	}
	if storage.Len() != 0 {
		t.Error("Expected record to be deleted on logout")
	}
	if got := s.Phase(ctx); got != PhaseUnauthenticated {
		t.Errorf("Expected phase %s, got %s", PhaseUnauthenticated, got)
	}
}

func TestStore_SetUserNilLogsOut(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	s := newTestStore(storage, newFakeClock())
	s.Hydrate(ctx)
	s.SetUser(ctx, testUser(models.RoleAdmin))

	if err := s.SetUser(ctx, nil); err != nil {
		t.Fatalf("SetUser(nil) failed: %v", err)
	}
	if s.CurrentUser(ctx) != nil || storage.Len() != 0 {
		t.Error("Expected SetUser(nil) to behave like logout")
	}
}

func TestStore_ExpiryDetectedOnRead(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	clock := newFakeClock()
	s := newTestStore(storage, clock)
	s.Hydrate(ctx)
	s.SetUser(ctx, testUser(models.RoleAdmin))

	clock.Advance(9 * time.Minute)
	if s.CurrentUser(ctx) == nil {
		t.Fatal("Expected user to still be logged in after 9 minutes")
	}

	clock.Advance(time.Minute)
	if s.CurrentUser(ctx) != nil {
		t.Error("Expected user to be logged out at expiry")
	}
	if storage.Len() != 0 {
		t.Error("Expected record to be deleted once expiry is detected")
	}
}

func TestStore_UnrelatedActionsDoNotExtendSession(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	s := newTestStore(NewMemoryStorage(), clock)
	s.Hydrate(ctx)
	s.SetUser(ctx, testUser(models.RoleAdmin))
	expiresAt := *s.State(ctx).ExpiresAt

	clock.Advance(5 * time.Minute)
	s.ToggleSidebar()
	s.SetLanguage(models.LanguageEnglish)

	if got := *s.State(ctx).ExpiresAt; !got.Equal(expiresAt) {
		t.Errorf("Expected expiry to stay %s, got %s", expiresAt, got)
	}
}

func TestStore_DispatchRejectsInvalidActions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(NewMemoryStorage(), newFakeClock())
	s.Hydrate(ctx)
	before := s.State(ctx)

	tests := []struct {
		name   string
		action Action
		want   error
	}{
		{"unknown type", Action{Type: "RESET"}, ErrUnknownAction},
		{"internal type", Action{Type: actionHydrated}, ErrUnknownAction},
		{"bad language", Action{Type: ActionSetLanguage, Language: "fr"}, ErrInvalidPayload},
		{"bad theme", Action{Type: ActionSetTheme, Theme: "sepia"}, ErrInvalidPayload},
		{"missing user", Action{Type: ActionSetUser}, ErrInvalidPayload},
		{"invalid user", Action{Type: ActionSetUser, User: &models.User{Name: "x"}}, ErrInvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Dispatch(ctx, tt.action); !errors.Is(err, tt.want) {
				t.Errorf("Dispatch(%s) error = %v, want %v", tt.action.Type, err, tt.want)
			}
		})
	}

	if after := s.State(ctx); after != before {
		t.Errorf("Expected state unchanged, got %+v", after)
	}
}

func TestStore_PersistFailureStillTransitions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(failingStorage{}, newFakeClock())
	s.Hydrate(ctx)

	err := s.SetUser(ctx, testUser(models.RoleAdmin))
	if !errors.Is(err, errStorageDown) {
		t.Errorf("Expected storage error, got %v", err)
	}
	if s.CurrentUser(ctx) == nil {
		t.Error("Expected user to be set despite the failed write")
	}
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(NewMemoryStorage(), newFakeClock())
	s.Hydrate(ctx)

	user := testUser(models.RoleEditor)
	s.SetUser(ctx, user)
	user.Role = models.RoleAdmin

	got := s.CurrentUser(ctx)
	if got.Role != models.RoleEditor {
		t.Errorf("Store must not alias the caller's user, got role %s", got.Role)
	}
	got.Name = "changed"
	if s.CurrentUser(ctx).Name == "changed" {
		t.Error("Store must not alias returned users")
	}
}

func TestStore_Subscribe(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(NewMemoryStorage(), newFakeClock())

	var phases []Phase
	unsubscribe := s.Subscribe(func(st State) {
		phases = append(phases, PhaseOf(st))
	})

	s.Hydrate(ctx)
	s.SetUser(ctx, testUser(models.RoleAdmin))
	s.ToggleSidebar()
	s.Logout(ctx)
	unsubscribe()
	s.ToggleSidebar()

	want := []Phase{PhaseUnauthenticated, PhaseAuthenticated, PhaseAuthenticated, PhaseUnauthenticated}
	if len(phases) != len(want) {
		t.Fatalf("Expected %d notifications, got %d (%v)", len(want), len(phases), phases)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Errorf("Notification %d: got %s, want %s", i, phases[i], want[i])
		}
	}
}

func TestStore_SubscribersNotifiedInOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(NewMemoryStorage(), newFakeClock())
	s.Hydrate(ctx)

	var calls []int
	unsubscribe := make([]func(), 0, 8)
	for i := 0; i < 8; i++ {
		i := i
		unsubscribe = append(unsubscribe, s.Subscribe(func(State) { calls = append(calls, i) }))
	}
	unsubscribe[3]()

	s.ToggleSidebar()
	s.ToggleSidebar()

	want := []int{0, 1, 2, 4, 5, 6, 7, 0, 1, 2, 4, 5, 6, 7}
	if len(calls) != len(want) {
		t.Fatalf("Expected %d calls, got %v", len(want), calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("Expected subscription order %v, got %v", want, calls)
		}
	}
}

func TestStore_SetUserRejectsInvalidUser(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	clock := newFakeClock()
	s := newTestStore(storage, clock)
	s.Hydrate(ctx)

	user := testUser(models.RoleAdmin)
	user.Language = ""

	if err := s.SetUser(ctx, user); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("Expected ErrInvalidPayload, got %v", err)
	}
	if got := s.Phase(ctx); got != PhaseUnauthenticated {
		t.Errorf("Expected unauthenticated after rejected user, got %s", got)
	}
	if _, err := storage.Get(ctx, RecordKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected no record written, got %v", err)
	}

	// a valid user still round-trips through a fresh store
	if err := s.SetUser(ctx, testUser(models.RoleAdmin)); err != nil {
		t.Fatalf("SetUser failed: %v", err)
	}
	fresh := newTestStore(storage, clock)
	fresh.Hydrate(ctx)
	if got := fresh.Phase(ctx); got != PhaseAuthenticated {
		t.Errorf("Expected rehydrated store to be authenticated, got %s", got)
	}
}

func TestStore_Refresh(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	clock := newFakeClock()

	a := newTestStore(storage, clock)
	b := newTestStore(storage, clock)
	a.Hydrate(ctx)
	b.Hydrate(ctx)

	a.SetUser(ctx, testUser(models.RoleEditor))
	b.Refresh(ctx)
	assertSameUser(t, b.CurrentUser(ctx), testUser(models.RoleEditor))

	var notified int
	b.Subscribe(func(State) { notified++ })
	b.Refresh(ctx)
	if notified != 0 {
		t.Errorf("Expected no notification for an unchanged record, got %d", notified)
	}

	a.Logout(ctx)
	b.Refresh(ctx)
	if got := b.Phase(ctx); got != PhaseUnauthenticated {
		t.Errorf("Expected logout to reach the other store, got %s", got)
	}
}

func TestStore_RefreshKeepsStateOnStorageError(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	storage := NewMemoryStorage()
	s := newTestStore(storage, clock)
	s.Hydrate(ctx)
	s.SetUser(ctx, testUser(models.RoleAdmin))

	s.persistence.storage = failingStorage{}
	s.Refresh(ctx)

	if s.CurrentUser(ctx) == nil {
		t.Error("Expected user kept when storage is unreadable")
	}
}

func TestStore_HydrateTwiceIsNoop(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	s := newTestStore(storage, newFakeClock())
	s.Hydrate(ctx)

	storage.Set(ctx, RecordKey, []byte("garbage"))
	s.Hydrate(ctx)

	if storage.Len() != 1 {
		t.Error("Second Hydrate must not read the record again")
	}
}

func TestReduce(t *testing.T) {
	user := testUser(models.RoleAuditor)
	expiry := time.Date(2025, 2, 15, 9, 10, 0, 0, time.UTC)
	base := InitialState(models.LanguageSpanish)
	base.Hydrated = true

	tests := []struct {
		name   string
		state  State
		action Action
		check  func(State) bool
	}{
		{"set user", base, Action{Type: ActionSetUser, User: user, ExpiresAt: &expiry},
			func(s State) bool { return s.CurrentUser == user && s.ExpiresAt == &expiry }},
		{"set nil user ignored", base, Action{Type: ActionSetUser},
			func(s State) bool { return s == base }},
		{"set invalid user ignored", base, Action{Type: ActionSetUser, User: &models.User{Name: "x"}},
			func(s State) bool { return s == base }},
		{"logout", State{CurrentUser: user, ExpiresAt: &expiry, Hydrated: true}, Action{Type: ActionLogout},
			func(s State) bool { return s.CurrentUser == nil && s.ExpiresAt == nil && s.Hydrated }},
		{"language", base, Action{Type: ActionSetLanguage, Language: models.LanguageEnglish},
			func(s State) bool { return s.Language == models.LanguageEnglish }},
		{"invalid language ignored", base, Action{Type: ActionSetLanguage, Language: "de"},
			func(s State) bool { return s == base }},
		{"toggle sidebar", base, Action{Type: ActionToggleSidebar},
			func(s State) bool { return s.SidebarCollapsed }},
		{"loading", base, Action{Type: ActionSetLoading, Loading: true},
			func(s State) bool { return s.Loading }},
		{"theme", base, Action{Type: ActionSetTheme, Theme: ThemeLight},
			func(s State) bool { return s.Theme == ThemeLight }},
		{"unknown ignored", base, Action{Type: "NOPE"},
			func(s State) bool { return s == base }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reduce(tt.state, tt.action); !tt.check(got) {
				t.Errorf("Reduce(%s) gave unexpected state %+v", tt.action.Type, got)
			}
		})
	}
}
