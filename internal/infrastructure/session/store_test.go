package session

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/domain"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestStore(opts ...Option) (*Store, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	return New(clock, opts...), clock
}

func TestAppendAndContext(t *testing.T) {
	store, _ := newTestStore()

	if err := store.Append("s1", "Where did you work?", "At AUSBIZ."); err != nil {
		t.Fatalf("append: %v", err)
	}
	ctx, err := store.Context("s1")
	if err != nil {
		t.Fatalf("context: %v", err)
	}
	want := "Previous conversation:\nUser: Where did you work?\nAssistant: At AUSBIZ."
	if ctx != want {
		t.Fatalf("unexpected context:\n%q\nwant:\n%q", ctx, want)
	}
}

func TestContextEmptyForFreshSession(t *testing.T) {
	store, _ := newTestStore()
	store.GetOrCreate("s1")

	ctx, err := store.Context("s1")
	if err != nil {
		t.Fatalf("context: %v", err)
	}
	if ctx != "" {
		t.Fatalf("expected empty context, got %q", ctx)
	}
}

func TestGetDoesNotCreate(t *testing.T) {
	store, _ := newTestStore()

	if _, ok := store.Get("missing"); ok {
		t.Fatalf("expected miss for unknown session")
	}
	if got := len(store.ActiveSessions()); got != 0 {
		t.Fatalf("expected no sessions created by Get, got %d", got)
	}

	if err := store.Append("s1", "Hi", "Hello!"); err != nil {
		t.Fatalf("append: %v", err)
	}
	sess, ok := store.Get("s1")
	if !ok {
		t.Fatalf("expected hit for existing session")
	}
	if len(sess.History) != 2 {
		t.Fatalf("expected 2 turns in snapshot, got %d", len(sess.History))
	}
}

func TestContextUnknownSession(t *testing.T) {
	store, _ := newTestStore()
	if _, err := store.Context("missing"); !domain.IsKind(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestHistoryTrimsToPairBudget(t *testing.T) {
	store, _ := newTestStore(WithMaxPairs(2))

	for i := 0; i < 5; i++ {
		if err := store.Append("s1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i)); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	stats, err := store.Stats("s1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TurnCount != 4 {
		t.Fatalf("expected 4 turns after trim, got %d", stats.TurnCount)
	}
	ctx, _ := store.Context("s1")
	if strings.Contains(ctx, "q0") || !strings.Contains(ctx, "q4") {
		t.Fatalf("trim kept wrong turns: %q", ctx)
	}
}

func TestContextFallsBackToRecentPairsOverBudget(t *testing.T) {
	store, _ := newTestStore(WithContextTokenBudget(50))

	long := strings.Repeat("x", 200)
	for i := 0; i < 5; i++ {
		store.Append("s1", fmt.Sprintf("question %d %s", i, long), fmt.Sprintf("answer %d %s", i, long))
	}
	ctx, err := store.Context("s1")
	if err != nil {
		t.Fatalf("context: %v", err)
	}
	if !strings.HasPrefix(ctx, "Recent conversation:") {
		t.Fatalf("expected trimmed label, got %q", ctx[:40])
	}
	if strings.Contains(ctx, "question 1 ") {
		t.Fatal("trimmed context should only keep the last pairs")
	}
	if !strings.Contains(ctx, "question 4 ") {
		t.Fatal("trimmed context missing latest pair")
	}
}

func TestSessionExpiresAfterIdleTimeout(t *testing.T) {
	store, clock := newTestStore(WithTimeout(30 * time.Minute))

	store.Append("s1", "q", "a")
	clock.advance(31 * time.Minute)

	if _, err := store.Stats("s1"); !domain.IsKind(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected expired session to be gone, got %v", err)
	}
}

func TestAccessRefreshesExpiry(t *testing.T) {
	store, clock := newTestStore(WithTimeout(30 * time.Minute))

	store.Append("s1", "q", "a")
	clock.advance(20 * time.Minute)
	if _, err := store.Stats("s1"); err != nil {
		t.Fatalf("session should still be alive: %v", err)
	}
	clock.advance(20 * time.Minute)
	// 40 minutes since creation but only 20 since last access.
	if _, err := store.Stats("s1"); err != nil {
		t.Fatalf("access should have refreshed expiry: %v", err)
	}
}

func TestDeleteAndActiveSessions(t *testing.T) {
	store, clock := newTestStore()

	store.GetOrCreate("s1")
	store.GetOrCreate("s2")
	if got := store.ActiveSessions(); len(got) != 2 {
		t.Fatalf("expected 2 active sessions, got %d", len(got))
	}
	if !store.Delete("s1") {
		t.Fatal("expected delete to succeed")
	}
	if store.Delete("s1") {
		t.Fatal("second delete must report false")
	}

	clock.advance(time.Hour)
	if got := store.ActiveSessions(); len(got) != 0 {
		t.Fatalf("expected expired sessions swept, got %d", len(got))
	}
}

func TestStatsReportsAges(t *testing.T) {
	store, clock := newTestStore()

	store.GetOrCreate("s1")
	clock.advance(5 * time.Minute)
	stats, err := store.Stats("s1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.SessionAge != 5*time.Minute {
		t.Fatalf("expected 5m age, got %v", stats.SessionAge)
	}
	if stats.LastActive != 0 {
		t.Fatalf("stats access refreshes last-active, got %v", stats.LastActive)
	}
}
