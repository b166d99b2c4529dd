package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamboms/kbob-dating-app/models"
)

func newMatchService(now time.Time) (*MatchService, *memUserStore, *memInteractionStore) {
	users := newMemUserStore()
	ledger := newMemInteractionStore()
	svc := &MatchService{
		Users:  users,
		Ledger: ledger,
		Now:    func() time.Time { return now },
	}
	return svc, users, ledger
}

func profileIDs(profiles []models.PublicProfile) []string {
	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}
	return ids
}

func TestRecordLikeDetectsMutualMatch(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, users, _ := newMatchService(now)
	seedUser(t, users, "alice", true)
	seedUser(t, users, "bob", true)

	matched, err := svc.RecordLikeAndCheckMatch(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, matched)

	matched, err = svc.RecordLikeAndCheckMatch(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.True(t, matched)

	// Re-liking an existing match still reports it.
	matched, err = svc.RecordLikeAndCheckMatch(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, matched)
}

func TestRecordLikeValidation(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newMatchService(time.Now())
	seedUser(t, users, "alice", true)

	_, err := svc.RecordLikeAndCheckMatch(ctx, "alice", "alice")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.RecordLikeAndCheckMatch(ctx, "alice", "")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.RecordLikeAndCheckMatch(ctx, "alice", "ghost")
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.ErrorIs(t, svc.RecordSkip(ctx, "alice", "alice"), models.ErrInvalidInput)
}

func TestDiscoveryPoolExclusions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, users, ledger := newMatchService(now)

	seedUser(t, users, "me", true)
	seedUser(t, users, "skipped", true)
	seedUser(t, users, "liked", true)
	seedUser(t, users, "fresh", true)
	seedUser(t, users, "unverified", false)
	banned := seedUser(t, users, "banned", true)
	require.NoError(t, users.SetBanned(ctx, banned.UserID))

	require.NoError(t, ledger.UpsertSkip(ctx, "me", "skipped", now.Add(-time.Hour)))
	require.NoError(t, ledger.PutLike(ctx, "me", "liked", now.Add(-time.Hour)))

	pool, err := svc.DiscoveryPool(ctx, "me")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"fresh"}, profileIDs(pool))
}

func TestDiscoveryPoolSkipWindowBoundary(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, users, ledger := newMatchService(now)

	seedUser(t, users, "me", true)
	seedUser(t, users, "recent", true)
	seedUser(t, users, "stale", true)

	// One skip just inside the 3h window, one just outside.
	require.NoError(t, ledger.UpsertSkip(ctx, "me", "recent", now.Add(-models.SkipTTL+time.Second)))
	require.NoError(t, ledger.UpsertSkip(ctx, "me", "stale", now.Add(-models.SkipTTL-time.Second)))

	pool, err := svc.DiscoveryPool(ctx, "me")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"stale"}, profileIDs(pool))

	// The expired skip row was physically removed.
	skips, err := ledger.ListSkipsFrom(ctx, "me")
	require.NoError(t, err)
	require.Len(t, skips, 1)
	assert.Equal(t, "recent", skips[0].To)
}

func TestWindowsLapseExactlyAtCutoff(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, users, ledger := newMatchService(now)

	seedUser(t, users, "me", true)
	seedUser(t, users, "skipped", true)
	seedUser(t, users, "liker", true)

	// A skip aged exactly 3h and a like aged exactly 24h have both
	// lapsed: the skipped user reappears and the like is gone.
	require.NoError(t, ledger.UpsertSkip(ctx, "me", "skipped", now.Add(-models.SkipTTL)))
	require.NoError(t, ledger.PutLike(ctx, "liker", "me", now.Add(-models.LikeTTL)))

	pool, err := svc.DiscoveryPool(ctx, "me")
	require.NoError(t, err)
	assert.Contains(t, profileIDs(pool), "skipped")

	pending, err := svc.PendingLikes(ctx, "me")
	require.NoError(t, err)
	assert.Empty(t, pending)
	_, err = ledger.GetLike(ctx, "liker", "me")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRecordSkipRefreshesWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, users, ledger := newMatchService(now)

	seedUser(t, users, "me", true)
	seedUser(t, users, "bob", true)

	// An old, already expired skip.
	require.NoError(t, ledger.UpsertSkip(ctx, "me", "bob", now.Add(-4*time.Hour)))

	// Skipping again rolls the window forward.
	require.NoError(t, svc.RecordSkip(ctx, "me", "bob"))

	pool, err := svc.DiscoveryPool(ctx, "me")
	require.NoError(t, err)
	assert.Empty(t, profileIDs(pool))

	skips, err := ledger.ListSkipsFrom(ctx, "me")
	require.NoError(t, err)
	require.Len(t, skips, 1)
	assert.Equal(t, models.FormatTime(now), skips[0].CreatedAt)
}

func TestDiscoveryPoolLikeWindowBoundary(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, users, ledger := newMatchService(now)

	seedUser(t, users, "me", true)
	seedUser(t, users, "recent", true)
	seedUser(t, users, "stale", true)

	require.NoError(t, ledger.PutLike(ctx, "me", "recent", now.Add(-models.LikeTTL+time.Second)))
	require.NoError(t, ledger.PutLike(ctx, "me", "stale", now.Add(-models.LikeTTL-time.Second)))

	pool, err := svc.DiscoveryPool(ctx, "me")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"stale"}, profileIDs(pool))
}

func TestDiscoveryPoolCapsSize(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newMatchService(time.Now())
	seedUser(t, users, "me", true)
	for i := 0; i < models.DiscoveryPoolSize+10; i++ {
		seedUser(t, users, string(rune('a'+i%26))+string(rune('0'+i/26)), true)
	}

	pool, err := svc.DiscoveryPool(ctx, "me")
	require.NoError(t, err)
	assert.Len(t, pool, models.DiscoveryPoolSize)
}

func TestPendingLikes(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, users, ledger := newMatchService(now)

	seedUser(t, users, "me", true)
	seedUser(t, users, "early", true)
	seedUser(t, users, "late", true)
	seedUser(t, users, "expired", true)
	seedUser(t, users, "mutual", true)

	require.NoError(t, ledger.PutLike(ctx, "early", "me", now.Add(-2*time.Hour)))
	require.NoError(t, ledger.PutLike(ctx, "late", "me", now.Add(-time.Hour)))
	require.NoError(t, ledger.PutLike(ctx, "expired", "me", now.Add(-models.LikeTTL-time.Minute)))
	require.NoError(t, ledger.PutLike(ctx, "mutual", "me", now.Add(-time.Hour)))
	require.NoError(t, ledger.PutLike(ctx, "me", "mutual", now.Add(-time.Hour)))

	pending, err := svc.PendingLikes(ctx, "me")
	require.NoError(t, err)
	require.Len(t, pending, 2)
	// Most recent first; expired and mutual likes are excluded.
	assert.Equal(t, "late", pending[0].User.UserID)
	assert.Equal(t, "early", pending[1].User.UserID)

	// The expired inbound like was lazily purged.
	_, err = ledger.GetLike(ctx, "expired", "me")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPendingLikesSkipsDeletedLiker(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, users, ledger := newMatchService(now)

	seedUser(t, users, "me", true)
	require.NoError(t, ledger.PutLike(ctx, "ghost", "me", now.Add(-time.Hour)))

	pending, err := svc.PendingLikes(ctx, "me")
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestMatchesAreMutualAndUnwindowedByDefault(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, users, ledger := newMatchService(now)

	seedUser(t, users, "me", true)
	seedUser(t, users, "old-flame", true)
	seedUser(t, users, "one-way", true)

	// A mutual pair whose likes are far older than 24h.
	require.NoError(t, ledger.PutLike(ctx, "me", "old-flame", now.Add(-48*time.Hour)))
	require.NoError(t, ledger.PutLike(ctx, "old-flame", "me", now.Add(-48*time.Hour)))
	require.NoError(t, ledger.PutLike(ctx, "one-way", "me", now.Add(-time.Hour)))

	matches, err := svc.Matches(ctx, "me")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"old-flame"}, profileIDs(matches))
}

func TestMatchesWithLikeWindowEnforced(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, users, ledger := newMatchService(now)
	svc.EnforceLikeWindow = true

	seedUser(t, users, "me", true)
	seedUser(t, users, "old-flame", true)
	seedUser(t, users, "current", true)

	require.NoError(t, ledger.PutLike(ctx, "me", "old-flame", now.Add(-48*time.Hour)))
	require.NoError(t, ledger.PutLike(ctx, "old-flame", "me", now.Add(-48*time.Hour)))
	require.NoError(t, ledger.PutLike(ctx, "me", "current", now.Add(-time.Hour)))
	require.NoError(t, ledger.PutLike(ctx, "current", "me", now.Add(-time.Hour)))

	matches, err := svc.Matches(ctx, "me")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"current"}, profileIDs(matches))
}

func TestMatchDissolvesWhenALikeIsRemoved(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, users, ledger := newMatchService(now)

	seedUser(t, users, "me", true)
	seedUser(t, users, "bob", true)
	require.NoError(t, ledger.PutLike(ctx, "me", "bob", now))
	require.NoError(t, ledger.PutLike(ctx, "bob", "me", now))

	require.NoError(t, ledger.DeleteLikePair(ctx, "me", "bob"))

	matches, err := svc.Matches(ctx, "me")
	require.NoError(t, err)
	assert.Empty(t, matches)
}
