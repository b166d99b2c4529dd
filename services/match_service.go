package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/hamboms/kbob-dating-app/models"
	"github.com/hamboms/kbob-dating-app/store"
)

// MatchService derives discovery pools, pending likes and the match set
// from the interaction ledger. A match is never stored: it exists exactly
// while mutual like rows exist, and silently dissolves if one side's like
// is purged before a chat begins.
type MatchService struct {
	Users  store.UserStore
	Ledger store.InteractionStore

	// EnforceLikeWindow applies the 24h like window to the match list the
	// same way it applies to pending likes. The shipped behavior leaves
	// the match list unwindowed; the flag exists so product can flip the
	// policy without a code change.
	EnforceLikeWindow bool

	// Now is swappable for tests. Defaults to time.Now.
	Now func() time.Time
}

// PendingLike is one entry of the "liked you" list. LikedAt lets the UI
// count down to the 24h expiry.
type PendingLike struct {
	User    models.PublicProfile `json:"user"`
	LikedAt time.Time            `json:"likedAt"`
}

func (s *MatchService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// RecordLikeAndCheckMatch appends a like and reports whether it completed
// a mutual pair. The reciprocal check runs after the write has been
// persisted, so a reported match always corresponds to two durable rows.
func (s *MatchService) RecordLikeAndCheckMatch(ctx context.Context, from, to string) (bool, error) {
	if err := s.validatePair(ctx, from, to); err != nil {
		return false, err
	}

	if err := s.Ledger.PutLike(ctx, from, to, s.now()); err != nil {
		return false, fmt.Errorf("failed to record like: %w", err)
	}

	_, err := s.Ledger.GetLike(ctx, to, from)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check reciprocal like: %w", err)
	}
	return true, nil
}

// RecordSkip upserts a skip, refreshing its timestamp so the 3h exclusion
// window rolls instead of accumulating duplicate rows.
func (s *MatchService) RecordSkip(ctx context.Context, from, to string) error {
	if err := s.validatePair(ctx, from, to); err != nil {
		return err
	}
	if err := s.Ledger.UpsertSkip(ctx, from, to, s.now()); err != nil {
		return fmt.Errorf("failed to record skip: %w", err)
	}
	return nil
}

// DiscoveryPool returns a random sample of swipe candidates, excluding the
// requester, anyone they actively skipped or liked, and anyone unverified
// or banned. Expired skips are physically purged on the way through.
func (s *MatchService) DiscoveryPool(ctx context.Context, userID string) ([]models.PublicProfile, error) {
	now := s.now()

	if err := s.Ledger.DeleteExpiredSkips(ctx, userID, now.Add(-models.SkipTTL)); err != nil {
		return nil, fmt.Errorf("failed to sweep expired skips: %w", err)
	}

	exclude := map[string]struct{}{userID: {}}

	skips, err := s.Ledger.ListSkipsFrom(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, skip := range skips {
		exclude[skip.To] = struct{}{}
	}

	likeCutoff := now.Add(-models.LikeTTL)
	likes, err := s.Ledger.ListLikesFrom(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, like := range likes {
		// A like is active strictly inside its window; at exactly
		// cutoff it has lapsed and the target reappears.
		if models.ParseTime(like.CreatedAt).After(likeCutoff) {
			exclude[like.To] = struct{}{}
		}
	}

	candidates, err := s.Users.ListEligible(ctx)
	if err != nil {
		return nil, err
	}

	var eligible []models.PublicProfile
	for i := range candidates {
		if _, skip := exclude[candidates[i].UserID]; skip {
			continue
		}
		eligible = append(eligible, candidates[i].Public())
	}

	rand.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})
	if len(eligible) > models.DiscoveryPoolSize {
		eligible = eligible[:models.DiscoveryPoolSize]
	}
	return eligible, nil
}

// PendingLikes returns users who liked the requester within the last 24h
// and have not been liked back. Expired incoming likes are purged first.
func (s *MatchService) PendingLikes(ctx context.Context, userID string) ([]PendingLike, error) {
	now := s.now()
	cutoff := now.Add(-models.LikeTTL)

	if err := s.Ledger.DeleteExpiredLikesTo(ctx, userID, cutoff); err != nil {
		return nil, fmt.Errorf("failed to sweep expired likes: %w", err)
	}

	mine, err := s.Ledger.ListLikesFrom(ctx, userID)
	if err != nil {
		return nil, err
	}
	alreadyLiked := map[string]struct{}{}
	for _, like := range mine {
		alreadyLiked[like.To] = struct{}{}
	}

	incoming, err := s.Ledger.ListLikesTo(ctx, userID)
	if err != nil {
		return nil, err
	}

	var pending []PendingLike
	for _, like := range incoming {
		likedAt := models.ParseTime(like.CreatedAt)
		if !likedAt.After(cutoff) {
			continue
		}
		// A reciprocal like means this is a match, not a pending like.
		if _, matched := alreadyLiked[like.From]; matched {
			continue
		}
		liker, err := s.Users.GetByID(ctx, like.From)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				continue
			}
			return nil, err
		}
		pending = append(pending, PendingLike{User: liker.Public(), LikedAt: likedAt})
	}

	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].LikedAt.After(pending[j].LikedAt)
	})
	return pending, nil
}

// Matches returns every user with whom the requester currently shares a
// mutual like.
func (s *MatchService) Matches(ctx context.Context, userID string) ([]models.PublicProfile, error) {
	cutoff := s.now().Add(-models.LikeTTL)

	mine, err := s.Ledger.ListLikesFrom(ctx, userID)
	if err != nil {
		return nil, err
	}
	liked := map[string]struct{}{}
	for _, like := range mine {
		if s.EnforceLikeWindow && !models.ParseTime(like.CreatedAt).After(cutoff) {
			continue
		}
		liked[like.To] = struct{}{}
	}

	theirs, err := s.Ledger.ListLikesTo(ctx, userID)
	if err != nil {
		return nil, err
	}

	var matches []models.PublicProfile
	seen := map[string]struct{}{}
	for _, like := range theirs {
		if s.EnforceLikeWindow && !models.ParseTime(like.CreatedAt).After(cutoff) {
			continue
		}
		if _, mutual := liked[like.From]; !mutual {
			continue
		}
		if _, dup := seen[like.From]; dup {
			continue
		}
		seen[like.From] = struct{}{}

		partner, err := s.Users.GetByID(ctx, like.From)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				continue
			}
			return nil, err
		}
		matches = append(matches, partner.Public())
	}
	return matches, nil
}

func (s *MatchService) validatePair(ctx context.Context, from, to string) error {
	if to == "" {
		return fmt.Errorf("%w: target user id is required", models.ErrInvalidInput)
	}
	if from == to {
		return fmt.Errorf("%w: cannot act on yourself", models.ErrInvalidInput)
	}
	if _, err := s.Users.GetByID(ctx, from); err != nil {
		return fmt.Errorf("acting user: %w", err)
	}
	if _, err := s.Users.GetByID(ctx, to); err != nil {
		return fmt.Errorf("target user: %w", err)
	}
	return nil
}
