package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/hamboms/kbob-dating-app/models"
	"github.com/hamboms/kbob-dating-app/store"
)

// ReportService records abuse reports and backs the admin moderation
// views.
type ReportService struct {
	Users   store.UserStore
	Reports store.ReportStore

	// Now is swappable for tests. Defaults to time.Now.
	Now func() time.Time
}

func (s *ReportService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Submit files a report against another user. A reporter gets one report
// per target; a second attempt is rejected.
func (s *ReportService) Submit(ctx context.Context, reporterID, targetID, reason string) error {
	if targetID == "" || reason == "" {
		return fmt.Errorf("%w: target user and reason are required", models.ErrInvalidInput)
	}
	if reporterID == targetID {
		return fmt.Errorf("%w: cannot report yourself", models.ErrInvalidInput)
	}
	if _, err := s.Users.GetByID(ctx, targetID); err != nil {
		return fmt.Errorf("reported user: %w", err)
	}

	if _, err := s.Reports.Get(ctx, reporterID, targetID); err == nil {
		return fmt.Errorf("%w: you have already reported this user", models.ErrConflict)
	} else if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	report := &models.Report{
		ReporterID: reporterID,
		ReportedID: targetID,
		Reason:     reason,
		CreatedAt:  models.FormatTime(s.now()),
	}
	return s.Reports.Put(ctx, report)
}

// FlaggedUsers aggregates reports per target and returns every user at
// or above the threshold, most reported first. A non-positive threshold
// falls back to the default.
func (s *ReportService) FlaggedUsers(ctx context.Context, minReports int) ([]models.FlaggedUser, error) {
	if minReports <= 0 {
		minReports = models.ReportThreshold
	}

	reports, err := s.Reports.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	for _, r := range reports {
		counts[r.ReportedID]++
	}

	var flagged []models.FlaggedUser
	for userID, count := range counts {
		if count < minReports {
			continue
		}
		user, err := s.Users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				continue
			}
			return nil, err
		}
		flagged = append(flagged, models.FlaggedUser{
			UserID:       user.UserID,
			Name:         user.Name,
			Email:        user.Email,
			ProfileImage: user.ProfileImage,
			ReportCount:  count,
		})
	}

	sort.Slice(flagged, func(i, j int) bool {
		if flagged[i].ReportCount != flagged[j].ReportCount {
			return flagged[i].ReportCount > flagged[j].ReportCount
		}
		return flagged[i].UserID < flagged[j].UserID
	})
	return flagged, nil
}

// Sanction bans a user. Banning an already banned user is a no-op.
func (s *ReportService) Sanction(ctx context.Context, targetID string) error {
	user, err := s.Users.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if user.IsBanned {
		return nil
	}
	return s.Users.SetBanned(ctx, targetID)
}
