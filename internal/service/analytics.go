package service

import (
	"context"
	"fmt"
	"time"

	"github.com/suryard0605/medtrack/internal"
	"github.com/suryard0605/medtrack/internal/analytics"
	"github.com/suryard0605/medtrack/internal/storage"
)

// GetAnalytics fetches the account's snapshot and folds it into per-subject
// adherence reports. Any store failure fails the whole call; partial or
// stale analytics are never returned.
func GetAnalytics(ctx context.Context, members storage.MemberRepository, medicines storage.MedicineRepository, logs storage.DoseLogRepository, user *internal.User, rng *analytics.DateRange) ([]analytics.SubjectReport, error) {
	memberList, err := members.ListMembers(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: listing members: %v", internal.ErrStoreUnavailable, err)
	}
	medicineList, err := medicines.ListMedicines(ctx, user.ID, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: listing medicines: %v", internal.ErrStoreUnavailable, err)
	}
	logList, err := logs.ListDoseLogs(ctx, storage.DoseLogFilter{UserID: user.ID})
	if err != nil {
		return nil, fmt.Errorf("%w: listing dose logs: %v", internal.ErrStoreUnavailable, err)
	}
	return analytics.BuildReport(user, memberList, medicineList, logList, rng), nil
}

// GetTrends buckets a subject's trailing window of logs into a daily series.
// subjectID is a member id or "main" for the account holder.
func GetTrends(ctx context.Context, logs storage.DoseLogRepository, user *internal.User, subjectID string, windowDays int, now time.Time) ([]analytics.TrendPoint, error) {
	if windowDays <= 0 {
		windowDays = analytics.DefaultTrendWindowDays
	}
	memberID := subjectID
	if subjectID == analytics.MainSubjectID {
		memberID = ""
	}
	logList, err := logs.ListDoseLogs(ctx, storage.DoseLogFilter{
		UserID:   user.ID,
		MemberID: &memberID,
		From:     now.AddDate(0, 0, -windowDays),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: listing dose logs: %v", internal.ErrStoreUnavailable, err)
	}
	return analytics.BuildTrends(logList, memberID, now, windowDays), nil
}
