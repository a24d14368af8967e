package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/suryard0605/medtrack/internal"
)

func log(medID, memberID, status string, when time.Time) internal.DoseLog {
	return internal.DoseLog{UserID: "u1", MemberID: memberID, MedicineID: medID, Status: status, Time: when}
}

func TestRate(t *testing.T) {
	assert.Equal(t, 0.0, Rate(0, 0))
	assert.Equal(t, 100.0, Rate(3, 0))
	assert.Equal(t, 0.0, Rate(0, 2))
	assert.Equal(t, 66.67, Rate(2, 1))
	assert.Equal(t, 33.33, Rate(1, 2))
}

func TestBuildReport_MainSubjectAlwaysFirst(t *testing.T) {
	user := &internal.User{ID: "u1", Name: "Surya", Email: "surya@example.com"}
	members := []internal.Member{
		{ID: "m1", UserID: "u1", Name: "Amma", Email: "amma@example.com"},
	}

	reports := BuildReport(user, members, nil, nil, nil)
	assert.Len(t, reports, 2)
	assert.Equal(t, MainSubjectID, reports[0].Subject.ID)
	assert.True(t, reports[0].Subject.IsMainUser)
	assert.Equal(t, "Surya", reports[0].Subject.Name)
	assert.Equal(t, "m1", reports[1].Subject.ID)

	// zero medicines is a zero report, not an error
	assert.Empty(t, reports[0].Medicines)
	assert.Equal(t, 0, reports[0].Summary.TotalMedicines)
	assert.Equal(t, 0.0, reports[0].Summary.AdherenceRate)
}

func TestBuildReport_AnonymousMainSubject(t *testing.T) {
	reports := BuildReport(nil, nil, nil, nil, nil)
	assert.Len(t, reports, 1)
	assert.Equal(t, "You", reports[0].Subject.Name)
}

func TestBuildReport_PerMedicineAdherence(t *testing.T) {
	user := &internal.User{ID: "u1", Name: "Surya"}
	meds := []internal.Medicine{
		{ID: "med1", UserID: "u1", Name: "Paracetamol", Dosage: "500mg", TimesPerDay: 3},
	}
	now := time.Now()
	logs := []internal.DoseLog{
		log("med1", "", internal.StatusTaken, now.Add(-3*time.Hour)),
		log("med1", "", internal.StatusTaken, now.Add(-2*time.Hour)),
		log("med1", "", internal.StatusMissed, now.Add(-1*time.Hour)),
	}

	reports := BuildReport(user, nil, meds, logs, nil)
	assert.Len(t, reports[0].Medicines, 1)
	stats := reports[0].Medicines[0]
	assert.Equal(t, "Paracetamol", stats.Name)
	assert.Equal(t, 2, stats.Taken)
	assert.Equal(t, 1, stats.Missed)
	assert.Equal(t, 66.67, stats.AdherenceRate)
	assert.Equal(t, 66.67, reports[0].Summary.AdherenceRate)
}

func TestBuildReport_SummaryIsTakenWeighted(t *testing.T) {
	user := &internal.User{ID: "u1"}
	meds := []internal.Medicine{
		{ID: "a", UserID: "u1", Name: "A"},
		{ID: "b", UserID: "u1", Name: "B"},
	}
	now := time.Now()
	// A: 1/1 taken (100%), B: 1/3 taken (33.33%).
	// Taken-weighted summary is 2/4 = 50%, not the 66.67% average of rates.
	logs := []internal.DoseLog{
		log("a", "", internal.StatusTaken, now),
		log("b", "", internal.StatusTaken, now),
		log("b", "", internal.StatusMissed, now),
		log("b", "", internal.StatusMissed, now),
	}

	reports := BuildReport(user, nil, meds, logs, nil)
	summary := reports[0].Summary
	assert.Equal(t, 2, summary.TotalMedicines)
	assert.Equal(t, 2, summary.TotalTaken)
	assert.Equal(t, 2, summary.TotalMissed)
	assert.Equal(t, 50.0, summary.AdherenceRate)
}

func TestBuildReport_SubjectMatchingIsExact(t *testing.T) {
	user := &internal.User{ID: "u1"}
	members := []internal.Member{{ID: "m1", UserID: "u1", Name: "Amma"}}
	meds := []internal.Medicine{
		{ID: "mine", UserID: "u1", Name: "Mine"},
		{ID: "hers", UserID: "u1", MemberID: "m1", Name: "Hers"},
	}
	now := time.Now()
	logs := []internal.DoseLog{
		log("mine", "", internal.StatusTaken, now),
		log("hers", "m1", internal.StatusMissed, now),
		// a log pointing at the right medicine but wrong subject counts nowhere
		log("hers", "", internal.StatusTaken, now),
	}

	reports := BuildReport(user, members, meds, logs, nil)
	assert.Equal(t, 1, reports[0].Summary.TotalTaken)
	assert.Equal(t, 0, reports[0].Summary.TotalMissed)
	assert.Equal(t, 0, reports[1].Summary.TotalTaken)
	assert.Equal(t, 1, reports[1].Summary.TotalMissed)
}

func TestBuildReport_DateRangeInclusive(t *testing.T) {
	user := &internal.User{ID: "u1"}
	meds := []internal.Medicine{{ID: "med1", UserID: "u1", Name: "A"}}
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2026, 3, 7, 23, 59, 59, 0, time.Local)
	logs := []internal.DoseLog{
		log("med1", "", internal.StatusTaken, start),                   // on start bound
		log("med1", "", internal.StatusTaken, end),                     // on end bound
		log("med1", "", internal.StatusMissed, start.Add(-time.Second)), // just before
		log("med1", "", internal.StatusMissed, end.Add(time.Second)),    // just after
	}

	reports := BuildReport(user, nil, meds, logs, &DateRange{Start: start, End: end})
	assert.Equal(t, 2, reports[0].Summary.TotalTaken)
	assert.Equal(t, 0, reports[0].Summary.TotalMissed)
}
