// Package analytics derives adherence reports and daily trend series from
// medicines and dose logs. Everything here is pure: callers fetch the
// snapshot, these functions fold it.
package analytics

import (
	"math"
	"time"

	"github.com/suryard0605/medtrack/internal"
)

// SubjectInfo identifies whose report this is: the main account holder or a
// family member.
type SubjectInfo struct {
	ID         string `json:"id"` // "main" for the account holder
	Name       string `json:"name"`
	Email      string `json:"email"`
	Age        string `json:"age,omitempty"`
	IsMainUser bool   `json:"is_main_user"`
}

type MedicineStats struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Dosage        string  `json:"dosage,omitempty"`
	TimesPerDay   int     `json:"times_per_day"`
	Taken         int     `json:"taken"`
	Missed        int     `json:"missed"`
	AdherenceRate float64 `json:"adherence_rate"`
}

type Summary struct {
	TotalMedicines int     `json:"total_medicines"`
	TotalTaken     int     `json:"total_taken"`
	TotalMissed    int     `json:"total_missed"`
	AdherenceRate  float64 `json:"adherence_rate"`
}

type SubjectReport struct {
	Subject   SubjectInfo     `json:"member"`
	Medicines []MedicineStats `json:"medicines"`
	Summary   Summary         `json:"summary"`
}

// DateRange restricts which logs count, inclusive on both bounds.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// MainSubjectID is the synthetic subject id for the account holder, who is
// never stored as a member row.
const MainSubjectID = "main"

// BuildReport produces one report per subject for an account. The main
// subject's report always comes first and is present even with zero
// medicines; member reports follow in the order members were retrieved.
func BuildReport(user *internal.User, members []internal.Member, medicines []internal.Medicine, logs []internal.DoseLog, rng *DateRange) []SubjectReport {
	reports := make([]SubjectReport, 0, len(members)+1)

	main := SubjectInfo{ID: MainSubjectID, Name: "You", IsMainUser: true}
	if user != nil {
		main.Email = user.Email
		main.Age = user.Age
		if user.Name != "" {
			main.Name = user.Name
		}
	}
	reports = append(reports, buildSubjectReport(main, "", medicines, logs, rng))

	for _, m := range members {
		info := SubjectInfo{ID: m.ID, Name: m.Name, Email: m.Email, Age: m.Age}
		reports = append(reports, buildSubjectReport(info, m.ID, medicines, logs, rng))
	}
	return reports
}

func buildSubjectReport(info SubjectInfo, memberID string, medicines []internal.Medicine, logs []internal.DoseLog, rng *DateRange) SubjectReport {
	report := SubjectReport{Subject: info, Medicines: []MedicineStats{}}
	for _, med := range medicines {
		if med.MemberID != memberID {
			continue
		}
		taken, missed := countLogs(med, logs, rng)
		report.Medicines = append(report.Medicines, MedicineStats{
			ID:            med.ID,
			Name:          med.Name,
			Dosage:        med.Dosage,
			TimesPerDay:   med.TimesPerDay,
			Taken:         taken,
			Missed:        missed,
			AdherenceRate: Rate(taken, missed),
		})
		report.Summary.TotalMedicines++
		report.Summary.TotalTaken += taken
		report.Summary.TotalMissed += missed
	}
	// The summary rate is taken-weighted across all logs, not an average of
	// the per-medicine rates.
	report.Summary.AdherenceRate = Rate(report.Summary.TotalTaken, report.Summary.TotalMissed)
	return report
}

// countLogs tallies taken/missed logs for one medicine. A log counts only if
// both its medicine and its subject match; a main-subject medicine never
// absorbs a member's logs and vice versa.
func countLogs(med internal.Medicine, logs []internal.DoseLog, rng *DateRange) (taken, missed int) {
	for _, l := range logs {
		if l.MedicineID != med.ID || l.MemberID != med.MemberID {
			continue
		}
		if rng != nil {
			if l.Time.Before(rng.Start) || l.Time.After(rng.End) {
				continue
			}
		}
		switch l.Status {
		case internal.StatusTaken:
			taken++
		case internal.StatusMissed:
			missed++
		}
	}
	return taken, missed
}

// Rate is taken/(taken+missed) as a percentage rounded to two decimals, and 0
// (never NaN) when there are no logs.
func Rate(taken, missed int) float64 {
	total := taken + missed
	if total == 0 {
		return 0
	}
	return math.Round(float64(taken)/float64(total)*100*100) / 100
}
