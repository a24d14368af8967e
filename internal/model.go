package internal

import "time"

// Dose log statuses.
const (
	StatusTaken  = "taken"
	StatusMissed = "missed"
)

// Food-relation instructions for a medicine.
const (
	FoodBefore = "before"
	FoodAfter  = "after"
	FoodAny    = "any"
)

type User struct {
	ID             string `json:"id"`
	Token          string `json:"token,omitempty"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Age            string `json:"age,omitempty"`
	DOB            string `json:"dob,omitempty"`
	Phone          string `json:"phone,omitempty"`
	MedicalHistory string `json:"medical_history,omitempty"`
}

type Member struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Age            string    `json:"age,omitempty"`
	DOB            string    `json:"dob,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	MedicalHistory string    `json:"medical_history,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Medicine belongs to one account and at most one member. An empty MemberID
// means the medicine belongs to the main account holder.
type Medicine struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	MemberID      string    `json:"member_id,omitempty"`
	Name          string    `json:"name"`
	Dosage        string    `json:"dosage,omitempty"`
	FoodRelation  string    `json:"food_relation,omitempty"` // before, after, any
	TimesPerDay   int       `json:"times_per_day"`
	DurationDays  int       `json:"duration_days"`
	StartDate     string    `json:"start_date,omitempty"` // as entered; DD/MM/YYYY or YYYY-MM-DD
	EndDate       string    `json:"end_date,omitempty"`   // derived, always YYYY-MM-DD
	Notes         string    `json:"notes,omitempty"`
	ReminderTimes []string  `json:"reminder_times"` // "HH:MM" clock times
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DoseLog is an immutable taken/missed event. MemberID is empty for the main
// account holder, mirroring Medicine.MemberID.
type DoseLog struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	MemberID   string    `json:"member_id,omitempty"`
	MedicineID string    `json:"medicine_id"`
	Status     string    `json:"status"` // taken or missed
	Time       time.Time `json:"time"`
}
