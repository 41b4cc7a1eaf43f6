package storage

import "time"

type Character struct {
	ID       int64
	Name     string
	Affinity string

	Level int
	Exp   int
	Gold  int

	Strength   int
	Endurance  int
	Wisdom     int
	Charisma   int
	Creativity int
	Discipline int
	StatPoints int

	StreakCurrent int
	StreakLongest int
	LastActiveDay string
	LastLoginDay  string
	Onboarded     bool

	// Day-stamped duty counters. Scoped here rather than as process
	// globals so they survive restarts and reset deterministically.
	DutyDay      string
	DutyClaims   int
	DutyShuffles int

	CreatedAt time.Time
}

type Task struct {
	ID          int64
	CharacterID int64
	Title       string
	Description *string
	Category    string
	Mode        string
	Verify      string
	Status      string

	CreatedAt      time.Time
	StartedAt      *time.Time
	CompletedAt    *time.Time
	DueDate        *time.Time
	MinDurationSec int

	BaseExp  int
	BaseGold int

	GeofenceLat     *float64
	GeofenceLon     *float64
	GeofenceRadiusM *float64
	GeofenceName    *string

	Photo       []byte
	PhotoAt     *time.Time
	PhotoMotion bool
	CapturedLat *float64
	CapturedLon *float64

	RoutineID *string

	IsDuty            bool
	IsHabit           bool
	IsRecurring       bool
	FromPartner       bool
	SharedWithPartner bool
	IsCoop            bool
	PartnerDone       bool
	CoopBonusGranted  bool

	HabitDueHour   *int
	HabitDay       string
	CompletedToday bool
	FailedToday    bool
}

type Bond struct {
	ID          string
	CharacterID int64
	PartnerName string
	Exp         int
	CreatedAt   time.Time
}

type DutySlot struct {
	ID          int64
	CharacterID int64
	Day         string
	Slot        int
	TemplateID  string
	Title       string
	Category    string
	BaseExp     int
	BaseGold    int
	Claimed     bool
	TaskID      *int64
}

type Completion struct {
	ID          int64
	TaskID      int64
	CharacterID int64
	CompletedAt time.Time
	Day         string
	ExpAwarded  int
	GoldAwarded int
	Tier        string
}

type Confirmation struct {
	Token       string
	TaskID      int64
	CharacterID int64
	BonusExp    int
	CreatedAt   time.Time
	Applied     bool
}

type InventoryItem struct {
	Item string
	Qty  int
}
