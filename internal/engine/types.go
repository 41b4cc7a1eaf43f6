package engine

// Category classifies a task and determines which stat its completion feeds.
type Category string

const (
	CategoryPhysical Category = "physical"
	CategoryWellness Category = "wellness"
	CategoryMental   Category = "mental"
	CategorySocial   Category = "social"
	CategoryCreative Category = "creative"
	CategoryChore    Category = "chore"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryPhysical, CategoryWellness, CategoryMental, CategorySocial, CategoryCreative, CategoryChore:
		return true
	default:
		return false
	}
}

// DefaultCategory is used when user input is missing/invalid.
const DefaultCategory Category = CategoryChore

// Stat is one of the six character stats.
type Stat string

const (
	StatStrength   Stat = "strength"
	StatEndurance  Stat = "endurance"
	StatWisdom     Stat = "wisdom"
	StatCharisma   Stat = "charisma"
	StatCreativity Stat = "creativity"
	StatDiscipline Stat = "discipline"
)

// BonusStat maps a task category to the stat it grows.
func (c Category) BonusStat() Stat {
	switch c {
	case CategoryPhysical:
		return StatStrength
	case CategoryWellness:
		return StatEndurance
	case CategoryMental:
		return StatWisdom
	case CategorySocial:
		return StatCharisma
	case CategoryCreative:
		return StatCreativity
	default:
		return StatDiscipline
	}
}

// Status is the task lifecycle state. Transitions are monotonic:
// pending -> in_progress -> completed, with failed and expired as
// alternate terminal states.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusExpired    Status = "expired"
)

func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusExpired:
		return true
	default:
		return false
	}
}

// VerifyRequirement is the proof a task demands before it may complete.
type VerifyRequirement string

const (
	VerifyNone     VerifyRequirement = "none"
	VerifyPhoto    VerifyRequirement = "photo"
	VerifyLocation VerifyRequirement = "location"
	VerifyBoth     VerifyRequirement = "both"
)

func (v VerifyRequirement) IsValid() bool {
	switch v {
	case VerifyNone, VerifyPhoto, VerifyLocation, VerifyBoth:
		return true
	default:
		return false
	}
}

func (v VerifyRequirement) NeedsPhoto() bool {
	return v == VerifyPhoto || v == VerifyBoth
}

func (v VerifyRequirement) NeedsLocation() bool {
	return v == VerifyLocation || v == VerifyBoth
}

// VerificationTier is the proof level actually achieved at completion
// time. It drives the reward multiplier.
type VerificationTier string

const (
	TierNone     VerificationTier = "none"
	TierPhoto    VerificationTier = "photo"
	TierLocation VerificationTier = "location"
	TierBoth     VerificationTier = "both"
)

// CompletionMode tags how a task is completed. Resolved once at creation;
// mini-game tasks carry their game kind instead of being matched by title.
type CompletionMode string

const (
	ModeStandard CompletionMode = "standard"
	ModeHabit    CompletionMode = "habit"
)

// MiniGameMode builds the completion mode for an in-app game, e.g.
// "minigame:breathing". The game only reports an elapsed/outcome value
// back into the reward pipeline.
func MiniGameMode(kind string) CompletionMode {
	return CompletionMode("minigame:" + kind)
}
