package engine

import "fmt"

// Rejection reasons surfaced to the user. These never carry partial state
// mutation with them: a rejected operation leaves the store untouched.
const (
	ReasonMinDuration    = "minimum duration not yet elapsed"
	ReasonPhotoStale     = "photo proof is missing or stale; re-capture required"
	ReasonLocationProof  = "location proof has not been captured"
	ReasonDeadlinePassed = "deadline has passed"
	ReasonClaimLimit     = "daily duty claim limit reached"
	ReasonShuffleUsed    = "duty board already shuffled today"
)

// RejectionError is a user-correctable rejection: the operation was
// refused before any state changed, and the message can be shown as-is.
type RejectionError struct {
	Op     string
	Reason string
}

func (e RejectionError) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.Op, e.Reason)
}

// StateError indicates an operation on a task whose lifecycle state does
// not allow it (e.g. starting a completed task).
type StateError struct {
	TaskID int64
	From   Status
	To     Status
}

func (e StateError) Error() string {
	return fmt.Sprintf("task %d: illegal transition %s -> %s", e.TaskID, e.From, e.To)
}
