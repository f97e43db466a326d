package jobs

// Lifecycle of a conversion tracked by the store.
// ENUM(queued, processing, completed, failed)
type Status int

// Terminal reports whether the job reached a final state and will never
// change again.
func (x Status) Terminal() bool {
	return x == StatusCompleted || x == StatusFailed
}
