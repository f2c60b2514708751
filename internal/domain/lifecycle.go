package domain

import "time"

// WorkItemContext is what upstream generators hand to the lifecycle engine:
// where the item lives and when it entered the system.
type WorkItemContext struct {
	Segment   Segment
	CreatedAt time.Time
	DueDate   *time.Time
}

// LifecycleRecord holds the causally ordered lifecycle timestamps for one
// work item. Created once by the lifecycle generator and immutable after
// that. When CompletedAt is set the record satisfies
// CreatedAt <= StartedAt <= CompletedAt.
type LifecycleRecord struct {
	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	DueDate     *time.Time

	// Derived metrics, present only on completed items.
	CycleTimeDays *float64
	LeadTimeDays  *float64
}

// Completed reports whether the item transitioned all the way through its
// lifecycle.
func (r LifecycleRecord) Completed() bool {
	return r.CompletedAt != nil
}

// Ordered reports whether the lifecycle timestamps are causally consistent
// relative to now. Incomplete records only need a non-future creation time.
func (r LifecycleRecord) Ordered(now time.Time) bool {
	if r.CreatedAt.After(now) {
		return false
	}
	if r.CompletedAt == nil {
		return true
	}
	if r.StartedAt == nil {
		return false
	}
	if r.StartedAt.Before(r.CreatedAt) || r.CompletedAt.Before(*r.StartedAt) {
		return false
	}
	return !r.CompletedAt.After(now)
}
