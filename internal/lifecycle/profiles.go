package lifecycle

// Activity selects which time-of-day weight table applies when a timestamp
// is snapped to business hours.
type Activity int

const (
	ActivityCreation Activity = iota
	ActivityCompletion
	ActivityComment
)

func (a Activity) String() string {
	switch a {
	case ActivityCompletion:
		return "completion"
	case ActivityComment:
		return "comment"
	default:
		return "creation"
	}
}

// ParseActivity maps a configuration key to its Activity.
func ParseActivity(s string) (Activity, bool) {
	switch s {
	case "creation":
		return ActivityCreation, true
	case "completion":
		return ActivityCompletion, true
	case "comment":
		return ActivityComment, true
	default:
		return ActivityCreation, false
	}
}

// HourWeights assigns a relative weight to each hour of the day. Weights
// need not be normalized.
type HourWeights [24]float64

// DepartmentProfile carries the per-department adjustments applied to every
// work item generated under that department.
type DepartmentProfile struct {
	// BaseCompletionRate is the probability, before adjustments, that a
	// work item completes its lifecycle.
	BaseCompletionRate float64
	// StartDelayFactor scales the sampled hours between creation and start.
	StartDelayFactor float64
	// DurationMultiplier scales the sampled completion duration.
	DurationMultiplier float64
}

// TypeProfile carries per-work-item-type adjustments.
type TypeProfile struct {
	// CompletionAdjustment is added to the department base completion rate.
	CompletionAdjustment float64
	// StartDelayFactor scales the sampled hours between creation and start.
	StartDelayFactor float64
	// CompletionAcceleration is the maximum deadline-driven compression of
	// completion duration, reached as the due date arrives.
	CompletionAcceleration float64
	// WeekendPauseFactor is the probability that weekend activity is kept
	// in place rather than pushed to the next business day.
	WeekendPauseFactor float64
}

// Params is the full, load-once parameterization of a Generator. Everything
// here comes from configuration tables, not code.
type Params struct {
	Departments map[string]DepartmentProfile
	Types       map[string]TypeProfile

	// Fallback profiles for segments missing from the tables above.
	DefaultDepartment DepartmentProfile
	DefaultType       TypeProfile

	Hours map[Activity]HourWeights
}
