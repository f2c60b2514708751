package domain

import (
	"fmt"
	"strings"
)

// Segment identifies a (department, work-item-type) pair. It is the key for
// every distribution lookup: completion rates, lifecycle parameters, and
// benchmark tables are all parameterized per segment.
type Segment struct {
	Department   string
	WorkItemType string
}

func NewSegment(department, workItemType string) Segment {
	return Segment{
		Department:   strings.ToLower(strings.TrimSpace(department)),
		WorkItemType: strings.ToLower(strings.TrimSpace(workItemType)),
	}
}

// ParseSegment parses the "department/type" form used in configuration files.
func ParseSegment(s string) (Segment, error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Segment{}, fmt.Errorf("invalid segment %q: want department/type", s)
	}
	return NewSegment(parts[0], parts[1]), nil
}

func (s Segment) String() string {
	return s.Department + "/" + s.WorkItemType
}

func (s Segment) IsZero() bool {
	return s.Department == "" && s.WorkItemType == ""
}
