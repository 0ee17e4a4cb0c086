package model

import (
	"fmt"
	"strings"
)

// Priority is a job's scheduling class. Lower values sort first in the smart
// policy's admission order.
type Priority int

const (
	PriorityHigh Priority = iota
	PriorityMedium
	PriorityLow
)

// ParsePriority converts a case-insensitive label into a Priority.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return PriorityHigh, nil
	case "medium":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	default:
		return 0, fmt.Errorf("invalid priority %q: must be high, medium or low", s)
	}
}

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// MarshalJSON renders the priority as its lowercase label.
func (p Priority) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON accepts the same labels as ParsePriority.
func (p *Priority) UnmarshalJSON(data []byte) error {
	parsed, err := ParsePriority(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
