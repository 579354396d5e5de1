package engine

import (
	"fmt"
	"math"
)

// Issue is one validation finding.
type Issue struct {
	Slot    string `json:"slot"`
	Message string `json:"message"`
}

// Report is the outcome of validating one document. Validation executing
// is distinct from the data being valid: an invalid document still yields
// a Report, not an error.
type Report struct {
	Class  string  `json:"class"`
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Validate checks data against the effective slots of targetClass.
func (v *View) Validate(data map[string]any, targetClass string) (*Report, error) {
	slots, ok := v.slots[targetClass]
	if !ok {
		return nil, fmt.Errorf("unknown class: %s", targetClass)
	}

	report := &Report{Class: targetClass, Valid: true}
	add := func(slot, msg string) {
		report.Valid = false
		report.Issues = append(report.Issues, Issue{Slot: slot, Message: msg})
	}

	for name, slot := range slots {
		value, present := data[name]
		if !present {
			if slot.Required {
				add(name, "required slot missing")
			}
			continue
		}
		if !rangeMatches(slot.Range, value) {
			add(name, fmt.Sprintf("value %v is not a valid %s", value, slot.Range))
			continue
		}
		if re, ok := v.patterns[name]; ok {
			str, isStr := value.(string)
			if isStr && !re.MatchString(str) {
				add(name, fmt.Sprintf("value %q does not match pattern %s", str, slot.Pattern))
			}
		}
	}

	for name := range data {
		if _, ok := slots[name]; !ok {
			add(name, "unknown slot for class "+targetClass)
		}
	}

	return report, nil
}

func rangeMatches(rng string, value any) bool {
	switch rng {
	case "", "string":
		_, ok := value.(string)
		return ok || rng == ""
	case "integer":
		switch n := value.(type) {
		case int, int32, int64:
			return true
		case float64:
			return n == math.Trunc(n)
		default:
			return false
		}
	case "float", "double":
		switch value.(type) {
		case float32, float64, int, int64:
			return true
		default:
			return false
		}
	case "boolean":
		_, ok := value.(bool)
		return ok
	default:
		// Unrecognized ranges (class-valued slots etc.) are not checked.
		return true
	}
}
