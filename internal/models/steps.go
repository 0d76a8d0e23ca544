package models

import "sort"

// RenewalStep is an ordered checklist item embedded inside a card's
// RenewalSteps. Order values are dense (0..n-1) and consistent with array
// position after any reorder.
type RenewalStep struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Required    bool     `json:"required"`
	Completed   bool     `json:"completed"`
	Order       int      `json:"order"`
	DocumentIDs []string `json:"documentIds,omitempty"`
}

// NormalizeSteps sorts steps by rank and renumbers them densely so that
// Order always matches array position.
func NormalizeSteps(steps []RenewalStep) []RenewalStep {
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Order < steps[j].Order })
	for i := range steps {
		steps[i].Order = i
	}
	return steps
}

// MoveStep shifts the step with the given id one position up (delta -1) or
// down (delta +1) by swapping it with its rank neighbour, then renumbers.
// Out-of-range moves and unknown ids leave the slice unchanged.
func MoveStep(steps []RenewalStep, id string, delta int) []RenewalStep {
	steps = NormalizeSteps(steps)

	pos := -1
	for i, s := range steps {
		if s.ID == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		return steps
	}

	target := pos + delta
	if target < 0 || target >= len(steps) {
		return steps
	}

	steps[pos], steps[target] = steps[target], steps[pos]
	for i := range steps {
		steps[i].Order = i
	}
	return steps
}
