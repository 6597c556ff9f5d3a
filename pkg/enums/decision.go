package enums

import "fmt"

// Decision is a yes/no verdict on a single order line. The ledger only ever
// stores yes or no; alternative exists for supplier daily-workflow input and
// must carry a substitute product.
type Decision string

const (
	DecisionYes         Decision = "yes"
	DecisionNo          Decision = "no"
	DecisionAlternative Decision = "alternative"
)

var validDecisions = []Decision{
	DecisionYes,
	DecisionNo,
	DecisionAlternative,
}

// String implements fmt.Stringer.
func (d Decision) String() string {
	return string(d)
}

// IsValid reports whether the value is a known Decision.
func (d Decision) IsValid() bool {
	for _, candidate := range validDecisions {
		if candidate == d {
			return true
		}
	}
	return false
}

// IsFinalizable reports whether the decision may be written to the ledger.
func (d Decision) IsFinalizable() bool {
	return d == DecisionYes || d == DecisionNo
}

// ParseDecision converts raw input into a Decision.
func ParseDecision(value string) (Decision, error) {
	for _, candidate := range validDecisions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid decision %q", value)
}
