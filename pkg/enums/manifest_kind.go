package enums

import "fmt"

// ManifestKind names the PDF documents produced after workflow commits.
type ManifestKind string

const (
	// ManifestKindPicking lists the lines a seller confirmed for fulfillment.
	ManifestKindPicking ManifestKind = "picking"
	// ManifestKindRejection lists refused lines and carries the notice block.
	ManifestKindRejection ManifestKind = "rejection"
	// ManifestKindReturns lists lines a supplier sends back.
	ManifestKindReturns ManifestKind = "returns"
	// ManifestKindDelivery confirms a supplier handed a return over.
	ManifestKindDelivery ManifestKind = "delivery"
	// ManifestKindReceipt confirms a seller received a delivered return.
	ManifestKindReceipt ManifestKind = "receipt"
)

var validManifestKinds = []ManifestKind{
	ManifestKindPicking,
	ManifestKindRejection,
	ManifestKindReturns,
	ManifestKindDelivery,
	ManifestKindReceipt,
}

// String implements fmt.Stringer.
func (k ManifestKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known ManifestKind.
func (k ManifestKind) IsValid() bool {
	for _, candidate := range validManifestKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseManifestKind converts raw input into a ManifestKind.
func ParseManifestKind(value string) (ManifestKind, error) {
	for _, candidate := range validManifestKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid manifest kind %q", value)
}
