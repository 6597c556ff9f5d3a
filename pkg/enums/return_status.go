package enums

import "fmt"

// SupplierReturnStatus tracks the supplier half of the return state machine.
type SupplierReturnStatus string

const (
	SupplierReturnStatusPending   SupplierReturnStatus = "pending"
	SupplierReturnStatusAccepted  SupplierReturnStatus = "accepted"
	SupplierReturnStatusDelivered SupplierReturnStatus = "delivered"
)

var validSupplierReturnStatuses = []SupplierReturnStatus{
	SupplierReturnStatusPending,
	SupplierReturnStatusAccepted,
	SupplierReturnStatusDelivered,
}

// String implements fmt.Stringer.
func (s SupplierReturnStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SupplierReturnStatus.
func (s SupplierReturnStatus) IsValid() bool {
	for _, candidate := range validSupplierReturnStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// SellerReturnStatus tracks the seller half of the return state machine.
type SellerReturnStatus string

const (
	SellerReturnStatusPending  SellerReturnStatus = "pending"
	SellerReturnStatusAccepted SellerReturnStatus = "accepted"
)

var validSellerReturnStatuses = []SellerReturnStatus{
	SellerReturnStatusPending,
	SellerReturnStatusAccepted,
}

// String implements fmt.Stringer.
func (s SellerReturnStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SellerReturnStatus.
func (s SellerReturnStatus) IsValid() bool {
	for _, candidate := range validSellerReturnStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSupplierReturnStatus converts raw input into a SupplierReturnStatus.
func ParseSupplierReturnStatus(value string) (SupplierReturnStatus, error) {
	for _, candidate := range validSupplierReturnStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid supplier return status %q", value)
}
