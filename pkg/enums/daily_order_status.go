package enums

import "fmt"

// DailyOrderStatus is the merged progress of a daily-workflow entry. It is
// recomputed from which role columns are populated, never stored ahead of them.
type DailyOrderStatus string

const (
	DailyOrderStatusPending          DailyOrderStatus = "pending"
	DailyOrderStatusSellerAccepted   DailyOrderStatus = "seller_accepted"
	DailyOrderStatusSupplierAccepted DailyOrderStatus = "supplier_accepted"
	DailyOrderStatusCompleted        DailyOrderStatus = "completed"
)

var validDailyOrderStatuses = []DailyOrderStatus{
	DailyOrderStatusPending,
	DailyOrderStatusSellerAccepted,
	DailyOrderStatusSupplierAccepted,
	DailyOrderStatusCompleted,
}

// String implements fmt.Stringer.
func (s DailyOrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known DailyOrderStatus.
func (s DailyOrderStatus) IsValid() bool {
	for _, candidate := range validDailyOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseDailyOrderStatus converts raw input into a DailyOrderStatus.
func ParseDailyOrderStatus(value string) (DailyOrderStatus, error) {
	for _, candidate := range validDailyOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid daily order status %q", value)
}
