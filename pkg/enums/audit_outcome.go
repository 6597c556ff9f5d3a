package enums

// AuditOutcome classifies a ledger row for the admin audit trail.
type AuditOutcome string

const (
	AuditOutcomeAccepted AuditOutcome = "accepted"
	AuditOutcomeReturned AuditOutcome = "returned"
)

// String implements fmt.Stringer.
func (o AuditOutcome) String() string {
	return string(o)
}

// IsValid reports whether the value is a known AuditOutcome.
func (o AuditOutcome) IsValid() bool {
	return o == AuditOutcomeAccepted || o == AuditOutcomeReturned
}
