package enum

// DeductionStatus is the eligibility verdict attached to a line item or a
// whole document. The values are the exact Thai strings the downstream
// frontend renders, so they go over the wire unchanged.
type DeductionStatus string

const (
	// Item-level verdicts
	DeductionEligible   DeductionStatus = "สามารถลดหย่อนได้"
	DeductionIneligible DeductionStatus = "ไม่สามารถลดหย่อนได้"

	// Document-level verdicts
	DocumentPassed   DeductionStatus = "ผ่านเงื่อนไขเบื้องต้น"
	DocumentRejected DeductionStatus = "ไม่สามารถลดหย่อนได้"
)

func (s DeductionStatus) String() string {
	return string(s)
}

// IsSet reports whether a verdict has been assigned.
func (s DeductionStatus) IsSet() bool {
	return s != ""
}
