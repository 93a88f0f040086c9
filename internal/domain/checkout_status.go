package domain

type CheckoutStatus string

const (
	CheckoutStatusDraft         CheckoutStatus = "DRAFT"
	CheckoutStatusStockVerified CheckoutStatus = "STOCK_VERIFIED"
	CheckoutStatusCommitted     CheckoutStatus = "COMMITTED"
	CheckoutStatusRejected      CheckoutStatus = "REJECTED"
)

func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusCommitted || s == CheckoutStatusRejected
}

// String representation (for logging)
func (s CheckoutStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether moving from s to next is a legal step of
// the commit protocol. Rejection is reachable from any non-terminal state.
func CanTransitionTo(s, next CheckoutStatus) bool {
	switch next {
	case CheckoutStatusStockVerified:
		return s == CheckoutStatusDraft
	case CheckoutStatusCommitted:
		return s == CheckoutStatusStockVerified
	case CheckoutStatusRejected:
		return !s.IsTerminal()
	default:
		return false
	}
}
