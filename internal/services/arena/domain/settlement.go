package domain

// timeoutRefundPercent is the share of the stake refunded to each
// participant when a contest expires; the remainder is the timeout-handling
// fee paid to the authority from each side.
const timeoutRefundPercent = 95

// Pot returns the total locked by both participants.
func (c *Contest) Pot() int64 {
	return c.Stake * 2
}

// SplitPot computes the platform fee and winner payout for a ruling.
// The fee is rounded down; the payout carries any remainder so the pot is
// always released in full.
func SplitPot(stake, feePercent int64) (fee, payout int64) {
	pot := stake * 2
	fee = pot * feePercent / 100
	return fee, pot - fee
}

// SplitTimeoutRefund computes one participant's refund and the authority's
// share of that participant's stake. refund+share always equals the stake,
// so no escrow is stranded by integer rounding.
func SplitTimeoutRefund(stake int64) (refund, share int64) {
	refund = stake * timeoutRefundPercent / 100
	return refund, stake - refund
}
