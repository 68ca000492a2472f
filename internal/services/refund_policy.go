package services

import "math"

// RefundPolicy computes the refund owed for a cancelled booking. The rule
// is a flat percentage of the amount paid, with no time-based tiers: a
// booking cancelled a day or a minute before departure refunds the same.
type RefundPolicy struct {
	penaltyRate float64
}

// NewRefundPolicy creates a policy withholding penaltyRate of the amount.
// A rate of 0.20 refunds 80%.
func NewRefundPolicy(penaltyRate float64) RefundPolicy {
	return RefundPolicy{penaltyRate: penaltyRate}
}

// RefundAmount returns the refund for a booking's total amount, rounded to
// cents. Pure computation: applying the resulting state change is the
// reservation engine's job.
func (p RefundPolicy) RefundAmount(totalAmount float64) float64 {
	refund := totalAmount * (1 - p.penaltyRate)
	return math.Round(refund*100) / 100
}
