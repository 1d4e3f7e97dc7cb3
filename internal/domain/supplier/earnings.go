package supplier

import "github.com/shopspring/decimal"

// EarningsSummary is recomputed from submission history
type EarningsSummary struct {
	TotalOrders        int             `json:"totalOrders"`
	TotalItemsSupplied decimal.Decimal `json:"totalItemsSupplied"`
	// AcceptedValue is the item value (qty * price) of accepted submissions
	AcceptedValue decimal.Decimal `json:"acceptedValue"`
	// PaidTotal is what was actually paid on accepted submissions
	PaidTotal decimal.Decimal `json:"paidTotal"`
	// PendingValue is the item value of submissions still awaiting a decision
	PendingValue decimal.Decimal `json:"pendingValue"`
	// PendingAmount is what is owed on submissions still awaiting a decision
	PendingAmount decimal.Decimal `json:"pendingAmount"`
}

// Summarize folds submissions into an EarningsSummary
func Summarize(subs []*Submission) EarningsSummary {
	sum := EarningsSummary{
		TotalItemsSupplied: decimal.Zero,
		AcceptedValue:      decimal.Zero,
		PaidTotal:          decimal.Zero,
		PendingValue:       decimal.Zero,
		PendingAmount:      decimal.Zero,
	}
	for _, s := range subs {
		switch s.Status {
		case SubmissionAccepted:
			sum.TotalOrders++
			sum.TotalItemsSupplied = sum.TotalItemsSupplied.Add(s.TotalQuantity())
			sum.AcceptedValue = sum.AcceptedValue.Add(s.TotalValue())
			sum.PaidTotal = sum.PaidTotal.Add(s.PaidAmount)
		case SubmissionPending:
			sum.PendingValue = sum.PendingValue.Add(s.TotalValue())
			sum.PendingAmount = sum.PendingAmount.Add(s.SupplierAmount)
		}
	}
	return sum
}

// Drift compares the supplier's running ledger to the recomputed summary.
// Zero means the incremental updates agree with history.
func (e EarningsSummary) Drift(s *Supplier) decimal.Decimal {
	return s.Earnings.Sub(e.PaidTotal)
}

// PendingDrift compares the supplier's pending payments to what the
// undecided submissions owe. Accepts paid below the offered amount leave a
// positive residue here.
func (e EarningsSummary) PendingDrift(s *Supplier) decimal.Decimal {
	return s.PendingPayments.Sub(e.PendingAmount)
}
