package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ExpiryAction is the suggested handling for a batch nearing expiry
type ExpiryAction string

const (
	ExpiryActionUseImmediately ExpiryAction = "Use immediately"
	ExpiryActionPrioritize     ExpiryAction = "Prioritize usage"
	ExpiryActionMonitor        ExpiryAction = "Monitor closely"
)

// ExpiryThresholds are the day limits of each bucket, inclusive
type ExpiryThresholds struct {
	Window     int
	Prioritize int
	Immediate  int
}

// DefaultExpiryThresholds returns the 30/8/5 day buckets
func DefaultExpiryThresholds() ExpiryThresholds {
	return ExpiryThresholds{Window: 30, Prioritize: 8, Immediate: 5}
}

// ExpiryAlert is the classification of one batch
type ExpiryAlert struct {
	DaysLeft int          `json:"daysLeft"`
	Action   ExpiryAction `json:"action"`
}

// Classify buckets an expiry date. ok is false when the batch is already
// expired or further out than the window.
func (t ExpiryThresholds) Classify(expiry, now time.Time) (alert ExpiryAlert, ok bool) {
	days := DaysUntil(expiry, now)
	switch {
	case days < 0 || days > t.Window:
		return ExpiryAlert{DaysLeft: days}, false
	case days <= t.Immediate:
		return ExpiryAlert{DaysLeft: days, Action: ExpiryActionUseImmediately}, true
	case days <= t.Prioritize:
		return ExpiryAlert{DaysLeft: days, Action: ExpiryActionPrioritize}, true
	default:
		return ExpiryAlert{DaysLeft: days, Action: ExpiryActionMonitor}, true
	}
}

// Classify uses the default thresholds
func Classify(expiry, now time.Time) (ExpiryAlert, bool) {
	return DefaultExpiryThresholds().Classify(expiry, now)
}

// ExpiringBatch is a batch inside the expiry window with stock left
type ExpiringBatch struct {
	BatchStock
	Alert ExpiryAlert
}

// RemainingQuantity returns the stock left in the batch
func (e ExpiringBatch) RemainingQuantity() decimal.Decimal {
	return e.Remaining()
}

// ExpiringBatches returns non-deleted batches with stock left that fall into
// the expiry window, soonest first.
func (t ExpiryThresholds) ExpiringBatches(stocks []BatchStock, now time.Time) []ExpiringBatch {
	out := make([]ExpiringBatch, 0)
	for _, s := range stocks {
		if s.Status.IsDeleted || !s.Remaining().IsPositive() {
			continue
		}
		alert, ok := t.Classify(s.Batch.ExpiryDate, now)
		if !ok {
			continue
		}
		out = append(out, ExpiringBatch{BatchStock: s, Alert: alert})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Alert.DaysLeft != out[j].Alert.DaysLeft {
			return out[i].Alert.DaysLeft < out[j].Alert.DaysLeft
		}
		return out[i].Batch.BatchNumber < out[j].Batch.BatchNumber
	})
	return out
}
