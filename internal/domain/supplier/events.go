package supplier

import (
	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeSubmission names the submission aggregate on events
const AggregateTypeSubmission = "Submission"

const (
	EventTypeSubmissionCreated  = "supplier.submission.created"
	EventTypeSubmissionAccepted = "supplier.submission.accepted"
	EventTypeSubmissionRejected = "supplier.submission.rejected"
)

// SubmissionEvent is raised on every submission state change
type SubmissionEvent struct {
	shared.BaseDomainEvent
	SupplierID string          `json:"supplier_id"`
	Amount     decimal.Decimal `json:"amount"`
}

func newSubmissionEvent(eventType string, s *Submission, amount decimal.Decimal) *SubmissionEvent {
	return &SubmissionEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeSubmission, s.ID),
		SupplierID:      s.SupplierID.String(),
		Amount:          amount,
	}
}
