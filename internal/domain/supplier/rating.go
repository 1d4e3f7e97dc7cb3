package supplier

import (
	"strings"

	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Rating is an admin's 1-5 score of a supplier
type Rating struct {
	shared.BaseEntity
	SupplierID uuid.UUID
	Score      int
	Comment    string
	RatedBy    string
}

// NewRating validates the score
func NewRating(supplierID uuid.UUID, score int, comment, ratedBy string) (*Rating, error) {
	if score < 1 || score > 5 {
		return nil, shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	return &Rating{
		BaseEntity: shared.NewBaseEntity(),
		SupplierID: supplierID,
		Score:      score,
		Comment:    strings.TrimSpace(comment),
		RatedBy:    ratedBy,
	}, nil
}
