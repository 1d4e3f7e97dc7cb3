package supplier

import (
	"context"

	"github.com/ecofoods/backend/internal/domain/supplier"
	"github.com/google/uuid"
)

// RatingService records admin ratings of suppliers
type RatingService struct {
	ratingRepo supplier.RatingRepository
	txScope    TransactionScope
}

// NewRatingService creates a new RatingService
func NewRatingService(ratingRepo supplier.RatingRepository, txScope TransactionScope) *RatingService {
	return &RatingService{ratingRepo: ratingRepo, txScope: txScope}
}

// Rate stores a rating and folds it into the supplier's average
func (s *RatingService) Rate(ctx context.Context, supplierID uuid.UUID, ratedBy string, req CreateRatingRequest) (*RatingResponse, error) {
	var rating *supplier.Rating
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		sup, err := repos.SupplierRepo().FindByID(ctx, supplierID)
		if err != nil {
			return err
		}
		rating, err = supplier.NewRating(sup.ID, req.Score, req.Comment, ratedBy)
		if err != nil {
			return err
		}
		if err := repos.RatingRepo().Save(ctx, rating); err != nil {
			return err
		}
		sup.ApplyRating(rating.Score)
		return repos.SupplierRepo().Save(ctx, sup)
	})
	if err != nil {
		return nil, err
	}
	resp := ToRatingResponse(rating)
	return &resp, nil
}

// ListForSupplier returns a supplier's ratings
func (s *RatingService) ListForSupplier(ctx context.Context, supplierID uuid.UUID) ([]RatingResponse, error) {
	ratings, err := s.ratingRepo.FindBySupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	items := make([]RatingResponse, len(ratings))
	for i, r := range ratings {
		items[i] = ToRatingResponse(r)
	}
	return items, nil
}
