package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/solera-labs/estancia/internal/domain"
	"github.com/solera-labs/estancia/internal/repository"
)

// ReviewService handles reviews. A review is only accepted when both its
// author and the reviewed place exist at write time.
type ReviewService struct {
	repos  repository.Repositories
	logger zerolog.Logger
}

// NewReviewService creates a new ReviewService.
func NewReviewService(repos repository.Repositories, logger zerolog.Logger) *ReviewService {
	return &ReviewService{
		repos:  repos,
		logger: logger.With().Str("service", "review").Logger(),
	}
}

// CreateReviewInput contains the data needed to create a review.
type CreateReviewInput struct {
	Text    string
	Rating  int
	UserID  string
	PlaceID string
}

// Create validates and persists a new review. Both referenced records must
// exist; a miss on either one is reported as the same integrity failure.
func (s *ReviewService) Create(ctx context.Context, input CreateReviewInput) (*domain.Review, error) {
	review, err := domain.NewReview(input.Text, input.Rating, input.UserID, input.PlaceID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repos.Users.GetByID(ctx, review.UserID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidUserOrPlace
		}
		s.logger.Error().Err(err).Str("user_id", review.UserID).Msg("failed to resolve review author")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if _, err := s.repos.Places.GetByID(ctx, review.PlaceID); err != nil {
		if errors.Is(err, domain.ErrPlaceNotFound) {
			return nil, domain.ErrInvalidUserOrPlace
		}
		s.logger.Error().Err(err).Str("place_id", review.PlaceID).Msg("failed to resolve reviewed place")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if err := s.repos.Reviews.Create(ctx, review); err != nil {
		if errors.Is(err, domain.ErrInvalidUserOrPlace) {
			return nil, domain.ErrInvalidUserOrPlace
		}
		s.logger.Error().Err(err).Str("review_id", review.ID).Msg("failed to create review")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info().
		Str("review_id", review.ID).
		Str("user_id", review.UserID).
		Str("place_id", review.PlaceID).
		Int("rating", review.Rating).
		Msg("review created")

	return review, nil
}

// Get retrieves a review by ID.
func (s *ReviewService) Get(ctx context.Context, id string) (*domain.Review, error) {
	review, err := s.repos.Reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrReviewNotFound) {
			return nil, domain.ErrReviewNotFound
		}
		s.logger.Error().Err(err).Str("review_id", id).Msg("failed to get review")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return review, nil
}

// List returns all reviews in insertion order.
func (s *ReviewService) List(ctx context.Context) ([]*domain.Review, error) {
	reviews, err := s.repos.Reviews.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list reviews")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return reviews, nil
}

// ListByPlace returns the reviews of a place. The place itself is not
// required to exist: a deleted or never-created place simply has no reviews.
func (s *ReviewService) ListByPlace(ctx context.Context, placeID string) ([]*domain.Review, error) {
	reviews, err := s.repos.Reviews.ListByPlace(ctx, placeID)
	if err != nil {
		s.logger.Error().Err(err).Str("place_id", placeID).Msg("failed to list reviews by place")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return reviews, nil
}

// ListByUser returns the reviews written by a user.
func (s *ReviewService) ListByUser(ctx context.Context, userID string) ([]*domain.Review, error) {
	reviews, err := s.repos.Reviews.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list reviews by user")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return reviews, nil
}

// Update applies a partial update to a review. The author and place
// references are fixed at creation.
func (s *ReviewService) Update(ctx context.Context, id string, upd domain.ReviewUpdate) (*domain.Review, error) {
	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := review.Update(upd); err != nil {
		return nil, err
	}

	if err := s.repos.Reviews.Update(ctx, review); err != nil {
		if errors.Is(err, domain.ErrReviewNotFound) {
			return nil, domain.ErrReviewNotFound
		}
		s.logger.Error().Err(err).Str("review_id", id).Msg("failed to update review")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info().Str("review_id", review.ID).Msg("review updated")
	return review, nil
}

// Delete removes a review.
func (s *ReviewService) Delete(ctx context.Context, id string) error {
	if err := s.repos.Reviews.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrReviewNotFound) {
			return domain.ErrReviewNotFound
		}
		s.logger.Error().Err(err).Str("review_id", id).Msg("failed to delete review")
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info().Str("review_id", id).Msg("review deleted")
	return nil
}
