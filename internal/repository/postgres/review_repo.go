package postgres

import (
	"context"
	"fmt"

	"github.com/solera-labs/estancia/internal/domain"
	"github.com/solera-labs/estancia/internal/repository"
)

// reviewRepository implements repository.ReviewRepository for PostgreSQL.
type reviewRepository struct {
	db *DB
}

// NewReviewRepository creates a new PostgreSQL review repository.
func NewReviewRepository(db *DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

// Create persists a new review.
func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, text, rating, user_id, place_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		review.ID,
		review.Text,
		review.Rating,
		review.UserID,
		review.PlaceID,
		review.CreatedAt,
		review.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidUserOrPlace
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// GetByID retrieves a review by ID.
func (r *reviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	query := `
		SELECT id, text, rating, user_id, place_id, created_at, updated_at
		FROM reviews
		WHERE id = $1
	`

	review := &domain.Review{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&review.ID,
		&review.Text,
		&review.Rating,
		&review.UserID,
		&review.PlaceID,
		&review.CreatedAt,
		&review.UpdatedAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return review, nil
}

// List returns all reviews.
func (r *reviewRepository) List(ctx context.Context) ([]*domain.Review, error) {
	return r.list(ctx, `ORDER BY created_at`)
}

// ListByPlace returns all reviews written for the given place.
func (r *reviewRepository) ListByPlace(ctx context.Context, placeID string) ([]*domain.Review, error) {
	return r.list(ctx, `WHERE place_id = $1 ORDER BY created_at`, placeID)
}

// ListByUser returns all reviews written by the given user.
func (r *reviewRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Review, error) {
	return r.list(ctx, `WHERE user_id = $1 ORDER BY created_at`, userID)
}

func (r *reviewRepository) list(ctx context.Context, tail string, args ...interface{}) ([]*domain.Review, error) {
	query := `
		SELECT id, text, rating, user_id, place_id, created_at, updated_at
		FROM reviews ` + tail

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		review := &domain.Review{}
		err := rows.Scan(
			&review.ID,
			&review.Text,
			&review.Rating,
			&review.UserID,
			&review.PlaceID,
			&review.CreatedAt,
			&review.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}

// Update persists an existing review.
func (r *reviewRepository) Update(ctx context.Context, review *domain.Review) error {
	query := `
		UPDATE reviews
		SET text = $1, rating = $2, updated_at = $3
		WHERE id = $4
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		review.Text,
		review.Rating,
		review.UpdatedAt,
		review.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrReviewNotFound
	}

	return nil
}

// Delete removes a review by ID.
func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrReviewNotFound
	}

	return nil
}

// DeleteByPlace removes all reviews for the given place.
func (r *reviewRepository) DeleteByPlace(ctx context.Context, placeID string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM reviews WHERE place_id = $1`, placeID)
	if err != nil {
		return fmt.Errorf("failed to delete reviews by place: %w", err)
	}
	return nil
}

// DeleteByUser removes all reviews written by the given user.
func (r *reviewRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM reviews WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete reviews by user: %w", err)
	}
	return nil
}

// Ensure reviewRepository implements repository.ReviewRepository.
var _ repository.ReviewRepository = (*reviewRepository)(nil)
