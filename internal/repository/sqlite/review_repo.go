package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/solera-labs/estancia/internal/domain"
	"github.com/solera-labs/estancia/internal/repository"
)

// reviewRepository implements repository.ReviewRepository for SQLite.
type reviewRepository struct {
	db *DB
}

// NewReviewRepository creates a new SQLite review repository.
func NewReviewRepository(db *DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

// Create persists a new review.
func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, text, rating, user_id, place_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		review.ID,
		review.Text,
		review.Rating,
		review.UserID,
		review.PlaceID,
		review.CreatedAt.Format(time.RFC3339Nano),
		review.UpdatedAt.Format(time.RFC3339Nano),
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
		WHERE id = ?
	`

	review := &domain.Review{}
	var createdAt, updatedAt string

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&review.ID,
		&review.Text,
		&review.Rating,
		&review.UserID,
		&review.PlaceID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	review.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	review.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)

	return review, nil
}

// List returns all reviews.
func (r *reviewRepository) List(ctx context.Context) ([]*domain.Review, error) {
	return r.list(ctx, `ORDER BY created_at`)
}

// ListByPlace returns all reviews for a place.
func (r *reviewRepository) ListByPlace(ctx context.Context, placeID string) ([]*domain.Review, error) {
	return r.list(ctx, `WHERE place_id = ? ORDER BY created_at`, placeID)
}

// ListByUser returns all reviews written by a user.
func (r *reviewRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Review, error) {
	return r.list(ctx, `WHERE user_id = ? ORDER BY created_at`, userID)
}

func (r *reviewRepository) list(ctx context.Context, tail string, args ...interface{}) ([]*domain.Review, error) {
	query := `
		SELECT id, text, rating, user_id, place_id, created_at, updated_at
		FROM reviews ` + tail

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		review := &domain.Review{}
		var createdAt, updatedAt string

		err := rows.Scan(
			&review.ID,
			&review.Text,
			&review.Rating,
			&review.UserID,
			&review.PlaceID,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}

		review.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		review.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)

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
		SET text = ?, rating = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		review.Text,
		review.Rating,
		review.UpdatedAt.Format(time.RFC3339Nano),
		review.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrReviewNotFound
	}

	return nil
}

// Delete removes a review by ID.
func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrReviewNotFound
	}

	return nil
}

// DeleteByPlace removes all reviews for a place.
func (r *reviewRepository) DeleteByPlace(ctx context.Context, placeID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE place_id = ?`, placeID)
	if err != nil {
		return fmt.Errorf("failed to delete reviews by place: %w", err)
	}
	return nil
}

// DeleteByUser removes all reviews written by a user.
func (r *reviewRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete reviews by user: %w", err)
	}
	return nil
}

// Ensure reviewRepository implements repository.ReviewRepository.
var _ repository.ReviewRepository = (*reviewRepository)(nil)
