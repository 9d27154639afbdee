package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/solera-labs/estancia/internal/domain"
	"github.com/solera-labs/estancia/internal/repository"
)

// amenityRepository implements repository.AmenityRepository for SQLite.
type amenityRepository struct {
	db *DB
}

// NewAmenityRepository creates a new SQLite amenity repository.
func NewAmenityRepository(db *DB) repository.AmenityRepository {
	return &amenityRepository{db: db}
}

// Create persists a new amenity.
func (r *amenityRepository) Create(ctx context.Context, amenity *domain.Amenity) error {
	query := `
		INSERT INTO amenities (id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		amenity.ID,
		amenity.Name,
		amenity.Description,
		amenity.CreatedAt.Format(time.RFC3339Nano),
		amenity.UpdatedAt.Format(time.RFC3339Nano),
	)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create amenity: %w", err)
	}

	return nil
}

// GetByID retrieves an amenity by ID.
func (r *amenityRepository) GetByID(ctx context.Context, id string) (*domain.Amenity, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

// GetByName retrieves the first amenity with the given name.
func (r *amenityRepository) GetByName(ctx context.Context, name string) (*domain.Amenity, error) {
	return r.getOne(ctx, `WHERE name = ? ORDER BY created_at LIMIT 1`, name)
}

func (r *amenityRepository) getOne(ctx context.Context, where string, arg interface{}) (*domain.Amenity, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM amenities ` + where

	amenity := &domain.Amenity{}
	var createdAt, updatedAt string

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&amenity.ID,
		&amenity.Name,
		&amenity.Description,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrAmenityNotFound
		}
		return nil, fmt.Errorf("failed to get amenity: %w", err)
	}

	amenity.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	amenity.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)

	return amenity, nil
}

// List returns all amenities.
func (r *amenityRepository) List(ctx context.Context) ([]*domain.Amenity, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM amenities
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list amenities: %w", err)
	}
	defer rows.Close()

	var amenities []*domain.Amenity
	for rows.Next() {
		amenity := &domain.Amenity{}
		var createdAt, updatedAt string

		if err := rows.Scan(&amenity.ID, &amenity.Name, &amenity.Description, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan amenity: %w", err)
		}

		amenity.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		amenity.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)

		amenities = append(amenities, amenity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating amenities: %w", err)
	}

	return amenities, nil
}

// Update persists an existing amenity.
func (r *amenityRepository) Update(ctx context.Context, amenity *domain.Amenity) error {
	query := `
		UPDATE amenities
		SET name = ?, description = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		amenity.Name,
		amenity.Description,
		amenity.UpdatedAt.Format(time.RFC3339Nano),
		amenity.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update amenity: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrAmenityNotFound
	}

	return nil
}

// Delete removes an amenity by ID.
func (r *amenityRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM amenities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete amenity: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrAmenityNotFound
	}

	return nil
}

// Ensure amenityRepository implements repository.AmenityRepository.
var _ repository.AmenityRepository = (*amenityRepository)(nil)
