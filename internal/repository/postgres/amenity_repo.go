package postgres

import (
	"context"
	"fmt"

	"github.com/solera-labs/estancia/internal/domain"
	"github.com/solera-labs/estancia/internal/repository"
)

// amenityRepository implements repository.AmenityRepository for PostgreSQL.
type amenityRepository struct {
	db *DB
}

// NewAmenityRepository creates a new PostgreSQL amenity repository.
func NewAmenityRepository(db *DB) repository.AmenityRepository {
	return &amenityRepository{db: db}
}

// Create persists a new amenity.
func (r *amenityRepository) Create(ctx context.Context, amenity *domain.Amenity) error {
	query := `
		INSERT INTO amenities (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		amenity.ID,
		amenity.Name,
		amenity.Description,
		amenity.CreatedAt,
		amenity.UpdatedAt,
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
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByName retrieves the first amenity with the given name.
func (r *amenityRepository) GetByName(ctx context.Context, name string) (*domain.Amenity, error) {
	return r.getOne(ctx, `WHERE name = $1 ORDER BY created_at LIMIT 1`, name)
}

func (r *amenityRepository) getOne(ctx context.Context, where string, arg interface{}) (*domain.Amenity, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM amenities ` + where

	amenity := &domain.Amenity{}
	err := r.db.Pool.QueryRow(ctx, query, arg).Scan(
		&amenity.ID,
		&amenity.Name,
		&amenity.Description,
		&amenity.CreatedAt,
		&amenity.UpdatedAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrAmenityNotFound
		}
		return nil, fmt.Errorf("failed to get amenity: %w", err)
	}

	return amenity, nil
}

// List returns all amenities.
func (r *amenityRepository) List(ctx context.Context) ([]*domain.Amenity, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM amenities
		ORDER BY created_at
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list amenities: %w", err)
	}
	defer rows.Close()

	var amenities []*domain.Amenity
	for rows.Next() {
		amenity := &domain.Amenity{}
		err := rows.Scan(
			&amenity.ID,
			&amenity.Name,
			&amenity.Description,
			&amenity.CreatedAt,
			&amenity.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan amenity: %w", err)
		}
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
		SET name = $1, description = $2, updated_at = $3
		WHERE id = $4
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		amenity.Name,
		amenity.Description,
		amenity.UpdatedAt,
		amenity.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update amenity: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAmenityNotFound
	}

	return nil
}

// Delete removes an amenity by ID.
func (r *amenityRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM amenities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete amenity: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAmenityNotFound
	}

	return nil
}

// Ensure amenityRepository implements repository.AmenityRepository.
var _ repository.AmenityRepository = (*amenityRepository)(nil)
