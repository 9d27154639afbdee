package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/solera-labs/estancia/internal/domain"
	"github.com/solera-labs/estancia/internal/repository"
)

// placeRepository implements repository.PlaceRepository for SQLite.
// The place-amenity association lives in the place_amenities join table and
// is written together with the place row in one transaction.
type placeRepository struct {
	db *DB
}

// NewPlaceRepository creates a new SQLite place repository.
func NewPlaceRepository(db *DB) repository.PlaceRepository {
	return &placeRepository{db: db}
}

// Create persists a new place together with its amenity references.
func (r *placeRepository) Create(ctx context.Context, place *domain.Place) error {
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO places (id, title, description, price, latitude, longitude, owner_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`

		_, err := tx.ExecContext(ctx, query,
			place.ID,
			place.Title,
			place.Description,
			place.Price,
			place.Latitude,
			place.Longitude,
			place.OwnerID,
			place.CreatedAt.Format(time.RFC3339Nano),
			place.UpdatedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			return err
		}

		for _, amenityID := range place.AmenityIDs {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO place_amenities (place_id, amenity_id) VALUES (?, ?)`,
				place.ID, amenityID,
			)
			if err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: place references a missing record", domain.ErrOwnerNotFound)
		}
		return fmt.Errorf("failed to create place: %w", err)
	}

	return nil
}

// GetByID retrieves a place by ID with its amenity references.
func (r *placeRepository) GetByID(ctx context.Context, id string) (*domain.Place, error) {
	query := `
		SELECT id, title, description, price, latitude, longitude, owner_id, created_at, updated_at
		FROM places
		WHERE id = ?
	`

	place, err := r.scanPlace(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrPlaceNotFound
		}
		return nil, fmt.Errorf("failed to get place: %w", err)
	}

	place.AmenityIDs, err = r.loadAmenityIDs(ctx, place.ID)
	if err != nil {
		return nil, err
	}

	return place, nil
}

// List returns all places.
func (r *placeRepository) List(ctx context.Context) ([]*domain.Place, error) {
	return r.list(ctx, `ORDER BY created_at`)
}

// ListByOwner returns all places owned by the given user.
func (r *placeRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Place, error) {
	return r.list(ctx, `WHERE owner_id = ? ORDER BY created_at`, ownerID)
}

func (r *placeRepository) list(ctx context.Context, tail string, args ...interface{}) ([]*domain.Place, error) {
	query := `
		SELECT id, title, description, price, latitude, longitude, owner_id, created_at, updated_at
		FROM places ` + tail

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	defer rows.Close()

	var places []*domain.Place
	for rows.Next() {
		place, err := r.scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		places = append(places, place)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating places: %w", err)
	}

	for _, place := range places {
		place.AmenityIDs, err = r.loadAmenityIDs(ctx, place.ID)
		if err != nil {
			return nil, err
		}
	}

	return places, nil
}

// Update persists an existing place. The amenity association is fixed at
// creation and is not touched here.
func (r *placeRepository) Update(ctx context.Context, place *domain.Place) error {
	query := `
		UPDATE places
		SET title = ?, description = ?, price = ?, latitude = ?, longitude = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		place.Title,
		place.Description,
		place.Price,
		place.Latitude,
		place.Longitude,
		place.UpdatedAt.Format(time.RFC3339Nano),
		place.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update place: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrPlaceNotFound
	}

	return nil
}

// Delete removes a place by ID. The join rows go with it (ON DELETE CASCADE).
func (r *placeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM places WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete place: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrPlaceNotFound
	}

	return nil
}

// DeleteByOwner removes all places owned by the given user.
func (r *placeRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM places WHERE owner_id = ?`, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete places by owner: %w", err)
	}
	return nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func (r *placeRepository) scanPlace(s scanner) (*domain.Place, error) {
	place := &domain.Place{}
	var createdAt, updatedAt string

	err := s.Scan(
		&place.ID,
		&place.Title,
		&place.Description,
		&place.Price,
		&place.Latitude,
		&place.Longitude,
		&place.OwnerID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	place.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	place.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)

	return place, nil
}

func (r *placeRepository) loadAmenityIDs(ctx context.Context, placeID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT amenity_id FROM place_amenities WHERE place_id = ?`, placeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load place amenities: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan place amenity: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating place amenities: %w", err)
	}

	return ids, nil
}

// Ensure placeRepository implements repository.PlaceRepository.
var _ repository.PlaceRepository = (*placeRepository)(nil)
