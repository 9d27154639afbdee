package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/solera-labs/estancia/internal/domain"
	"github.com/solera-labs/estancia/internal/repository"
)

// placeRepository implements repository.PlaceRepository for PostgreSQL.
// The place-amenity association lives in the place_amenities join table and
// is written together with the place row in one transaction.
type placeRepository struct {
	db *DB
}

// NewPlaceRepository creates a new PostgreSQL place repository.
func NewPlaceRepository(db *DB) repository.PlaceRepository {
	return &placeRepository{db: db}
}

// Create persists a new place together with its amenity references.
func (r *placeRepository) Create(ctx context.Context, place *domain.Place) error {
	err := r.db.WithTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		query := `
			INSERT INTO places (id, title, description, price, latitude, longitude, owner_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`

		_, err := tx.Exec(ctx, query,
			place.ID,
			place.Title,
			place.Description,
			place.Price,
			place.Latitude,
			place.Longitude,
			place.OwnerID,
			place.CreatedAt,
			place.UpdatedAt,
		)
		if err != nil {
			return err
		}

		for _, amenityID := range place.AmenityIDs {
			_, err := tx.Exec(ctx,
				`INSERT INTO place_amenities (place_id, amenity_id) VALUES ($1, $2)`,
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
		WHERE id = $1
	`

	place := &domain.Place{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&place.ID,
		&place.Title,
		&place.Description,
		&place.Price,
		&place.Latitude,
		&place.Longitude,
		&place.OwnerID,
		&place.CreatedAt,
		&place.UpdatedAt,
	)

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
	return r.list(ctx, `WHERE owner_id = $1 ORDER BY created_at`, ownerID)
}

func (r *placeRepository) list(ctx context.Context, tail string, args ...interface{}) ([]*domain.Place, error) {
	query := `
		SELECT id, title, description, price, latitude, longitude, owner_id, created_at, updated_at
		FROM places ` + tail

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	defer rows.Close()

	var places []*domain.Place
	for rows.Next() {
		place := &domain.Place{}
		err := rows.Scan(
			&place.ID,
			&place.Title,
			&place.Description,
			&place.Price,
			&place.Latitude,
			&place.Longitude,
			&place.OwnerID,
			&place.CreatedAt,
			&place.UpdatedAt,
		)
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
		SET title = $1, description = $2, price = $3, latitude = $4, longitude = $5, updated_at = $6
		WHERE id = $7
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		place.Title,
		place.Description,
		place.Price,
		place.Latitude,
		place.Longitude,
		place.UpdatedAt,
		place.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update place: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrPlaceNotFound
	}

	return nil
}

// Delete removes a place by ID. The join rows go with it (ON DELETE CASCADE).
func (r *placeRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM places WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete place: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrPlaceNotFound
	}

	return nil
}

// DeleteByOwner removes all places owned by the given user.
func (r *placeRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM places WHERE owner_id = $1`, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete places by owner: %w", err)
	}
	return nil
}

func (r *placeRepository) loadAmenityIDs(ctx context.Context, placeID string) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT amenity_id FROM place_amenities WHERE place_id = $1`, placeID)
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
