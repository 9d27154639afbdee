package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/solera-labs/estancia/internal/domain"
	"github.com/solera-labs/estancia/internal/repository"
)

// placeDetailTTL bounds how stale a cached place view may get.
const placeDetailTTL = 5 * time.Minute

// PlaceService handles rental listings. Writes are checked against the
// referenced owner and amenities before anything is persisted, so a failed
// create leaves no partial state behind.
type PlaceService struct {
	repos  repository.Repositories
	cache  repository.Cache
	logger zerolog.Logger
}

// NewPlaceService creates a new PlaceService.
func NewPlaceService(repos repository.Repositories, cache repository.Cache, logger zerolog.Logger) *PlaceService {
	return &PlaceService{
		repos:  repos,
		cache:  cache,
		logger: logger.With().Str("service", "place").Logger(),
	}
}

// CreatePlaceInput contains the data needed to create a place.
type CreatePlaceInput struct {
	Title       string
	Description string
	Price       float64
	Latitude    float64
	Longitude   float64
	OwnerID     string
	AmenityIDs  []string
}

// OwnerSummary is the owner slice of a place detail view.
type OwnerSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// AmenitySummary is the amenity slice of a place detail view.
type AmenitySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PlaceDetail is the composite read model of a place: the place itself plus
// resolved owner and amenity summaries. This is what single-place reads
// return, and what the cache stores.
type PlaceDetail struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Price       float64          `json:"price"`
	Latitude    float64          `json:"latitude"`
	Longitude   float64          `json:"longitude"`
	Owner       OwnerSummary     `json:"owner"`
	Amenities   []AmenitySummary `json:"amenities"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// PlaceSummary is the compact form used by place listings.
type PlaceSummary struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Create validates and persists a new place. The owner and every referenced
// amenity must exist before the first write happens; all unresolved amenity
// identifiers are reported together.
func (s *PlaceService) Create(ctx context.Context, input CreatePlaceInput) (*domain.Place, error) {
	place, err := domain.NewPlace(
		input.Title,
		input.Description,
		input.Price,
		input.Latitude,
		input.Longitude,
		input.OwnerID,
		input.AmenityIDs,
	)
	if err != nil {
		return nil, err
	}

	if _, err := s.repos.Users.GetByID(ctx, place.OwnerID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrOwnerNotFound
		}
		s.logger.Error().Err(err).Str("owner_id", place.OwnerID).Msg("failed to resolve owner")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if err := s.resolveAmenities(ctx, place.AmenityIDs); err != nil {
		return nil, err
	}

	if err := s.repos.Places.Create(ctx, place); err != nil {
		if errors.Is(err, domain.ErrOwnerNotFound) {
			return nil, domain.ErrOwnerNotFound
		}
		s.logger.Error().Err(err).Str("place_id", place.ID).Msg("failed to create place")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info().
		Str("place_id", place.ID).
		Str("owner_id", place.OwnerID).
		Int("amenities", len(place.AmenityIDs)).
		Msg("place created")

	return place, nil
}

// Get returns the composite view of a place, served from cache when a fresh
// copy exists. Cache failures fall through to the repositories.
func (s *PlaceService) Get(ctx context.Context, id string) (*PlaceDetail, error) {
	key := repository.CacheKey{}.PlaceDetail(id)

	if data, err := s.cache.Get(ctx, key); err == nil {
		var detail PlaceDetail
		if err := json.Unmarshal(data, &detail); err == nil {
			return &detail, nil
		}
		// Corrupt entry, drop it and rebuild.
		s.invalidate(ctx, id)
	} else if !errors.Is(err, repository.ErrCacheMiss) {
		s.logger.Warn().Err(err).Str("place_id", id).Msg("cache read failed")
	}

	detail, err := s.buildDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(detail); err == nil {
		if err := s.cache.Set(ctx, key, data, placeDetailTTL); err != nil {
			s.logger.Warn().Err(err).Str("place_id", id).Msg("cache write failed")
		}
	}

	return detail, nil
}

// GetRaw returns the stored place without resolving references.
func (s *PlaceService) GetRaw(ctx context.Context, id string) (*domain.Place, error) {
	place, err := s.repos.Places.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPlaceNotFound) {
			return nil, domain.ErrPlaceNotFound
		}
		s.logger.Error().Err(err).Str("place_id", id).Msg("failed to get place")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return place, nil
}

// List returns compact summaries of all places in insertion order.
func (s *PlaceService) List(ctx context.Context) ([]PlaceSummary, error) {
	places, err := s.repos.Places.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list places")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	summaries := make([]PlaceSummary, 0, len(places))
	for _, place := range places {
		summaries = append(summaries, PlaceSummary{
			ID:        place.ID,
			Title:     place.Title,
			Latitude:  place.Latitude,
			Longitude: place.Longitude,
		})
	}
	return summaries, nil
}

// ListByOwner returns compact summaries of the places owned by a user.
func (s *PlaceService) ListByOwner(ctx context.Context, ownerID string) ([]PlaceSummary, error) {
	places, err := s.repos.Places.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error().Err(err).Str("owner_id", ownerID).Msg("failed to list places by owner")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	summaries := make([]PlaceSummary, 0, len(places))
	for _, place := range places {
		summaries = append(summaries, PlaceSummary{
			ID:        place.ID,
			Title:     place.Title,
			Latitude:  place.Latitude,
			Longitude: place.Longitude,
		})
	}
	return summaries, nil
}

// Update applies a partial update to a place. The owner and amenity set are
// not updatable. The cached view is invalidated on success.
func (s *PlaceService) Update(ctx context.Context, id string, upd domain.PlaceUpdate) (*domain.Place, error) {
	place, err := s.GetRaw(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := place.Update(upd); err != nil {
		return nil, err
	}

	if err := s.repos.Places.Update(ctx, place); err != nil {
		if errors.Is(err, domain.ErrPlaceNotFound) {
			return nil, domain.ErrPlaceNotFound
		}
		s.logger.Error().Err(err).Str("place_id", id).Msg("failed to update place")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.invalidate(ctx, id)
	s.logger.Info().Str("place_id", place.ID).Msg("place updated")
	return place, nil
}

// Delete removes a place together with its reviews and its cached view.
func (s *PlaceService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetRaw(ctx, id); err != nil {
		return err
	}

	if err := s.repos.Reviews.DeleteByPlace(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("place_id", id).Msg("failed to delete place reviews")
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if err := s.repos.Places.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrPlaceNotFound) {
			return domain.ErrPlaceNotFound
		}
		s.logger.Error().Err(err).Str("place_id", id).Msg("failed to delete place")
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.invalidate(ctx, id)
	s.logger.Info().Str("place_id", id).Msg("place deleted")
	return nil
}

// buildDetail assembles the composite view from the repositories. Amenity
// identifiers that no longer resolve are skipped rather than failing the read.
func (s *PlaceService) buildDetail(ctx context.Context, id string) (*PlaceDetail, error) {
	place, err := s.GetRaw(ctx, id)
	if err != nil {
		return nil, err
	}

	owner, err := s.repos.Users.GetByID(ctx, place.OwnerID)
	if err != nil {
		s.logger.Error().Err(err).Str("place_id", id).Str("owner_id", place.OwnerID).Msg("failed to resolve place owner")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	amenities := make([]AmenitySummary, 0, len(place.AmenityIDs))
	for _, amenityID := range place.AmenityIDs {
		amenity, err := s.repos.Amenities.GetByID(ctx, amenityID)
		if err != nil {
			if errors.Is(err, domain.ErrAmenityNotFound) {
				continue
			}
			s.logger.Error().Err(err).Str("amenity_id", amenityID).Msg("failed to resolve place amenity")
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		amenities = append(amenities, AmenitySummary{ID: amenity.ID, Name: amenity.Name})
	}

	return &PlaceDetail{
		ID:          place.ID,
		Title:       place.Title,
		Description: place.Description,
		Price:       place.Price,
		Latitude:    place.Latitude,
		Longitude:   place.Longitude,
		Owner: OwnerSummary{
			ID:        owner.ID,
			FirstName: owner.FirstName,
			LastName:  owner.LastName,
			Email:     owner.Email,
		},
		Amenities: amenities,
		CreatedAt: place.CreatedAt,
		UpdatedAt: place.UpdatedAt,
	}, nil
}

// resolveAmenities verifies every identifier against the amenity repository
// and reports all misses at once.
func (s *PlaceService) resolveAmenities(ctx context.Context, ids []string) error {
	var missing []string
	for _, id := range ids {
		_, err := s.repos.Amenities.GetByID(ctx, id)
		if err == nil {
			continue
		}
		if errors.Is(err, domain.ErrAmenityNotFound) {
			missing = append(missing, id)
			continue
		}
		s.logger.Error().Err(err).Str("amenity_id", id).Msg("failed to resolve amenity")
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if len(missing) > 0 {
		return &domain.MissingAmenitiesError{IDs: missing}
	}
	return nil
}

// invalidate drops the cached view of a place. Failures are logged only.
func (s *PlaceService) invalidate(ctx context.Context, placeID string) {
	key := repository.CacheKey{}.PlaceDetail(placeID)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn().Err(err).Str("place_id", placeID).Msg("failed to invalidate place cache")
	}
}
