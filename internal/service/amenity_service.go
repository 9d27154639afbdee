package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/solera-labs/estancia/internal/domain"
	"github.com/solera-labs/estancia/internal/repository"
)

// AmenityService handles the amenity catalogue.
type AmenityService struct {
	amenityRepo repository.AmenityRepository
	logger      zerolog.Logger
}

// NewAmenityService creates a new AmenityService.
func NewAmenityService(amenityRepo repository.AmenityRepository, logger zerolog.Logger) *AmenityService {
	return &AmenityService{
		amenityRepo: amenityRepo,
		logger:      logger.With().Str("service", "amenity").Logger(),
	}
}

// Create registers a new amenity.
func (s *AmenityService) Create(ctx context.Context, name, description string) (*domain.Amenity, error) {
	amenity, err := domain.NewAmenity(name, description)
	if err != nil {
		return nil, err
	}

	if err := s.amenityRepo.Create(ctx, amenity); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.ErrAlreadyExists
		}
		s.logger.Error().Err(err).Str("name", amenity.Name).Msg("failed to create amenity")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info().Str("amenity_id", amenity.ID).Str("name", amenity.Name).Msg("amenity created")
	return amenity, nil
}

// Get retrieves an amenity by ID.
func (s *AmenityService) Get(ctx context.Context, id string) (*domain.Amenity, error) {
	amenity, err := s.amenityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAmenityNotFound) {
			return nil, domain.ErrAmenityNotFound
		}
		s.logger.Error().Err(err).Str("amenity_id", id).Msg("failed to get amenity")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return amenity, nil
}

// GetByName retrieves an amenity by exact name.
func (s *AmenityService) GetByName(ctx context.Context, name string) (*domain.Amenity, error) {
	amenity, err := s.amenityRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrAmenityNotFound) {
			return nil, domain.ErrAmenityNotFound
		}
		s.logger.Error().Err(err).Str("name", name).Msg("failed to get amenity by name")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return amenity, nil
}

// List returns all amenities in insertion order.
func (s *AmenityService) List(ctx context.Context) ([]*domain.Amenity, error) {
	amenities, err := s.amenityRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list amenities")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return amenities, nil
}

// Update applies a partial update to an amenity.
func (s *AmenityService) Update(ctx context.Context, id string, upd domain.AmenityUpdate) (*domain.Amenity, error) {
	amenity, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := amenity.Update(upd); err != nil {
		return nil, err
	}

	if err := s.amenityRepo.Update(ctx, amenity); err != nil {
		if errors.Is(err, domain.ErrAmenityNotFound) {
			return nil, domain.ErrAmenityNotFound
		}
		s.logger.Error().Err(err).Str("amenity_id", id).Msg("failed to update amenity")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info().Str("amenity_id", amenity.ID).Msg("amenity updated")
	return amenity, nil
}

// Delete removes an amenity. Places keep their recorded amenity references;
// resolution at read time simply skips identifiers that no longer exist.
func (s *AmenityService) Delete(ctx context.Context, id string) error {
	if err := s.amenityRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrAmenityNotFound) {
			return domain.ErrAmenityNotFound
		}
		s.logger.Error().Err(err).Str("amenity_id", id).Msg("failed to delete amenity")
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info().Str("amenity_id", id).Msg("amenity deleted")
	return nil
}
