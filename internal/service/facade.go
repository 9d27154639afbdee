package service

import (
	"github.com/rs/zerolog"

	"github.com/solera-labs/estancia/internal/lock"
	"github.com/solera-labs/estancia/internal/repository"
)

// Facade bundles the four entity services behind a single entry point.
// It is the only layer allowed to touch the repositories; everything above
// it (HTTP handlers, admin commands) goes through the facade.
type Facade struct {
	Users     *UserService
	Amenities *AmenityService
	Places    *PlaceService
	Reviews   *ReviewService
}

// Config carries the dependencies shared by the services.
type Config struct {
	Repos  repository.Repositories
	Locker lock.Locker
	Cache  repository.Cache
	Logger zerolog.Logger
}

// New wires up a Facade over the given repositories.
func New(cfg Config) *Facade {
	return &Facade{
		Users:     NewUserService(cfg.Repos, cfg.Locker, cfg.Cache, cfg.Logger),
		Amenities: NewAmenityService(cfg.Repos.Amenities, cfg.Logger),
		Places:    NewPlaceService(cfg.Repos, cfg.Cache, cfg.Logger),
		Reviews:   NewReviewService(cfg.Repos, cfg.Logger),
	}
}
