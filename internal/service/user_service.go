// Package service provides business logic services for Estancia.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/solera-labs/estancia/internal/domain"
	"github.com/solera-labs/estancia/internal/lock"
	"github.com/solera-labs/estancia/internal/repository"
)

const (
	// emailLockTTL bounds how long a registration can hold the email lock.
	emailLockTTL = 5 * time.Second

	emailLockRetries = 3
	emailLockDelay   = 50 * time.Millisecond
)

// UserService handles user accounts, including the email uniqueness rule
// and the cascade that removes a user's places and reviews with the account.
type UserService struct {
	repos  repository.Repositories
	locker lock.Locker
	cache  repository.Cache
	logger zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(repos repository.Repositories, locker lock.Locker, cache repository.Cache, logger zerolog.Logger) *UserService {
	return &UserService{
		repos:  repos,
		locker: locker,
		cache:  cache,
		logger: logger.With().Str("service", "user").Logger(),
	}
}

// CreateUserInput contains the data needed to register a user.
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	IsAdmin   bool
}

// Create registers a new user. The email uniqueness check and the insert
// run under a per-email lock so two concurrent registrations of the same
// address cannot both pass the check.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	user, err := domain.NewUser(input.FirstName, input.LastName, input.Email, input.Password, input.IsAdmin)
	if err != nil {
		return nil, err
	}

	release, err := s.lockEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.ensureEmailFree(ctx, user.Email, ""); err != nil {
		return nil, err
	}

	if err := s.repos.Users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyRegistered) {
			return nil, domain.ErrEmailAlreadyRegistered
		}
		s.logger.Error().Err(err).Str("email", user.Email).Msg("failed to create user")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Bool("is_admin", user.IsAdmin).
		Msg("user created")

	return user, nil
}

// Authenticate verifies the email/password pair and returns the user.
// Lookup misses and bad passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	normalized, err := domain.NormalizeEmail(email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repos.Users.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Debug().Str("email", normalized).Msg("user not found during authentication")
			return nil, domain.ErrInvalidCredentials
		}
		s.logger.Error().Err(err).Msg("failed to look up user during authentication")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if !user.VerifyPassword(password) {
		s.logger.Debug().Str("email", normalized).Msg("invalid password during authentication")
		return nil, domain.ErrInvalidCredentials
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user authenticated")
	return user, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repos.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		s.logger.Error().Err(err).Str("user_id", id).Msg("failed to get user")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return user, nil
}

// GetByEmail retrieves a user by normalized email address.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	normalized, err := domain.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	user, err := s.repos.Users.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		s.logger.Error().Err(err).Msg("failed to get user by email")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return user, nil
}

// List returns all users in insertion order.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repos.Users.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return users, nil
}

// Update applies a partial update to a user. When the email changes, the
// uniqueness of the new address is re-checked under the email lock.
func (s *UserService) Update(ctx context.Context, id string, upd domain.UserUpdate) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := user.Update(upd); err != nil {
		return nil, err
	}

	if upd.Email != nil {
		release, err := s.lockEmail(ctx, user.Email)
		if err != nil {
			return nil, err
		}
		defer release()

		if err := s.ensureEmailFree(ctx, user.Email, user.ID); err != nil {
			return nil, err
		}
	}

	if err := s.repos.Users.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyRegistered) {
			return nil, domain.ErrEmailAlreadyRegistered
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		s.logger.Error().Err(err).Str("user_id", id).Msg("failed to update user")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user updated")
	return user, nil
}

// Delete removes a user and everything that references them: their reviews,
// their places, and the reviews other users left on those places. The
// cascade mirrors the delete order of the relational backends.
func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	places, err := s.repos.Places.ListByOwner(ctx, user.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Msg("failed to list places for cascade")
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	for _, place := range places {
		if err := s.repos.Reviews.DeleteByPlace(ctx, place.ID); err != nil {
			s.logger.Error().Err(err).Str("place_id", place.ID).Msg("failed to delete reviews for owned place")
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		s.invalidatePlace(ctx, place.ID)
	}

	if err := s.repos.Reviews.DeleteByUser(ctx, user.ID); err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Msg("failed to delete user reviews")
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if err := s.repos.Places.DeleteByOwner(ctx, user.ID); err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Msg("failed to delete owned places")
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if err := s.repos.Users.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		s.logger.Error().Err(err).Str("user_id", id).Msg("failed to delete user")
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Int("cascaded_places", len(places)).
		Msg("user deleted")

	return nil
}

// lockEmail serializes writers on a normalized email address.
func (s *UserService) lockEmail(ctx context.Context, email string) (func(), error) {
	key := lock.Keys.UserEmail(email)
	acquired, err := s.locker.AcquireWithRetry(ctx, key, emailLockTTL, emailLockRetries, emailLockDelay)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to acquire email lock")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if !acquired {
		return nil, ErrLockUnavailable
	}
	return func() {
		if _, err := s.locker.Release(context.WithoutCancel(ctx), key); err != nil {
			s.logger.Warn().Err(err).Msg("failed to release email lock")
		}
	}, nil
}

// ensureEmailFree returns ErrEmailAlreadyRegistered when the address belongs
// to a user other than exceptID.
func (s *UserService) ensureEmailFree(ctx context.Context, email, exceptID string) error {
	existing, err := s.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		s.logger.Error().Err(err).Msg("failed to check email uniqueness")
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if existing.ID == exceptID {
		return nil
	}
	return domain.ErrEmailAlreadyRegistered
}

// invalidatePlace drops the cached composite view of a place. Failures are
// logged and ignored.
func (s *UserService) invalidatePlace(ctx context.Context, placeID string) {
	key := repository.CacheKey{}.PlaceDetail(placeID)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn().Err(err).Str("place_id", placeID).Msg("failed to invalidate place cache")
	}
}
