package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/solera-labs/estancia/internal/domain"
	"github.com/solera-labs/estancia/internal/repository"
)

// NewRepositories creates a full set of volatile repositories.
func NewRepositories() *repository.Repositories {
	return &repository.Repositories{
		Users:     NewUserRepository(),
		Amenities: NewAmenityRepository(),
		Places:    NewPlaceRepository(),
		Reviews:   NewReviewRepository(),
	}
}

// ensureIdentity backfills identifier and timestamps when the caller did not
// set them. Entities built through the domain constructors always arrive
// complete; this keeps the contract honest for hand-built test fixtures.
func ensureIdentity(id *string, createdAt, updatedAt *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	now := time.Now().UTC()
	if createdAt.IsZero() {
		*createdAt = now
	}
	if updatedAt.IsZero() {
		*updatedAt = now
	}
}

// =============================================================================
// Users
// =============================================================================

type userRepository struct {
	store *store[*domain.User]
}

// NewUserRepository creates a volatile user repository.
func NewUserRepository() repository.UserRepository {
	return &userRepository{
		store: newStore(func(u *domain.User) *domain.User {
			cp := *u
			return &cp
		}),
	}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	ensureIdentity(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if _, ok := r.store.find(func(u *domain.User) bool { return u.Email == user.Email }); ok {
		return domain.ErrEmailAlreadyRegistered
	}
	if !r.store.add(user.ID, user) {
		return domain.ErrAlreadyExists
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := r.store.get(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, ok := r.store.find(func(u *domain.User) bool { return u.Email == email })
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	return r.store.all(), nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	if other, ok := r.store.find(func(u *domain.User) bool { return u.Email == user.Email && u.ID != user.ID }); ok && other != nil {
		return domain.ErrEmailAlreadyRegistered
	}
	if !r.store.replace(user.ID, user) {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	if !r.store.remove(id) {
		return domain.ErrUserNotFound
	}
	return nil
}

// =============================================================================
// Amenities
// =============================================================================

type amenityRepository struct {
	store *store[*domain.Amenity]
}

// NewAmenityRepository creates a volatile amenity repository.
func NewAmenityRepository() repository.AmenityRepository {
	return &amenityRepository{
		store: newStore(func(a *domain.Amenity) *domain.Amenity {
			cp := *a
			return &cp
		}),
	}
}

func (r *amenityRepository) Create(ctx context.Context, amenity *domain.Amenity) error {
	ensureIdentity(&amenity.ID, &amenity.CreatedAt, &amenity.UpdatedAt)
	if !r.store.add(amenity.ID, amenity) {
		return domain.ErrAlreadyExists
	}
	return nil
}

func (r *amenityRepository) GetByID(ctx context.Context, id string) (*domain.Amenity, error) {
	amenity, ok := r.store.get(id)
	if !ok {
		return nil, domain.ErrAmenityNotFound
	}
	return amenity, nil
}

func (r *amenityRepository) GetByName(ctx context.Context, name string) (*domain.Amenity, error) {
	amenity, ok := r.store.find(func(a *domain.Amenity) bool { return a.Name == name })
	if !ok {
		return nil, domain.ErrAmenityNotFound
	}
	return amenity, nil
}

func (r *amenityRepository) List(ctx context.Context) ([]*domain.Amenity, error) {
	return r.store.all(), nil
}

func (r *amenityRepository) Update(ctx context.Context, amenity *domain.Amenity) error {
	if !r.store.replace(amenity.ID, amenity) {
		return domain.ErrAmenityNotFound
	}
	return nil
}

func (r *amenityRepository) Delete(ctx context.Context, id string) error {
	if !r.store.remove(id) {
		return domain.ErrAmenityNotFound
	}
	return nil
}

// =============================================================================
// Places
// =============================================================================

type placeRepository struct {
	store *store[*domain.Place]
}

// NewPlaceRepository creates a volatile place repository.
func NewPlaceRepository() repository.PlaceRepository {
	return &placeRepository{
		store: newStore(func(p *domain.Place) *domain.Place {
			cp := *p
			cp.AmenityIDs = append([]string(nil), p.AmenityIDs...)
			return &cp
		}),
	}
}

func (r *placeRepository) Create(ctx context.Context, place *domain.Place) error {
	ensureIdentity(&place.ID, &place.CreatedAt, &place.UpdatedAt)
	if !r.store.add(place.ID, place) {
		return domain.ErrAlreadyExists
	}
	return nil
}

func (r *placeRepository) GetByID(ctx context.Context, id string) (*domain.Place, error) {
	place, ok := r.store.get(id)
	if !ok {
		return nil, domain.ErrPlaceNotFound
	}
	return place, nil
}

func (r *placeRepository) List(ctx context.Context) ([]*domain.Place, error) {
	return r.store.all(), nil
}

func (r *placeRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Place, error) {
	return r.store.filter(func(p *domain.Place) bool { return p.OwnerID == ownerID }), nil
}

func (r *placeRepository) Update(ctx context.Context, place *domain.Place) error {
	if !r.store.replace(place.ID, place) {
		return domain.ErrPlaceNotFound
	}
	return nil
}

func (r *placeRepository) Delete(ctx context.Context, id string) error {
	if !r.store.remove(id) {
		return domain.ErrPlaceNotFound
	}
	return nil
}

func (r *placeRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	r.store.removeAll(func(p *domain.Place) bool { return p.OwnerID == ownerID })
	return nil
}

// =============================================================================
// Reviews
// =============================================================================

type reviewRepository struct {
	store *store[*domain.Review]
}

// NewReviewRepository creates a volatile review repository.
func NewReviewRepository() repository.ReviewRepository {
	return &reviewRepository{
		store: newStore(func(rv *domain.Review) *domain.Review {
			cp := *rv
			return &cp
		}),
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	ensureIdentity(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if !r.store.add(review.ID, review) {
		return domain.ErrAlreadyExists
	}
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	review, ok := r.store.get(id)
	if !ok {
		return nil, domain.ErrReviewNotFound
	}
	return review, nil
}

func (r *reviewRepository) List(ctx context.Context) ([]*domain.Review, error) {
	return r.store.all(), nil
}

func (r *reviewRepository) ListByPlace(ctx context.Context, placeID string) ([]*domain.Review, error) {
	return r.store.filter(func(rv *domain.Review) bool { return rv.PlaceID == placeID }), nil
}

func (r *reviewRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Review, error) {
	return r.store.filter(func(rv *domain.Review) bool { return rv.UserID == userID }), nil
}

func (r *reviewRepository) Update(ctx context.Context, review *domain.Review) error {
	if !r.store.replace(review.ID, review) {
		return domain.ErrReviewNotFound
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	if !r.store.remove(id) {
		return domain.ErrReviewNotFound
	}
	return nil
}

func (r *reviewRepository) DeleteByPlace(ctx context.Context, placeID string) error {
	r.store.removeAll(func(rv *domain.Review) bool { return rv.PlaceID == placeID })
	return nil
}

func (r *reviewRepository) DeleteByUser(ctx context.Context, userID string) error {
	r.store.removeAll(func(rv *domain.Review) bool { return rv.UserID == userID })
	return nil
}

// Interface guards.
var (
	_ repository.UserRepository    = (*userRepository)(nil)
	_ repository.AmenityRepository = (*amenityRepository)(nil)
	_ repository.PlaceRepository   = (*placeRepository)(nil)
	_ repository.ReviewRepository  = (*reviewRepository)(nil)
)
