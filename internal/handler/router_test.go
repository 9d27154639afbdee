package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solera-labs/estancia/internal/auth"
	cachemem "github.com/solera-labs/estancia/internal/cache/memory"
	"github.com/solera-labs/estancia/internal/lock"
	"github.com/solera-labs/estancia/internal/metrics"
	"github.com/solera-labs/estancia/internal/repository/memory"
	"github.com/solera-labs/estancia/internal/service"
)

// testAPI bundles the wired handler with the facade behind it so tests can
// seed state directly.
type testAPI struct {
	handler http.Handler
	facade  *service.Facade
	tokens  *auth.TokenManager
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	cache := cachemem.NewCache()
	t.Cleanup(func() { _ = cache.Close() })

	facade := service.New(service.Config{
		Repos:  *memory.NewRepositories(),
		Locker: lock.NewNoOpLocker(),
		Cache:  cache,
		Logger: zerolog.Nop(),
	})
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	router := NewRouter(RouterConfig{
		Facade:  facade,
		Tokens:  tokens,
		Metrics: metrics.New(),
		Logger:  zerolog.Nop(),
	})

	return &testAPI{handler: router.Handler(), facade: facade, tokens: tokens}
}

// do performs a request against the router. A non-empty token is sent as a
// bearer token; the response body is decoded into out when out is non-nil.
func (a *testAPI) do(t *testing.T, method, path, token string, body, out interface{}) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()

	a.handler.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec.Code
}

// register creates a user through the API and returns its login token.
func (a *testAPI) register(t *testing.T, email string) (userID, token string) {
	t.Helper()

	var created struct {
		ID string `json:"id"`
	}
	status := a.do(t, http.MethodPost, "/api/v1/users/", "", map[string]string{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      email,
		"password":   "correct horse",
	}, &created)
	require.Equal(t, http.StatusCreated, status)

	var login struct {
		AccessToken string `json:"access_token"`
	}
	status = a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "correct horse",
	}, &login)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, login.AccessToken)

	return created.ID, login.AccessToken
}

// adminToken seeds an admin account behind the API and logs it in.
func (a *testAPI) adminToken(t *testing.T) string {
	t.Helper()

	admin, err := a.facade.Users.Create(context.Background(), service.CreateUserInput{
		FirstName: "Root",
		LastName:  "Admin",
		Email:     "admin@example.com",
		Password:  "admin password",
		IsAdmin:   true,
	})
	require.NoError(t, err)

	token, err := a.tokens.Issue(admin)
	require.NoError(t, err)
	return token
}

// seedAmenity creates an amenity directly through the facade.
func (a *testAPI) seedAmenity(t *testing.T, name string) string {
	t.Helper()
	amenity, err := a.facade.Amenities.Create(context.Background(), name, "")
	require.NoError(t, err)
	return amenity.ID
}

func TestHealthEndpoint(t *testing.T) {
	api := newTestAPI(t)

	var body map[string]string
	status := api.do(t, http.MethodGet, "/health", "", nil, &body)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
}

func TestRegisterAndLogin(t *testing.T) {
	api := newTestAPI(t)

	t.Run("register", func(t *testing.T) {
		var body map[string]interface{}
		status := api.do(t, http.MethodPost, "/api/v1/users/", "", map[string]string{
			"first_name": "Ada",
			"last_name":  "Lovelace",
			"email":      "ada@example.com",
			"password":   "correct horse",
		}, &body)

		require.Equal(t, http.StatusCreated, status)
		assert.Equal(t, "ada@example.com", body["email"])
		assert.NotContains(t, body, "password")
		assert.NotContains(t, body, "password_hash")
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		status := api.do(t, http.MethodPost, "/api/v1/users/", "", map[string]string{
			"first_name": "Other",
			"last_name":  "Person",
			"email":      "ADA@example.com",
			"password":   "another password",
		}, nil)
		assert.Equal(t, http.StatusConflict, status)
	})

	t.Run("invalid body is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		api.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		status := api.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email":    "ada@example.com",
			"password": "wrong password",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("valid login", func(t *testing.T) {
		var body struct {
			AccessToken string `json:"access_token"`
		}
		status := api.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email":    "ada@example.com",
			"password": "correct horse",
		}, &body)
		assert.Equal(t, http.StatusOK, status)
		assert.NotEmpty(t, body.AccessToken)
	})
}

func TestUserRoutesAuthorization(t *testing.T) {
	api := newTestAPI(t)

	aliceID, aliceToken := api.register(t, "alice@example.com")
	bobID, bobToken := api.register(t, "bob@example.com")

	t.Run("update requires a token", func(t *testing.T) {
		status := api.do(t, http.MethodPut, "/api/v1/users/"+aliceID, "", map[string]string{
			"first_name": "Alicia",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("user updates own profile", func(t *testing.T) {
		var body map[string]interface{}
		status := api.do(t, http.MethodPut, "/api/v1/users/"+aliceID, aliceToken, map[string]string{
			"first_name": "Alicia",
		}, &body)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Alicia", body["first_name"])
	})

	t.Run("user cannot update another profile", func(t *testing.T) {
		status := api.do(t, http.MethodPut, "/api/v1/users/"+aliceID, bobToken, map[string]string{
			"first_name": "Mallory",
		}, nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("admin updates anyone", func(t *testing.T) {
		admin := api.adminToken(t)
		status := api.do(t, http.MethodPut, "/api/v1/users/"+bobID, admin, map[string]string{
			"last_name": "Renamed",
		}, nil)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("user deletes own account", func(t *testing.T) {
		status := api.do(t, http.MethodDelete, "/api/v1/users/"+bobID, bobToken, nil, nil)
		assert.Equal(t, http.StatusNoContent, status)

		status = api.do(t, http.MethodGet, "/api/v1/users/"+bobID, "", nil, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestAmenityAdminGating(t *testing.T) {
	api := newTestAPI(t)
	_, userToken := api.register(t, "user@example.com")
	adminToken := api.adminToken(t)

	t.Run("anonymous create rejected", func(t *testing.T) {
		status := api.do(t, http.MethodPost, "/api/v1/amenities/", "", map[string]string{"name": "WiFi"}, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("non-admin create forbidden", func(t *testing.T) {
		status := api.do(t, http.MethodPost, "/api/v1/amenities/", userToken, map[string]string{"name": "WiFi"}, nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	var amenityID string
	t.Run("admin create", func(t *testing.T) {
		var body map[string]interface{}
		status := api.do(t, http.MethodPost, "/api/v1/amenities/", adminToken, map[string]string{"name": "WiFi"}, &body)
		require.Equal(t, http.StatusCreated, status)
		amenityID = body["id"].(string)
	})

	t.Run("reads are public", func(t *testing.T) {
		var list []map[string]interface{}
		status := api.do(t, http.MethodGet, "/api/v1/amenities/", "", nil, &list)
		assert.Equal(t, http.StatusOK, status)
		require.Len(t, list, 1)
		assert.Equal(t, amenityID, list[0]["id"])
	})

	t.Run("admin delete", func(t *testing.T) {
		status := api.do(t, http.MethodDelete, "/api/v1/amenities/"+amenityID, adminToken, nil, nil)
		assert.Equal(t, http.StatusNoContent, status)
	})
}

func TestPlaceFlow(t *testing.T) {
	api := newTestAPI(t)
	_, ownerToken := api.register(t, "owner@example.com")
	_, otherToken := api.register(t, "other@example.com")
	amenityID := api.seedAmenity(t, "WiFi")

	var placeID string
	t.Run("create", func(t *testing.T) {
		var body map[string]interface{}
		status := api.do(t, http.MethodPost, "/api/v1/places/", ownerToken, map[string]interface{}{
			"title":       "Cozy loft",
			"description": "A quiet two-bedroom flat.",
			"price":       120,
			"latitude":    40.4168,
			"longitude":   -3.7038,
			"amenities":   []string{amenityID},
		}, &body)
		require.Equal(t, http.StatusCreated, status)
		placeID = body["id"].(string)
	})

	t.Run("unknown amenity is a bad request", func(t *testing.T) {
		status := api.do(t, http.MethodPost, "/api/v1/places/", ownerToken, map[string]interface{}{
			"title":       "Cozy loft",
			"description": "A quiet two-bedroom flat.",
			"price":       120,
			"amenities":   []string{"ghost"},
		}, nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("detail read is public", func(t *testing.T) {
		var body map[string]interface{}
		status := api.do(t, http.MethodGet, "/api/v1/places/"+placeID, "", nil, &body)
		require.Equal(t, http.StatusOK, status)

		owner, ok := body["owner"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "owner@example.com", owner["email"])

		amenities, ok := body["amenities"].([]interface{})
		require.True(t, ok)
		assert.Len(t, amenities, 1)
	})

	t.Run("non-owner update forbidden", func(t *testing.T) {
		status := api.do(t, http.MethodPut, "/api/v1/places/"+placeID, otherToken, map[string]interface{}{
			"title": "Hijacked",
		}, nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("owner update", func(t *testing.T) {
		var body map[string]interface{}
		status := api.do(t, http.MethodPut, "/api/v1/places/"+placeID, ownerToken, map[string]interface{}{
			"title": "Sunny loft",
		}, &body)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Sunny loft", body["title"])
	})

	t.Run("owner delete", func(t *testing.T) {
		status := api.do(t, http.MethodDelete, "/api/v1/places/"+placeID, ownerToken, nil, nil)
		assert.Equal(t, http.StatusNoContent, status)

		status = api.do(t, http.MethodGet, "/api/v1/places/"+placeID, "", nil, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestReviewFlow(t *testing.T) {
	api := newTestAPI(t)
	_, ownerToken := api.register(t, "owner@example.com")
	guestID, guestToken := api.register(t, "guest@example.com")
	amenityID := api.seedAmenity(t, "WiFi")

	var place map[string]interface{}
	status := api.do(t, http.MethodPost, "/api/v1/places/", ownerToken, map[string]interface{}{
		"title":       "Cozy loft",
		"description": "A quiet two-bedroom flat.",
		"price":       120,
		"amenities":   []string{amenityID},
	}, &place)
	require.Equal(t, http.StatusCreated, status)
	placeID := place["id"].(string)

	t.Run("fractional rating rejected", func(t *testing.T) {
		status := api.do(t, http.MethodPost, "/api/v1/reviews/", guestToken, map[string]interface{}{
			"text":     "Great stay, would book again.",
			"rating":   4.5,
			"place_id": placeID,
		}, nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	var reviewID string
	t.Run("author comes from the token", func(t *testing.T) {
		var body map[string]interface{}
		status := api.do(t, http.MethodPost, "/api/v1/reviews/", guestToken, map[string]interface{}{
			"text":     "Great stay, would book again.",
			"rating":   5,
			"place_id": placeID,
		}, &body)
		require.Equal(t, http.StatusCreated, status)
		assert.Equal(t, guestID, body["user_id"])
		reviewID = body["id"].(string)
	})

	t.Run("reviews of a place are public", func(t *testing.T) {
		var list []map[string]interface{}
		status := api.do(t, http.MethodGet, "/api/v1/places/"+placeID+"/reviews", "", nil, &list)
		assert.Equal(t, http.StatusOK, status)
		assert.Len(t, list, 1)
	})

	t.Run("unknown place has an empty review list", func(t *testing.T) {
		var list []map[string]interface{}
		status := api.do(t, http.MethodGet, "/api/v1/places/missing/reviews", "", nil, &list)
		assert.Equal(t, http.StatusOK, status)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("non-author delete forbidden", func(t *testing.T) {
		status := api.do(t, http.MethodDelete, "/api/v1/reviews/"+reviewID, ownerToken, nil, nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("author delete", func(t *testing.T) {
		status := api.do(t, http.MethodDelete, "/api/v1/reviews/"+reviewID, guestToken, nil, nil)
		assert.Equal(t, http.StatusNoContent, status)
	})
}
