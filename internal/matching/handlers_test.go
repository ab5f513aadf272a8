package matching

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vfuster66/matcha-42-sub000/internal/auth"
	"github.com/vfuster66/matcha-42-sub000/internal/common/utils"
)

const testJWTSecret = "test-secret"

type fakeService struct {
	userID  int64
	filters *MatchFilters
	opts    *SortOptions

	matches    []*ScoredProfile
	matchesErr error

	rating    int
	updateErr error
}

func (s *fakeService) GetPotentialMatches(ctx context.Context, userID int64, filters *MatchFilters) ([]*ScoredProfile, error) {
	return s.GetFilteredAndSortedMatches(ctx, userID, filters, nil)
}

func (s *fakeService) GetFilteredAndSortedMatches(ctx context.Context, userID int64, filters *MatchFilters, opts *SortOptions) ([]*ScoredProfile, error) {
	s.userID, s.filters, s.opts = userID, filters, opts
	return s.matches, s.matchesErr
}

func (s *fakeService) CalculateFameRating(ctx context.Context, userID int64) int {
	s.userID = userID
	return s.rating
}

func (s *fakeService) UpdateFameRating(ctx context.Context, userID int64) (int, error) {
	s.userID = userID
	return s.rating, s.updateErr
}

func newTestRouter(svc Service) *mux.Router {
	handler := NewHandler(svc, HandlerConfig{MinAge: 18, MaxAge: 99, MaxInterests: 3}, zap.NewNop())
	router := mux.NewRouter()
	RegisterRoutes(router, handler, auth.NewMiddleware(testJWTSecret, zap.NewNop()))
	return router
}

func accessToken(t *testing.T, userID int64) string {
	t.Helper()

	token, err := utils.GenerateJWT(&utils.JWTClaims{
		UserID:    userID,
		Username:  "tester",
		Type:      utils.TokenTypeAccess,
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
		IssuedAt:  time.Now().Unix(),
	}, testJWTSecret)
	require.NoError(t, err)
	return token
}

func serve(t *testing.T, router http.Handler, method, target string, userID int64) (*httptest.ResponseRecorder, utils.Response) {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	if userID > 0 {
		req.Header.Set("Authorization", "Bearer "+accessToken(t, userID))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body utils.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHandler_DiscoverMatches(t *testing.T) {
	svc := &fakeService{matches: []*ScoredProfile{{Profile: Profile{ID: 5, Username: "alice"}, MatchScore: 85}}}
	router := newTestRouter(svc)

	rec, body := serve(t, router, http.MethodGet,
		"/api/v1/matches?min_age=25&max_age=35&interests=music,Hiking&interests=art&city=Paris&country=France"+
			"&sexual_preference=Female&fame_min=60&sort_by=age&order=DESC", 42)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)

	assert.Equal(t, int64(42), svc.userID)
	assert.Equal(t, Range{Min: 25, Max: 35}, svc.filters.AgeRange)
	assert.Equal(t, []string{"music", "Hiking", "art"}, svc.filters.Interests)
	assert.Equal(t, SexualPreferenceFemale, svc.filters.SexualPreference)
	assert.Equal(t, Location{City: "Paris", Country: "France"}, svc.filters.Location)
	assert.Equal(t, &Range{Min: 60, Max: 100}, svc.filters.FameRange)
	assert.Equal(t, &SortOptions{SortBy: SortByAge, Order: OrderDesc}, svc.opts)

	data, ok := body.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, data, 1)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "alice", first["username"])
	assert.Equal(t, 85.0, first["match_score"])
}

func TestHandler_DiscoverMatchesDefaults(t *testing.T) {
	svc := &fakeService{}
	rec, body := serve(t, newTestRouter(svc), http.MethodGet, "/api/v1/matches?interests=music", 42)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, Range{Min: 18, Max: 99}, svc.filters.AgeRange)
	assert.Nil(t, svc.filters.FameRange)
	assert.Nil(t, svc.opts)
	assert.Equal(t, []interface{}{}, body.Data)
}

func TestHandler_DiscoverMatchesBadRequests(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"non numeric age", "min_age=abc"},
		{"inverted age range", "min_age=40&max_age=30"},
		{"negative age", "min_age=-1"},
		{"too many interests", "interests=a,b,c,d"},
		{"unknown preference", "sexual_preference=robots"},
		{"bad distance", "distance=far"},
		{"inverted fame range", "fame_min=80&fame_max=20"},
		{"bad order", "sort_by=age&order=sideways"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			rec, body := serve(t, newTestRouter(svc), http.MethodGet, "/api/v1/matches?"+tt.query, 42)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, body.Success)
			assert.NotEmpty(t, body.Error)
			assert.Nil(t, svc.filters, "service must not be called")
		})
	}
}

func TestHandler_DiscoverMatchesServiceErrors(t *testing.T) {
	t.Run("invalid filters", func(t *testing.T) {
		svc := &fakeService{matchesErr: ErrInvalidFilters}
		rec, _ := serve(t, newTestRouter(svc), http.MethodGet, "/api/v1/matches", 42)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		svc := &fakeService{matchesErr: errors.New("connection refused")}
		rec, body := serve(t, newTestRouter(svc), http.MethodGet, "/api/v1/matches", 42)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to get matches", body.Error)
	})
}

func TestHandler_RequiresAuthentication(t *testing.T) {
	router := newTestRouter(&fakeService{})

	for _, target := range []string{"/api/v1/matches", "/api/v1/fame/1"} {
		rec, body := serve(t, router, http.MethodGet, target, 0)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
		assert.False(t, body.Success)
	}
}

func TestHandler_GetFameRating(t *testing.T) {
	svc := &fakeService{rating: 67}
	rec, body := serve(t, newTestRouter(svc), http.MethodGet, "/api/v1/fame/9", 42)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(9), svc.userID)
	assert.Equal(t, map[string]interface{}{"user_id": 9.0, "fame_rating": 67.0}, body.Data)
}

func TestHandler_GetFameRatingInvalidID(t *testing.T) {
	handler := NewHandler(&fakeService{}, HandlerConfig{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/fame/0", nil)
	req = mux.SetURLVars(req, map[string]string{"userId": "0"})
	rec := httptest.NewRecorder()
	handler.GetFameRating(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_RefreshFameRating(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc := &fakeService{rating: 71}
		rec, body := serve(t, newTestRouter(svc), http.MethodPost, "/api/v1/fame/refresh", 42)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(42), svc.userID)
		assert.Equal(t, map[string]interface{}{"user_id": 42.0, "fame_rating": 71.0}, body.Data)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := &fakeService{updateErr: ErrUserNotFound}
		rec, _ := serve(t, newTestRouter(svc), http.MethodPost, "/api/v1/fame/refresh", 42)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		svc := &fakeService{updateErr: errors.New("deadlock")}
		rec, _ := serve(t, newTestRouter(svc), http.MethodPost, "/api/v1/fame/refresh", 42)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("without user in context", func(t *testing.T) {
		handler := NewHandler(&fakeService{}, HandlerConfig{}, zap.NewNop())
		rec := httptest.NewRecorder()
		handler.RefreshFameRating(rec, httptest.NewRequest(http.MethodPost, "/api/v1/fame/refresh", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a, b", " ", "c,"}))
	assert.Nil(t, splitList(nil))
}
