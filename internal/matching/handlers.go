package matching

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vfuster66/matcha-42-sub000/internal/auth"
	"github.com/vfuster66/matcha-42-sub000/internal/common/utils"
)

// HandlerConfig holds request defaults and limits
type HandlerConfig struct {
	MinAge       int
	MaxAge       int
	MaxInterests int
}

type Handler struct {
	service Service
	cfg     HandlerConfig
	logger  *zap.Logger
}

func NewHandler(service Service, cfg HandlerConfig, logger *zap.Logger) *Handler {
	return &Handler{service: service, cfg: cfg, logger: logger}
}

type fameRatingResponse struct {
	UserID     int64 `json:"user_id"`
	FameRating int   `json:"fame_rating"`
}

// DiscoverMatches returns the ranked matches for the authenticated user
func (h *Handler) DiscoverMatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	filters, opts, err := h.parseMatchQuery(r.URL.Query())
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	matches, err := h.service.GetFilteredAndSortedMatches(r.Context(), userID, filters, opts)
	if err != nil {
		if errors.Is(err, ErrInvalidFilters) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to get matches",
			zap.Int64("user_id", userID),
			zap.String("request_id", auth.GetRequestIDFromContext(r.Context())),
			zap.Error(err),
		)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get matches")
		return
	}

	if matches == nil {
		matches = []*ScoredProfile{}
	}
	utils.RespondWithData(w, http.StatusOK, matches)
}

// GetFameRating returns the read-path fame rating of any user
func (h *Handler) GetFameRating(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil || userID <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	rating := h.service.CalculateFameRating(r.Context(), userID)
	utils.RespondWithData(w, http.StatusOK, fameRatingResponse{UserID: userID, FameRating: rating})
}

// RefreshFameRating recomputes and persists the authenticated user's rating
func (h *Handler) RefreshFameRating(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	rating, err := h.service.UpdateFameRating(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("failed to refresh fame rating", zap.Int64("user_id", userID), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to refresh fame rating")
		return
	}

	utils.RespondWithData(w, http.StatusOK, fameRatingResponse{UserID: userID, FameRating: rating})
}

func (h *Handler) parseMatchQuery(q url.Values) (*MatchFilters, *SortOptions, error) {
	filters := &MatchFilters{
		AgeRange:         Range{Min: h.cfg.MinAge, Max: h.cfg.MaxAge},
		Interests:        splitList(q["interests"]),
		SexualPreference: strings.ToLower(strings.TrimSpace(q.Get("sexual_preference"))),
		Location: Location{
			City:    strings.TrimSpace(q.Get("city")),
			Country: strings.TrimSpace(q.Get("country")),
		},
	}

	var err error
	if filters.AgeRange.Min, err = intParam(q, "min_age", filters.AgeRange.Min); err != nil {
		return nil, nil, err
	}
	if filters.AgeRange.Max, err = intParam(q, "max_age", filters.AgeRange.Max); err != nil {
		return nil, nil, err
	}
	if v := q.Get("distance"); v != "" {
		if filters.Distance, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, nil, fmt.Errorf("distance must be a number")
		}
	}

	if q.Has("fame_min") || q.Has("fame_max") {
		fameRange := &Range{Min: 0, Max: 100}
		if fameRange.Min, err = intParam(q, "fame_min", fameRange.Min); err != nil {
			return nil, nil, err
		}
		if fameRange.Max, err = intParam(q, "fame_max", fameRange.Max); err != nil {
			return nil, nil, err
		}
		filters.FameRange = fameRange
	}

	if h.cfg.MaxInterests > 0 && len(filters.Interests) > h.cfg.MaxInterests {
		return nil, nil, fmt.Errorf("at most %d interests are allowed", h.cfg.MaxInterests)
	}
	if err := utils.ValidateStruct(filters); err != nil {
		return nil, nil, err
	}

	var opts *SortOptions
	if sortBy := q.Get("sort_by"); sortBy != "" {
		opts = &SortOptions{SortBy: sortBy, Order: strings.ToLower(q.Get("order"))}
		if err := utils.ValidateStruct(opts); err != nil {
			return nil, nil, err
		}
	}

	return filters, opts, nil
}

func intParam(q url.Values, key string, def int) (int, error) {
	v := q.Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}

// splitList accepts both repeated and comma separated values
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
