package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/wonny/cinemood/internal/contracts"
	"github.com/wonny/cinemood/internal/recommend"
	"github.com/wonny/cinemood/pkg/logger"
)

const healthTimeout = 2 * time.Second

// CatalogHandler handles the read API
// ⭐ SSOT: 카탈로그 조회 API 핸들러는 이 구조체에서만
type CatalogHandler struct {
	recommender recommend.Recommender
	probe       contracts.StoreProbe
	logger      *logger.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(rec recommend.Recommender, probe contracts.StoreProbe, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		recommender: rec,
		probe:       probe,
		logger:      log.WithComponent("api"),
	}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// TitlesResponse is the body of GET /titles
type TitlesResponse struct {
	Items []contracts.MovieMeta `json:"items"`
}

// MoodsResponse is the body of GET /moods
type MoodsResponse struct {
	Moods map[string][]string `json:"moods"`
}

// Health pings the store only; catalog contents are not read
// GET /health
func (h *CatalogHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	resp := HealthResponse{Status: "ok", Store: h.probe.Location()}
	if err := h.probe.Ping(ctx); err != nil {
		h.logger.WithError(err).Warn("Store ping failed")
		resp.Status = "unavailable"
		respondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Titles searches movie titles
// GET /titles?query=&limit=
func (h *CatalogHandler) Titles(w http.ResponseWriter, r *http.Request) {
	params, err := ParseTitlesParams(r.URL.Query())
	if err != nil {
		respondFailure(w, h.logger, err)
		return
	}

	items, err := h.recommender.Search(r.Context(), params.Query, params.Limit)
	if err != nil {
		respondFailure(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, TitlesResponse{Items: items})
}

// Recommendations ranks movies for a mood
// GET /recommendations?mood=&k=&min_count=
func (h *CatalogHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	params, err := ParseRecommendParams(r.URL.Query())
	if err != nil {
		respondFailure(w, h.logger, err)
		return
	}

	rec, err := h.recommender.Recommend(r.Context(), recommend.Request{
		Mood:     params.Mood,
		K:        params.K,
		MinCount: params.MinCount,
	})
	if err != nil {
		respondFailure(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, rec)
}

// Moods returns the active mood table
// GET /moods
func (h *CatalogHandler) Moods(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, MoodsResponse{Moods: h.recommender.Moods().Moods()})
}
