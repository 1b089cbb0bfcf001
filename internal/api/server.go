// Package api exposes the recommendation engine over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"vecindario/internal/logging"
	"vecindario/internal/metrics"
	"vecindario/internal/model"
	"vecindario/internal/weights"
)

// Ranker produces a recommendation run.
type Ranker interface {
	Recommend(ctx context.Context, profile model.UserProfile, neighborhoods []model.Neighborhood) (*model.RecommendationResponse, error)
}

// NeighborhoodLister supplies the master list when a request does not carry one.
type NeighborhoodLister interface {
	ListNeighborhoods(ctx context.Context) ([]model.Neighborhood, error)
}

// Server holds the handlers' dependencies.
type Server struct {
	Ranker        Ranker
	Neighborhoods NeighborhoodLister
	DefaultLimit  int
}

// NewServer builds a Server; neighborhoods may be nil.
func NewServer(r Ranker, neighborhoods NeighborhoodLister, defaultLimit int) *Server {
	return &Server{Ranker: r, Neighborhoods: neighborhoods, DefaultLimit: defaultLimit}
}

// Routes returns the chi router serving the API, health and metrics.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", metrics.Handler())
	r.Route("/api", func(r chi.Router) {
		r.Get("/neighborhoods", s.handleNeighborhoods)
		r.Post("/weights", s.handleWeights)
		r.Post("/recommendations", s.handleRecommend)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNeighborhoods(w http.ResponseWriter, r *http.Request) {
	if s.Neighborhoods == nil {
		writeJSON(w, http.StatusOK, []model.Neighborhood{})
		return
	}
	list, err := s.Neighborhoods.ListNeighborhoods(r.Context())
	if err != nil {
		logging.Error("list_neighborhoods_failed", map[string]any{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "storage_error", "could not list neighborhoods")
		return
	}
	if list == nil {
		list = []model.Neighborhood{}
	}
	writeJSON(w, http.StatusOK, list)
}

type WeightsRequest struct {
	Profile model.UserProfile `json:"profile"`
}

type WeightsResponse struct {
	Weights       model.WeightVector     `json:"weights"`
	Contributions []weights.Contribution `json:"contributions"`
}

func (s *Server) handleWeights(w http.ResponseWriter, r *http.Request) {
	var req WeightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON")
		return
	}
	contribs := weights.Contributions(req.Profile)
	if contribs == nil {
		contribs = []weights.Contribution{}
	}
	writeJSON(w, http.StatusOK, WeightsResponse{Weights: weights.Derive(req.Profile), Contributions: contribs})
}

type RecommendRequest struct {
	Profile       model.UserProfile    `json:"profile"`
	Neighborhoods []model.Neighborhood `json:"neighborhoods" validate:"omitempty,max=1000,dive"`
	Limit         int                  `json:"limit" validate:"gte=0,lte=1000"`
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	if s.Ranker == nil {
		writeError(w, http.StatusServiceUnavailable, "not_configured", "recommendation engine not configured")
		return
	}
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON")
		return
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "limit must be an integer")
			return
		}
		req.Limit = parsed
	}
	if err := validate().Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", validationMessage(err))
		return
	}

	ns := req.Neighborhoods
	if len(ns) == 0 && s.Neighborhoods != nil {
		list, err := s.Neighborhoods.ListNeighborhoods(r.Context())
		if err != nil {
			logging.Error("list_neighborhoods_failed", map[string]any{"error": err.Error()})
			writeError(w, http.StatusInternalServerError, "storage_error", "could not list neighborhoods")
			return
		}
		ns = list
	}

	resp, err := s.Ranker.Recommend(r.Context(), req.Profile, ns)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "recommendation_failed", "recommendation run failed")
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.DefaultLimit
	}
	if limit > 0 && len(resp.Recommendations) > limit {
		trimmed := *resp
		trimmed.Recommendations = resp.Recommendations[:limit]
		resp = &trimmed
	}
	writeJSON(w, http.StatusOK, resp)
}

var (
	validateOnce sync.Once
	validateInst *validator.Validate
)

func validate() *validator.Validate {
	validateOnce.Do(func() {
		validateInst = validator.New(validator.WithRequiredStructEnabled())
	})
	return validateInst
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Namespace()+" failed "+fe.Tag())
	}
	return strings.Join(msgs, "; ")
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
