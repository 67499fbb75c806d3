package gamification

import (
	"errors"
	"log"
	"net/http"

	"github.com/dialogamente/backend/internal/httputil"
	"github.com/dialogamente/backend/internal/models"
	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the gamification routes on an authenticated router.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/gamification/progress", h.GetProgress).Methods("GET")
	r.HandleFunc("/gamification/challenges", h.GetChallenges).Methods("GET")
	r.HandleFunc("/gamification/leaderboard", h.GetLeaderboard).Methods("GET")
	r.HandleFunc("/reviews", h.CreateReview).Methods("POST")
	r.HandleFunc("/activity", h.RecordActivity).Methods("POST")
}

// ── Progress ────────────────────────────────────────────

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	resp, err := h.service.GetProgress(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, "Failed to get progress", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetChallenges(w http.ResponseWriter, r *http.Request) {
	if _, ok := httputil.UserID(r); !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.service.DailyChallenges())
}

// ── Leaderboard ─────────────────────────────────────────

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit := httputil.IntQueryParam(r.URL.Query(), "limit", defaultLeaderboard)
	resp, err := h.service.Leaderboard(r.Context(), userID, limit)
	if err != nil {
		h.writeServiceError(w, "Failed to get leaderboard", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// ── Recorded Actions ────────────────────────────────────

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.CreateReviewRequest
	if err := httputil.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteRequestError(w, err)
		return
	}

	resp, err := h.service.CreateReview(r.Context(), userID, req)
	if err != nil {
		h.writeServiceError(w, "Failed to save review", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.RecordActivityRequest
	if err := httputil.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteRequestError(w, err)
		return
	}

	resp, err := h.service.RecordActivity(r.Context(), userID, req.Kind, req.Platform)
	if err != nil {
		h.writeServiceError(w, "Failed to record activity", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, ErrInvalidRange) {
		httputil.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	log.Printf("[gamification] %s: %v", msg, err)
	httputil.WriteError(w, http.StatusInternalServerError, msg)
}
