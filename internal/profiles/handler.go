package profiles

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/dialogamente/backend/internal/httputil"
	"github.com/dialogamente/backend/internal/models"
	"github.com/dialogamente/backend/internal/scoring"
	"github.com/gorilla/mux"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the quiz routes on an authenticated router.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/tests", h.SubmitTest).Methods("POST")
	r.HandleFunc("/tests", h.ListTests).Methods("GET")
	r.HandleFunc("/tests/compare", h.Compare).Methods("GET")
	r.HandleFunc("/tests/export", h.Export).Methods("GET")
	r.HandleFunc("/tests/{id}/insights", h.Insights).Methods("POST")
	r.HandleFunc("/analytics", h.Analytics).Methods("GET")
}

func (h *Handler) SubmitTest(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.SubmitTestRequest
	if err := httputil.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteRequestError(w, err)
		return
	}

	resp, err := h.service.Submit(r.Context(), userID, req)
	if err != nil {
		h.writeError(w, "Failed to save test result", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) ListTests(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	resp, err := h.service.History(r.Context(), userID)
	if err != nil {
		h.writeError(w, "Failed to get test history", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	resp, err := h.service.Compare(r.Context(), userID)
	if err != nil {
		h.writeError(w, "Failed to compare results", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Analytics(r.Context())
	if err != nil {
		h.writeError(w, "Failed to get analytics", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	data, err := h.service.Export(r.Context(), userID)
	if err != nil {
		h.writeError(w, "Failed to export history", err)
		return
	}

	filename := fmt.Sprintf("dialogamente-historico-%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	resp, err := h.service.Insights(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, "Failed to generate insights", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, scoring.ErrInsufficientData):
		httputil.WriteError(w, http.StatusUnprocessableEntity, scoring.ErrInsufficientData.Error())
	case errors.Is(err, ErrNothingScored):
		httputil.WriteError(w, http.StatusBadRequest, ErrNothingScored.Error())
	case errors.Is(err, ErrNotFound):
		httputil.WriteError(w, http.StatusNotFound, ErrNotFound.Error())
	default:
		log.Printf("[profiles] %s: %v", msg, err)
		httputil.WriteError(w, http.StatusInternalServerError, msg)
	}
}
