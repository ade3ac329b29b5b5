package casefiles

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-care-marketplace/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/casefiles", func(cr chi.Router) {
		cr.Post("/", createCaseFileHandler(svc))
		cr.Get("/{caseFileID}", getCaseFileHandler(svc))
		cr.Post("/{caseFileID}/assign", assignCaseFileHandler(svc))
	})
}

type createCaseFileRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	CaseType      string `json:"case_type"`
	PetName       string `json:"pet_name"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
}

type caseFileResponse struct {
	ID              string    `json:"id"`
	CaseNumber      string    `json:"case_number"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Priority        string    `json:"priority,omitempty"`
	Status          string    `json:"status"`
	CaseType        string    `json:"case_type"`
	PetName         string    `json:"pet_name"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	AssignedNurseID string    `json:"assigned_nurse_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type assignRequest struct {
	NurseID string `json:"nurse_id"`
}

func createCaseFileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createCaseFileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		cf, err := svc.Create(r.Context(), CreateInput{
			Title:         req.Title,
			Description:   req.Description,
			CaseType:      CaseType(strings.TrimSpace(req.CaseType)),
			PetName:       req.PetName,
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toCaseFileResponse(cf))
	}
}

func getCaseFileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		cf, err := svc.GetByID(r.Context(), chi.URLParam(r, "caseFileID"))
		if err != nil {
			http.Error(w, "case not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toCaseFileResponse(cf))
	}
}

func assignCaseFileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req assignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		// Sin nurse_id explícito, la enfermera se asigna a sí misma
		// (pick-up desde la cola compartida).
		nurseID := strings.TrimSpace(req.NurseID)
		if nurseID == "" {
			nurseID = claims.UserID
		}

		cf, err := svc.Assign(r.Context(), chi.URLParam(r, "caseFileID"), nurseID)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "case not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toCaseFileResponse(cf))
	}
}

func toCaseFileResponse(cf CaseFile) caseFileResponse {
	return caseFileResponse{
		ID:              cf.ID,
		CaseNumber:      cf.CaseNumber,
		Title:           cf.Title,
		Description:     cf.Description,
		Priority:        cf.Priority,
		Status:          string(cf.Status),
		CaseType:        string(cf.CaseType),
		PetName:         cf.PetName,
		CustomerName:    cf.CustomerName,
		CustomerEmail:   cf.CustomerEmail,
		AssignedNurseID: cf.AssignedNurseID,
		CreatedAt:       cf.CreatedAt,
		UpdatedAt:       cf.UpdatedAt,
	}
}

// writeJSON duplicado a propósito (ver nota en bookings/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
