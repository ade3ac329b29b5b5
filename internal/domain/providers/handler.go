package providers

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
	r.Route("/providers", func(pr chi.Router) {
		pr.Post("/", createProviderHandler(svc))
		pr.Get("/{providerID}", getProviderHandler(svc))
		pr.Patch("/{providerID}", updateProviderHandler(svc))
	})

	r.Get("/me/providers", listMyProvidersHandler(svc))
}

type createProviderRequest struct {
	ClinicName string   `json:"clinic_name"`
	Bio        string   `json:"bio"`
	City       string   `json:"city"`
	Services   []string `json:"services"`
}

type updateProviderRequest struct {
	ClinicName *string   `json:"clinic_name"`
	Bio        *string   `json:"bio"`
	City       *string   `json:"city"`
	Services   *[]string `json:"services"`
}

type providerResponse struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	ClinicName  string    `json:"clinic_name"`
	Bio         string    `json:"bio,omitempty"`
	City        string    `json:"city,omitempty"`
	Services    []string  `json:"services"`
	PlanTier    string    `json:"plan_tier"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func createProviderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createProviderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			ClinicName: req.ClinicName,
			Bio:        req.Bio,
			City:       req.City,
			Services:   req.Services,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toProviderResponse(p))
	}
}

func getProviderHandler(svc *Service) http.HandlerFunc {
	// Perfil público: no exige claims.
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "providerID"))
		if err != nil {
			http.Error(w, "provider not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toProviderResponse(p))
	}
}

func updateProviderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateProviderRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.UpdateProfile(r.Context(), chi.URLParam(r, "providerID"), claims.UserID, UpdateProfileInput{
			ClinicName: req.ClinicName,
			Bio:        req.Bio,
			City:       req.City,
			Services:   req.Services,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrForbidden):
				http.Error(w, "forbidden", http.StatusForbidden)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "provider not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toProviderResponse(p))
	}
}

func listMyProvidersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]providerResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toProviderResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toProviderResponse(p Provider) providerResponse {
	return providerResponse{
		ID:          p.ID,
		OwnerUserID: p.OwnerUserID,
		ClinicName:  p.ClinicName,
		Bio:         p.Bio,
		City:        p.City,
		Services:    p.Services,
		PlanTier:    string(p.PlanTier),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// writeJSON duplicado a propósito (ver nota en bookings/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
