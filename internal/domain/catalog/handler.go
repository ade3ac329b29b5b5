package catalog

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
	r.Route("/packages", func(cr chi.Router) {
		cr.Post("/", createPackageHandler(svc))
		cr.Get("/{packageID}", getPackageHandler(svc))
		cr.Delete("/{packageID}", deactivatePackageHandler(svc))
	})

	r.Get("/providers/{providerID}/packages", listProviderPackagesHandler(svc))
}

type priceTierPayload struct {
	Name        string `json:"name"`
	PriceCents  int64  `json:"price_cents"`
	Currency    string `json:"currency"`
	Description string `json:"description,omitempty"`
}

type createPackageRequest struct {
	ProviderID  string             `json:"provider_id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	ServiceType string             `json:"service_type"`
	Tiers       []priceTierPayload `json:"tiers"`
}

type packageResponse struct {
	ID          string             `json:"id"`
	ProviderID  string             `json:"provider_id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	ServiceType string             `json:"service_type,omitempty"`
	Tiers       []priceTierPayload `json:"tiers"`
	Active      bool               `json:"active"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func createPackageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createPackageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		tiers := make([]PriceTier, 0, len(req.Tiers))
		for _, t := range req.Tiers {
			tiers = append(tiers, PriceTier{
				Name:        t.Name,
				PriceCents:  t.PriceCents,
				Currency:    t.Currency,
				Description: t.Description,
			})
		}

		p, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			ProviderID:  req.ProviderID,
			Name:        req.Name,
			Description: req.Description,
			ServiceType: req.ServiceType,
			Tiers:       tiers,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrPlanLimit):
				http.Error(w, "plan limit reached", http.StatusPaymentRequired)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toPackageResponse(p))
	}
}

func getPackageHandler(svc *Service) http.HandlerFunc {
	// Catálogo público: no exige claims.
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "packageID"))
		if err != nil {
			http.Error(w, "package not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toPackageResponse(p))
	}
}

func listProviderPackagesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByProvider(r.Context(), chi.URLParam(r, "providerID"))
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]packageResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPackageResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func deactivatePackageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Deactivate(r.Context(), chi.URLParam(r, "packageID")); err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				http.Error(w, "package not found", http.StatusNotFound)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toPackageResponse(p Package) packageResponse {
	tiers := make([]priceTierPayload, 0, len(p.Tiers))
	for _, t := range p.Tiers {
		tiers = append(tiers, priceTierPayload{
			Name:        t.Name,
			PriceCents:  t.PriceCents,
			Currency:    t.Currency,
			Description: t.Description,
		})
	}
	return packageResponse{
		ID:          p.ID,
		ProviderID:  p.ProviderID,
		Name:        p.Name,
		Description: p.Description,
		ServiceType: p.ServiceType,
		Tiers:       tiers,
		Active:      p.Active,
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
