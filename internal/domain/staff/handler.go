package staff

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
	r.Post("/providers/{providerID}/staff", inviteStaffHandler(svc))
	r.Get("/providers/{providerID}/staff", listProviderStaffHandler(svc))

	// Invitaciones vistas desde el lado de la enfermera.
	r.Get("/me/staff", listMyMembershipsHandler(svc))

	r.Post("/staff/{membershipID}/accept", acceptMembershipHandler(svc))
	r.Post("/staff/{membershipID}/revoke", revokeMembershipHandler(svc))
}

type inviteRequest struct {
	NurseUserID string   `json:"nurse_user_id"`
	Scopes      []string `json:"scopes"`
}

type membershipResponse struct {
	ID          string     `json:"id"`
	ProviderID  string     `json:"provider_id"`
	OwnerUserID string     `json:"owner_user_id"`
	NurseUserID string     `json:"nurse_user_id"`
	Scopes      []string   `json:"scopes"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
}

func inviteStaffHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req inviteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		scopes := make([]Scope, 0, len(req.Scopes))
		for _, sc := range req.Scopes {
			scopes = append(scopes, Scope(sc))
		}

		m, err := svc.Invite(r.Context(), InviteInput{
			ProviderID:  chi.URLParam(r, "providerID"),
			OwnerUserID: claims.UserID,
			NurseUserID: req.NurseUserID,
			Scopes:      scopes,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toMembershipResponse(m))
	}
}

func listProviderStaffHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByProvider(r.Context(), chi.URLParam(r, "providerID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]membershipResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMembershipResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func listMyMembershipsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByNurse(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]membershipResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMembershipResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func acceptMembershipHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		m, err := svc.Accept(r.Context(), chi.URLParam(r, "membershipID"), claims.UserID)
		if err != nil {
			writeLifecycleError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toMembershipResponse(m))
	}
}

func revokeMembershipHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		m, err := svc.Revoke(r.Context(), chi.URLParam(r, "membershipID"), claims.UserID)
		if err != nil {
			writeLifecycleError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toMembershipResponse(m))
	}
}

func writeLifecycleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "membership not found", http.StatusNotFound)
	case errors.Is(err, ErrBadState):
		http.Error(w, "invalid state", http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toMembershipResponse(m Membership) membershipResponse {
	scopes := make([]string, 0, len(m.Scopes))
	for _, sc := range m.Scopes {
		scopes = append(scopes, string(sc))
	}
	return membershipResponse{
		ID:          m.ID,
		ProviderID:  m.ProviderID,
		OwnerUserID: m.OwnerUserID,
		NurseUserID: m.NurseUserID,
		Scopes:      scopes,
		Status:      string(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		RevokedAt:   m.RevokedAt,
	}
}

// writeJSON duplicado a propósito (ver nota en bookings/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
