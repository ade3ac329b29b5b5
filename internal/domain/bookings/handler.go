package bookings

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
	r.Route("/bookings", func(br chi.Router) {
		br.Post("/", createBookingHandler(svc))
		br.Get("/", listBookingsHandler(svc))
		br.Get("/{bookingID}", getBookingHandler(svc))
		br.Post("/{bookingID}/status", updateBookingStatusHandler(svc))
	})
}

type createBookingRequest struct {
	ProviderID       string `json:"provider_id"`
	PetName          string `json:"pet_name"`
	CustomerName     string `json:"customer_name"`
	CustomerEmail    string `json:"customer_email"`
	ConsultationType string `json:"consultation_type"`
	Reason           string `json:"reason"`
	AppointmentDate  string `json:"appointment_date"` // YYYY-MM-DD opcional
	AppointmentTime  string `json:"appointment_time"` // HH:MM opcional
}

type bookingResponse struct {
	ID               string    `json:"id"`
	ProviderID       string    `json:"provider_id"`
	PetName          string    `json:"pet_name"`
	CustomerName     string    `json:"customer_name"`
	CustomerEmail    string    `json:"customer_email"`
	ConsultationType string    `json:"consultation_type"`
	Reason           string    `json:"reason"`
	Status           string    `json:"status"`
	TriagePriority   string    `json:"triage_priority,omitempty"`
	AppointmentDate  string    `json:"appointment_date,omitempty"`
	AppointmentTime  string    `json:"appointment_time,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func createBookingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		b, err := svc.Create(r.Context(), CreateInput{
			ProviderID:       req.ProviderID,
			PetName:          req.PetName,
			CustomerName:     req.CustomerName,
			CustomerEmail:    req.CustomerEmail,
			ConsultationType: ConsultationType(strings.TrimSpace(req.ConsultationType)),
			Reason:           req.Reason,
			AppointmentDate:  req.AppointmentDate,
			AppointmentTime:  req.AppointmentTime,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toBookingResponse(b))
	}
}

func listBookingsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		filter := ListFilter{
			ProviderID: strings.TrimSpace(r.URL.Query().Get("provider_id")),
		}
		if st := strings.TrimSpace(r.URL.Query().Get("status")); st != "" {
			filter.Statuses = []Status{Status(st)}
		}

		items, err := svc.List(r.Context(), filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]bookingResponse, 0, len(items))
		for _, b := range items {
			out = append(out, toBookingResponse(b))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getBookingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		b, err := svc.GetByID(r.Context(), chi.URLParam(r, "bookingID"))
		if err != nil {
			http.Error(w, "booking not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toBookingResponse(b))
	}
}

func updateBookingStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		b, err := svc.UpdateStatus(r.Context(), chi.URLParam(r, "bookingID"), Status(strings.TrimSpace(req.Status)))
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "booking not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toBookingResponse(b))
	}
}

func toBookingResponse(b Booking) bookingResponse {
	return bookingResponse{
		ID:               b.ID,
		ProviderID:       b.ProviderID,
		PetName:          b.PetName,
		CustomerName:     b.CustomerName,
		CustomerEmail:    b.CustomerEmail,
		ConsultationType: string(b.ConsultationType),
		Reason:           b.Reason,
		Status:           string(b.Status),
		TriagePriority:   b.TriagePriority,
		AppointmentDate:  b.AppointmentDate,
		AppointmentTime:  b.AppointmentTime,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
