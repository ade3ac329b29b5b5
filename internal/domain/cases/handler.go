package cases

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
	r.Route("/cases", func(cr chi.Router) {
		cr.Get("/", listCasesHandler(svc))
		cr.Post("/refresh", refreshCasesHandler(svc))
		cr.Post("/{caseID}/assess", assessCaseHandler(svc))
	})
}

type caseResponse struct {
	ID              string      `json:"id"`
	CaseNumber      string      `json:"case_number"`
	Title           string      `json:"title"`
	Description     string      `json:"description,omitempty"`
	Severity        string      `json:"severity"`
	SeverityLabel   string      `json:"severity_label"`
	Status          string      `json:"status"`
	Source          string      `json:"source"`
	PetName         string      `json:"pet_name"`
	CustomerName    string      `json:"customer_name"`
	CustomerEmail   string      `json:"customer_email,omitempty"`
	ServiceType     string      `json:"service_type"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	AssignedNurseID string      `json:"assigned_nurse_id,omitempty"`
	Booking         *bookingRef `json:"booking,omitempty"`

	// CanQuickAssess: el control de quick assessment solo se habilita para
	// casos pending con camino de write-back.
	CanQuickAssess bool `json:"can_quick_assess"`
}

type bookingRef struct {
	BookingID       string `json:"booking_id"`
	AppointmentDate string `json:"appointment_date,omitempty"`
	AppointmentTime string `json:"appointment_time,omitempty"`
}

type worklistResponse struct {
	Cases []caseResponse `json:"cases"`
	Total int            `json:"total"`
}

type assessCaseRequest struct {
	Severity string `json:"severity"`
}

type assessCaseResponse struct {
	Updated bool          `json:"updated"`
	Case    *caseResponse `json:"case,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func listCasesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q := r.URL.Query()
		in := ViewInput{
			Filter: ParseFilter(q.Get("filter")),
			Search: q.Get("q"),
			Sort:   ParseSortMode(q.Get("sort")),
		}

		items, err := svc.Query(r.Context(), claims.UserID, in)
		if err != nil {
			writeEngineError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toWorklistResponse(items))
	}
}

func refreshCasesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.Refresh(r.Context(), claims.UserID)
		if err != nil {
			writeEngineError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toWorklistResponse(items))
	}
}

func assessCaseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req assessCaseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sev, err := ParseSeverity(strings.TrimSpace(req.Severity))
		if err != nil {
			http.Error(w, "severity must be one of: emergency, serious, moderate, mild", http.StatusBadRequest)
			return
		}

		c, updated, err := svc.Assess(r.Context(), claims.UserID, chi.URLParam(r, "caseID"), sev)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotAssessable), errors.Is(err, ErrAlreadyAssessed):
				http.Error(w, err.Error(), http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		resp := assessCaseResponse{Updated: updated}
		if updated {
			cr := toCaseResponse(c)
			resp.Case = &cr
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// writeEngineError distingue los dos estados globales del aggregator:
// setup pendiente (migración faltante) vs fuentes caídas (transitorio,
// tiene sentido un retry).
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSetupRequired):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "setup_required"})
	case errors.Is(err, ErrSourcesUnavailable):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "sources_unavailable"})
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toWorklistResponse(items []Case) worklistResponse {
	out := make([]caseResponse, 0, len(items))
	for _, c := range items {
		out = append(out, toCaseResponse(c))
	}
	return worklistResponse{Cases: out, Total: len(out)}
}

func toCaseResponse(c Case) caseResponse {
	resp := caseResponse{
		ID:              c.ID,
		CaseNumber:      c.CaseNumber,
		Title:           c.Title,
		Description:     c.Description,
		Severity:        string(c.Severity),
		SeverityLabel:   c.Severity.Label(),
		Status:          c.Status,
		Source:          string(c.Source),
		PetName:         c.PetName,
		CustomerName:    c.CustomerName,
		CustomerEmail:   c.CustomerEmail,
		ServiceType:     c.ServiceType,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		AssignedNurseID: c.AssignedNurseID,
		CanQuickAssess:  c.Severity == SeverityPending && c.Source != SourceConsultationBooking,
	}
	if c.BookingRef != nil {
		resp.Booking = &bookingRef{
			BookingID:       c.BookingRef.BookingID,
			AppointmentDate: c.BookingRef.AppointmentDate,
			AppointmentTime: c.BookingRef.AppointmentTime,
		}
	}
	return resp
}

// writeJSON duplicado a propósito (ver nota en bookings/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
