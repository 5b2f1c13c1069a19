package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"tripweaver/internal/app"
	"tripweaver/internal/domain"
)

// Client closed the connection before we responded (nginx convention).
const statusClientClosedRequest = 499

type Handlers struct{ P *app.Planner }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/itineraries", h.generateItinerary)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

type tripRequestDTO struct {
	Destination             string   `json:"destination"`
	StartDate               string   `json:"startDate"`
	EndDate                 string   `json:"endDate"`
	Travelers               int      `json:"travelers"`
	Budget                  any      `json:"budget"` // numeric or qualitative
	Interests               []string `json:"interests"`
	DietaryPreferences      []string `json:"dietaryPreferences"`
	AccommodationPreference string   `json:"accommodationPreference"`
	TripPace                string   `json:"tripPace"`
}

func (dto tripRequestDTO) toDomain() (domain.TripRequest, error) {
	if strings.TrimSpace(dto.Destination) == "" {
		return domain.TripRequest{}, errors.New("destination is required")
	}
	start, err := time.Parse("2006-01-02", dto.StartDate)
	if err != nil {
		return domain.TripRequest{}, fmt.Errorf("startDate: %w", err)
	}
	end, err := time.Parse("2006-01-02", dto.EndDate)
	if err != nil {
		return domain.TripRequest{}, fmt.Errorf("endDate: %w", err)
	}
	if end.Before(start) {
		return domain.TripRequest{}, errors.New("endDate precedes startDate")
	}
	travelers := dto.Travelers
	if travelers <= 0 {
		travelers = 1
	}
	budget := ""
	if dto.Budget != nil {
		budget = fmt.Sprintf("%v", dto.Budget)
	}
	return domain.TripRequest{
		Destination:      strings.TrimSpace(dto.Destination),
		StartDate:        start,
		EndDate:          end,
		Travelers:        travelers,
		Budget:           budget,
		Interests:        dto.Interests,
		Dietary:          dto.DietaryPreferences,
		AccommodationPrf: dto.AccommodationPreference,
		Pace:             dto.TripPace,
	}, nil
}

func (h *Handlers) generateItinerary(w http.ResponseWriter, r *http.Request) {
	var dto tripRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	req, err := dto.toDomain()
	if err != nil {
		writeProblem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
		return
	}

	plan, err := h.P.Generate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			writeProblem(w, statusClientClosedRequest, "Client Closed Request", "generation cancelled")
		case errors.Is(err, context.DeadlineExceeded):
			writeProblem(w, http.StatusGatewayTimeout, "Gateway Timeout", "generation deadline exceeded")
		default:
			writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(plan); err != nil {
		log.Error().Err(err).Msg("write plan response failed")
	}
}
