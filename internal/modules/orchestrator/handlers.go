package orchestrator

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/agriguard/agriguard-go/internal/clients/mcsi"
	"github.com/agriguard/agriguard-go/internal/modules/advisory"
	"github.com/agriguard/agriguard-go/internal/modules/stress"
	"github.com/agriguard/agriguard-go/internal/upstream"
)

// Handler exposes the orchestrator over HTTP. County path parameters pass
// through unvalidated; the sensing pipeline owns FIPS hygiene.
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new orchestrator handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("component", "orchestrator_handler").Logger(),
	}
}

// Routes mounts the orchestrator endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/health", h.HandleHealth)
	r.Get("/stress/{county}", h.HandleStress)
	r.Get("/stress/{county}/timeseries", h.HandleTimeseries)
	r.Get("/forecast/{county}", h.HandleForecast)
	r.Get("/interpret/{county}", h.HandleInterpret)
	r.Get("/knowledge", h.HandleKnowledge)
}

// HandleHealth reports aggregate dependency health. It never errors; the
// worst case is an unhealthy report with a diagnostic string.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	report := h.service.Health(r.Context())
	h.writeJSON(w, http.StatusOK, report)
}

// HandleStress serves the current stress snapshot for a county.
func (h *Handler) HandleStress(w http.ResponseWriter, r *http.Request) {
	county := chi.URLParam(r, "county")

	snap, err := h.service.Stress(r.Context(), county)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, snap)
}

// HandleTimeseries serves the indicator history for a county.
func (h *Handler) HandleTimeseries(w http.ResponseWriter, r *http.Request) {
	county := chi.URLParam(r, "county")

	q := mcsi.TimeseriesQuery{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			q.Limit = n
		}
	}

	resp, err := h.service.Timeseries(r.Context(), county, q)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// HandleForecast runs the composite-forecast protocol for a county.
func (h *Handler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	county := chi.URLParam(r, "county")
	week := parseWeek(r)

	fc, err := h.service.Forecast(r.Context(), county, week)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, fc)
}

// HandleInterpret runs the full synthesis for a county.
func (h *Handler) HandleInterpret(w http.ResponseWriter, r *http.Request) {
	county := chi.URLParam(r, "county")
	week := parseWeek(r)
	question := r.URL.Query().Get("question")

	result, err := h.service.Interpret(r.Context(), county, week, question)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// HandleKnowledge serves the fixed domain knowledge reference block.
func (h *Handler) HandleKnowledge(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, advisory.KnowledgeBase())
}

func parseWeek(r *http.Request) int {
	if week := r.URL.Query().Get("week"); week != "" {
		if n, err := strconv.Atoi(week); err == nil {
			return n
		}
	}
	return 0
}

// errorResponse is the stable error shape for all endpoints.
type errorResponse struct {
	Error          string `json:"error"`
	Classification string `json:"classification"`
	Detail         string `json:"detail,omitempty"`
}

func (h *Handler) writeUpstreamError(w http.ResponseWriter, err error) {
	var invalid *stress.ErrInvalidInput
	if errors.As(err, &invalid) {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:          "invalid input",
			Classification: "invalid_input",
			Detail:         invalid.Error(),
		})
		return
	}

	if ue, ok := upstream.Classify(err); ok {
		h.log.Error().Err(err).Str("service", ue.Service).Msg("Upstream call failed")
		h.writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error:          ue.Service + " unavailable",
			Classification: ue.Kind.String(),
			Detail:         ue.Error(),
		})
		return
	}

	h.log.Error().Err(err).Msg("Orchestration failed")
	h.writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error:          "internal error",
		Classification: "internal_error",
		Detail:         err.Error(),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
