package forecast

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/agriguard/agriguard-go/internal/modules/features"
	"github.com/agriguard/agriguard-go/internal/upstream"
)

const (
	healthTimeout   = 5 * time.Second
	forecastTimeout = 15 * time.Second
)

// Client is an HTTP client for the yield forecasting collaborator service.
type Client struct {
	endpoints *upstream.Endpoints
	log       zerolog.Logger
}

// NewClient creates a new yield forecast client with an ordered list of
// candidate addresses (primary first, local fallback second).
func NewClient(addrs []string, log zerolog.Logger) *Client {
	return &Client{
		endpoints: upstream.NewEndpoints("yield", addrs, log),
		log:       log.With().Str("client", "yield").Logger(),
	}
}

// Request is the forecast request payload. Field names mirror the model
// service's contract.
type Request struct {
	Fips        string           `json:"fips"`
	CurrentWeek int              `json:"current_week"`
	Year        int              `json:"year"`
	RawData     features.RawData `json:"raw_data"`
}

// Response is the forecast response payload. Optional enrichment fields are
// pointers so the orchestrator can substitute documented defaults when the
// model service omits them.
type Response struct {
	YieldForecastBuAcre *float64 `json:"yield_forecast_bu_acre"`
	ForecastUncertainty *float64 `json:"forecast_uncertainty"`
	ConfidenceLower     *float64 `json:"confidence_interval_lower"`
	ConfidenceUpper     *float64 `json:"confidence_interval_upper"`
	PrimaryDriver       string   `json:"primary_driver"`
	ModelR2             *float64 `json:"model_r2"`
	BaselineYield       *float64 `json:"baseline_yield"`
}

// Forecast requests a yield forecast from the model service. A response
// without a predicted yield is malformed; missing optional fields are the
// orchestrator's problem, not an error.
func (c *Client) Forecast(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, forecastTimeout)
	defer cancel()

	start := time.Now()

	var resp Response
	if err := c.endpoints.Post(ctx, "/forecast", req, &resp); err != nil {
		return nil, err
	}

	if resp.YieldForecastBuAcre == nil {
		return nil, &upstream.Error{
			Kind:    upstream.KindMalformed,
			Service: "yield",
			Err:     errMissingYield,
		}
	}

	c.log.Info().
		Str("fips", req.Fips).
		Int("current_week", req.CurrentWeek).
		Int("weeks", len(req.RawData)).
		Float64("elapsed_seconds", time.Since(start).Seconds()).
		Msg("Yield forecast complete")

	return &resp, nil
}

// Health probes the service's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	return c.endpoints.Get(ctx, "/health", nil)
}
