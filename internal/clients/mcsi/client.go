package mcsi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/agriguard/agriguard-go/internal/modules/stress"
	"github.com/agriguard/agriguard-go/internal/upstream"
)

// Per-call timeout budgets. Health probes are cheap, single-county reads are
// medium, timeseries reads page through more data.
const (
	healthTimeout     = 5 * time.Second
	readTimeout       = 10 * time.Second
	timeseriesTimeout = 15 * time.Second
)

// Client is an HTTP client for the MCSI (crop stress) collaborator service.
type Client struct {
	endpoints *upstream.Endpoints
	log       zerolog.Logger
}

// NewClient creates a new MCSI client with an ordered list of candidate
// addresses (primary first, local fallback second).
func NewClient(addrs []string, log zerolog.Logger) *Client {
	return &Client{
		endpoints: upstream.NewEndpoints("mcsi", addrs, log),
		log:       log.With().Str("client", "mcsi").Logger(),
	}
}

// TimeseriesQuery bounds a timeseries read.
type TimeseriesQuery struct {
	Limit     int
	StartDate string
	EndDate   string
}

// Current fetches the latest stress snapshot for a county. The county
// identifier passes through unvalidated.
func (c *Client) Current(ctx context.Context, county string) (*stress.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var snap stress.Snapshot
	if err := c.endpoints.Get(ctx, "/stress/"+url.PathEscape(county), &snap); err != nil {
		return nil, err
	}

	return &snap, nil
}

// Timeseries fetches the indicator history for a county. The upstream returns
// either a list of entries or, for single-week counties, a bare entry; both
// shapes are accepted.
func (c *Client) Timeseries(ctx context.Context, county string, q TimeseriesQuery) ([]stress.TimeseriesEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, timeseriesTimeout)
	defer cancel()

	path := "/stress/" + url.PathEscape(county) + "/timeseries" + q.encode()

	var raw json.RawMessage
	if err := c.endpoints.Get(ctx, path, &raw); err != nil {
		return nil, err
	}

	var entries []stress.TimeseriesEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		var single stress.TimeseriesEntry
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, &upstream.Error{
				Kind:    upstream.KindMalformed,
				Service: "mcsi",
				Err:     fmt.Errorf("timeseries is neither a list nor an entry: %w", err),
			}
		}
		entries = []stress.TimeseriesEntry{single}
	}

	c.log.Debug().
		Str("county", county).
		Int("weeks", len(entries)).
		Msg("Fetched stress timeseries")

	return entries, nil
}

// Health probes the service's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	return c.endpoints.Get(ctx, "/health", nil)
}

func (q TimeseriesQuery) encode() string {
	v := url.Values{}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.StartDate != "" {
		v.Set("start_date", q.StartDate)
	}
	if q.EndDate != "" {
		v.Set("end_date", q.EndDate)
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}
