package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Endpoints is an ordered list of candidate base URLs for one collaborator.
// The first entry is the primary (cluster-internal) address, later entries are
// fallbacks (typically a localhost address for single-host deployments).
//
// A request is attempted against each candidate in order. Only transport-level
// failures advance to the next candidate; an HTTP error status means the
// service is alive and is returned as-is. The last transport error is kept for
// diagnostics when every candidate fails.
type Endpoints struct {
	service    string
	addrs      []string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewEndpoints creates an endpoint set for a named collaborator service.
func NewEndpoints(service string, addrs []string, log zerolog.Logger) *Endpoints {
	return &Endpoints{
		service: service,
		addrs:   addrs,
		// Per-call budgets come from the caller's context; the client-level
		// timeout is a backstop only.
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        log.With().Str("component", "upstream").Str("service", service).Logger(),
	}
}

// Service returns the collaborator name used in error classification.
func (e *Endpoints) Service() string {
	return e.service
}

// Get issues a GET for path against the candidate addresses and decodes the
// JSON response body into out (skipped when out is nil).
func (e *Endpoints) Get(ctx context.Context, path string, out interface{}) error {
	return e.roundTrip(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON-encoded body against the candidate addresses
// and decodes the JSON response body into out (skipped when out is nil).
func (e *Endpoints) Post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &Error{Kind: KindMalformed, Service: e.service, Err: err}
	}
	return e.roundTrip(ctx, http.MethodPost, path, payload, out)
}

func (e *Endpoints) roundTrip(ctx context.Context, method, path string, body []byte, out interface{}) error {
	var lastErr error

	for i, addr := range e.addrs {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, addr+path, reader)
		if err != nil {
			return &Error{Kind: KindUnavailable, Service: e.service, Err: err}
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := e.httpClient.Do(req)
		if err != nil {
			// Transport failure: try the next candidate address.
			lastErr = err
			if i+1 < len(e.addrs) {
				e.log.Warn().
					Err(err).
					Str("addr", addr).
					Str("path", path).
					Msg("Primary address failed, trying fallback")
			}
			continue
		}

		err = e.consume(resp, out)
		resp.Body.Close()
		return err
	}

	return &Error{Kind: KindUnavailable, Service: e.service, Err: lastErr}
}

// consume checks the response status and decodes the body.
func (e *Endpoints) consume(resp *http.Response, out interface{}) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &Error{Kind: KindErrorStatus, Service: e.service, Status: resp.StatusCode}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindMalformed, Service: e.service, Err: err}
	}

	return nil
}
