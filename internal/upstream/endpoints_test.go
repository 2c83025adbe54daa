package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_PrimarySucceeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ping", r.URL.Path)
		w.Write([]byte(`{"value": 42}`))
	}))
	defer srv.Close()

	e := NewEndpoints("mcsi", []string{srv.URL}, zerolog.Nop())

	var out struct {
		Value int `json:"value"`
	}
	require.NoError(t, e.Get(context.Background(), "/ping", &out))
	assert.Equal(t, 42, out.Value)
}

func TestGet_FallbackOnTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"source": "fallback"}`))
	}))
	defer srv.Close()

	// First candidate refuses connections; the second must be tried.
	e := NewEndpoints("mcsi", []string{"http://127.0.0.1:1", srv.URL}, zerolog.Nop())

	var out struct {
		Source string `json:"source"`
	}
	require.NoError(t, e.Get(context.Background(), "/x", &out))
	assert.Equal(t, "fallback", out.Source)
}

func TestGet_AllCandidatesDown(t *testing.T) {
	e := NewEndpoints("yield", []string{"http://127.0.0.1:1", "http://127.0.0.1:2"}, zerolog.Nop())

	err := e.Get(context.Background(), "/x", nil)
	require.Error(t, err)

	ue, ok := Classify(err)
	require.True(t, ok)
	assert.Equal(t, KindUnavailable, ue.Kind)
	assert.Equal(t, "yield", ue.Service)
	assert.NotNil(t, ue.Err)
	assert.True(t, IsUnavailable(err))
}

func TestGet_ErrorStatusDoesNotFallBack(t *testing.T) {
	primaryHits := 0
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		primaryHits++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer primary.Close()

	fallbackHits := 0
	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fallbackHits++
		w.Write([]byte(`{}`))
	}))
	defer fallback.Close()

	e := NewEndpoints("mcsi", []string{primary.URL, fallback.URL}, zerolog.Nop())

	err := e.Get(context.Background(), "/x", nil)
	require.Error(t, err)

	ue, ok := Classify(err)
	require.True(t, ok)
	assert.Equal(t, KindErrorStatus, ue.Kind)
	assert.Equal(t, http.StatusInternalServerError, ue.Status)

	// A reachable service that answered with an error is not retried.
	assert.Equal(t, 1, primaryHits)
	assert.Equal(t, 0, fallbackHits)
}

func TestGet_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	e := NewEndpoints("mcsi", []string{srv.URL}, zerolog.Nop())

	var out map[string]interface{}
	err := e.Get(context.Background(), "/x", &out)
	require.Error(t, err)

	ue, ok := Classify(err)
	require.True(t, ok)
	assert.Equal(t, KindMalformed, ue.Kind)
}

func TestPost_SendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	e := NewEndpoints("yield", []string{srv.URL}, zerolog.Nop())

	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, e.Post(context.Background(), "/forecast", map[string]int{"week": 30}, &out))
	assert.True(t, out.OK)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "upstream_unavailable", KindUnavailable.String())
	assert.Equal(t, "upstream_error", KindErrorStatus.String())
	assert.Equal(t, "malformed_upstream_response", KindMalformed.String())
}

func TestClassify_WrappedError(t *testing.T) {
	inner := &Error{Kind: KindErrorStatus, Service: "mcsi", Status: 404}
	wrapped := errors.Join(errors.New("context"), inner)

	ue, ok := Classify(wrapped)
	require.True(t, ok)
	assert.Equal(t, 404, ue.Status)
}
