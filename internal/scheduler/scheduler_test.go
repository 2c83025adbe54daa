package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProbe struct {
	err         error
	calls       int
	hadDeadline bool
}

func (p *stubProbe) Health(ctx context.Context) error {
	p.calls++
	_, p.hadDeadline = ctx.Deadline()
	return p.err
}

func TestUpstreamHealthJob_Run(t *testing.T) {
	healthy := &stubProbe{}
	down := &stubProbe{err: errors.New("connection refused")}

	job := NewUpstreamHealthJob(map[string]HealthProbe{
		"mcsi":  healthy,
		"yield": down,
	}, zerolog.Nop())

	// Unreachable collaborators are logged, never fatal.
	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, 1, healthy.calls)
	assert.Equal(t, 1, down.calls)

	// The sweep bounds each probe with a deadline.
	assert.True(t, healthy.hadDeadline)
	assert.True(t, down.hadDeadline)
}

func TestUpstreamHealthJob_Name(t *testing.T) {
	job := NewUpstreamHealthJob(nil, zerolog.Nop())
	assert.Equal(t, "upstream_health", job.Name())
}

func TestAddJob(t *testing.T) {
	s := New(zerolog.Nop())
	job := NewUpstreamHealthJob(nil, zerolog.Nop())

	assert.NoError(t, s.AddJob("@every 5m", job))
	assert.Error(t, s.AddJob("not a schedule", job))
}
