package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// HealthProbe is any collaborator client that can answer a health check.
type HealthProbe interface {
	Health(ctx context.Context) error
}

// UpstreamHealthJob periodically probes the collaborator services and logs
// reachability. It is observability only: a failed probe is logged, never
// fatal, and the serving path does its own live checks.
type UpstreamHealthJob struct {
	probes map[string]HealthProbe
	log    zerolog.Logger
}

// NewUpstreamHealthJob creates the periodic upstream health probe.
func NewUpstreamHealthJob(probes map[string]HealthProbe, log zerolog.Logger) *UpstreamHealthJob {
	return &UpstreamHealthJob{
		probes: probes,
		log:    log.With().Str("job", "upstream_health").Logger(),
	}
}

// Name returns the job name
func (j *UpstreamHealthJob) Name() string {
	return "upstream_health"
}

// Run probes every registered collaborator once. The sweep carries its own
// budget inside the scheduler's run context.
func (j *UpstreamHealthJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unhealthy := 0
	for name, probe := range j.probes {
		if err := probe.Health(ctx); err != nil {
			unhealthy++
			j.log.Warn().Err(err).Str("service", name).Msg("Upstream unreachable")
		} else {
			j.log.Debug().Str("service", name).Msg("Upstream healthy")
		}
	}

	if unhealthy > 0 {
		j.log.Info().Int("unhealthy", unhealthy).Int("total", len(j.probes)).Msg("Upstream health sweep complete")
	}

	return nil
}
