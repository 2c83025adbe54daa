package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/agriguard/agriguard-go/internal/clients/forecast"
	"github.com/agriguard/agriguard-go/internal/clients/generation"
	"github.com/agriguard/agriguard-go/internal/clients/mcsi"
	"github.com/agriguard/agriguard-go/internal/clients/retrieval"
	"github.com/agriguard/agriguard-go/internal/domain"
	"github.com/agriguard/agriguard-go/internal/modules/advisory"
	"github.com/agriguard/agriguard-go/internal/modules/counties"
	"github.com/agriguard/agriguard-go/internal/modules/features"
	"github.com/agriguard/agriguard-go/internal/modules/stress"
	"github.com/agriguard/agriguard-go/internal/upstream"
	"github.com/agriguard/agriguard-go/pkg/formulas"
)

// Default number of weeks fetched for the season-to-date window.
const defaultTimeseriesLimit = 30

// Service coordinates the collaborator services. All state is request-scoped;
// the service itself holds only injected clients and configuration, so it is
// safe for concurrent use.
type Service struct {
	stressClient *mcsi.Client
	yieldClient  *forecast.Client
	ragClient    *retrieval.Client // optional
	genClient    *generation.Client
	counties     *counties.Repository
	transformer  *features.Transformer
	engine       *advisory.Engine
	seasonYear   int
	log          zerolog.Logger
}

// ServiceConfig wires the orchestrator's collaborators.
type ServiceConfig struct {
	StressClient   *mcsi.Client
	YieldClient    *forecast.Client
	RagClient      *retrieval.Client
	GenClient      *generation.Client
	Counties       *counties.Repository
	AdvisoryConfig advisory.Config
	SeasonYear     int
	Log            zerolog.Logger
}

// NewService creates the orchestration service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		stressClient: cfg.StressClient,
		yieldClient:  cfg.YieldClient,
		ragClient:    cfg.RagClient,
		genClient:    cfg.GenClient,
		counties:     cfg.Counties,
		transformer:  features.NewTransformer(),
		engine:       advisoryEngine(cfg),
		seasonYear:   cfg.SeasonYear,
		log:          cfg.Log.With().Str("component", "orchestrator").Logger(),
	}
}

func advisoryEngine(cfg ServiceConfig) *advisory.Engine {
	modelName := "none"
	if cfg.GenClient != nil {
		modelName = cfg.GenClient.Model()
	}
	advCfg := cfg.AdvisoryConfig
	return advisory.NewEngine(advCfg, modelName, cfg.Log)
}

// Health probes every critical dependency concurrently. Each probe already
// includes the fallback-address retry. The report is healthy only when all
// critical dependencies answered on some address; a hard failure of the check
// itself yields unhealthy with the diagnostic attached, never a panic.
func (s *Service) Health(ctx context.Context) (report HealthReport) {
	defer func() {
		if r := recover(); r != nil {
			report = HealthReport{
				Status:   StatusUnhealthy,
				Services: map[string]string{},
				Error:    fmt.Sprintf("health check panicked: %v", r),
			}
		}
	}()

	var stressErr, yieldErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stressErr = s.stressClient.Health(gctx)
		return nil
	})
	g.Go(func() error {
		yieldErr = s.yieldClient.Health(gctx)
		return nil
	})
	g.Wait()

	services := map[string]string{
		"mcsi":  healthLabel(stressErr),
		"yield": healthLabel(yieldErr),
	}

	// Retrieval and generation are enrichment-only; reported but not gating.
	if s.ragClient != nil {
		services["rag"] = healthLabel(s.ragClient.Health(ctx))
	}
	if s.genClient != nil {
		if s.genClient.Available() {
			services["gemini"] = "configured"
		} else {
			services["gemini"] = "not_configured"
		}
	}

	status := StatusHealthy
	if stressErr != nil || yieldErr != nil {
		status = StatusDegraded
	}

	return HealthReport{Status: status, Services: services}
}

func healthLabel(err error) string {
	if err != nil {
		return "unhealthy"
	}
	return "healthy"
}

// Stress fetches the current stress snapshot for a county (pass-through with
// fallback).
func (s *Service) Stress(ctx context.Context, county string) (*stress.Snapshot, error) {
	return s.stressClient.Current(ctx, county)
}

// Timeseries fetches the indicator history for a county. Entries are returned
// exactly as the upstream sent them; the summary is derived locally.
func (s *Service) Timeseries(ctx context.Context, county string, q mcsi.TimeseriesQuery) (*TimeseriesResponse, error) {
	if q.Limit <= 0 {
		q.Limit = defaultTimeseriesLimit
	}

	entries, err := s.stressClient.Timeseries(ctx, county, q)
	if err != nil {
		return nil, err
	}

	return &TimeseriesResponse{
		Fips:    county,
		Entries: entries,
		Summary: summarize(entries),
	}, nil
}

func summarize(entries []stress.TimeseriesEntry) *TimeseriesSummary {
	if len(entries) == 0 {
		return nil
	}

	csi := make([]float64, len(entries))
	for i, e := range entries {
		csi[i] = e.CSIOverall
	}

	return &TimeseriesSummary{
		Weeks:     len(entries),
		LatestCSI: csi[len(csi)-1],
		Trend:     formulas.TrendDirection(csi, 3),
	}
}

// Forecast runs the composite-forecast protocol for a county: fetch the
// season-to-date timeseries, resolve the current week, build the feature
// payload, call the model service, and merge the response with fallback
// defaults for optional fields. week ≤ 0 means "latest observed week".
func (s *Service) Forecast(ctx context.Context, county string, week int) (*domain.YieldForecast, error) {
	entries, err := s.stressClient.Timeseries(ctx, county, mcsi.TimeseriesQuery{Limit: defaultTimeseriesLimit})
	if err != nil {
		return nil, err
	}

	return s.assembleForecast(ctx, county, entries, week)
}

// assembleForecast is steps (2)-(6) of the composite-forecast protocol, split
// out so Interpret can reuse an already-fetched timeseries.
func (s *Service) assembleForecast(ctx context.Context, county string, entries []stress.TimeseriesEntry, week int) (*domain.YieldForecast, error) {
	currentWeek := s.transformer.CurrentWeek(entries, week)
	rawData := s.transformer.BuildRawData(entries, currentWeek)

	resp, err := s.yieldClient.Forecast(ctx, forecast.Request{
		Fips:        county,
		CurrentWeek: currentWeek,
		Year:        s.seasonYear,
		RawData:     rawData,
	})
	if err != nil {
		return nil, err
	}

	// Merge with defaults. This step never fails on missing optional fields.
	fc := &domain.YieldForecast{
		Fips:           county,
		Week:           currentWeek,
		Year:           s.seasonYear,
		PredictedYield: *resp.YieldForecastBuAcre,
		Uncertainty:    domain.DefaultUncertainty,
		PrimaryDriver:  resp.PrimaryDriver,
		ModelR2:        domain.DefaultModelR2,
	}
	if fc.PrimaryDriver == "" {
		fc.PrimaryDriver = "unknown"
	}
	if resp.ForecastUncertainty != nil && *resp.ForecastUncertainty > 0 {
		fc.Uncertainty = *resp.ForecastUncertainty
	}
	if resp.ModelR2 != nil {
		fc.ModelR2 = *resp.ModelR2
	}
	if resp.ConfidenceLower != nil {
		fc.ConfidenceLower = *resp.ConfidenceLower
	} else {
		fc.ConfidenceLower = fc.PredictedYield - fc.Uncertainty
	}
	if resp.ConfidenceUpper != nil {
		fc.ConfidenceUpper = *resp.ConfidenceUpper
	} else {
		fc.ConfidenceUpper = fc.PredictedYield + fc.Uncertainty
	}

	// A shape-valid response can still violate the interval invariant; that is
	// a malformed response, not a servable forecast.
	if err := fc.Validate(); err != nil {
		return nil, &upstream.Error{Kind: upstream.KindMalformed, Service: "yield", Err: err}
	}

	if resp.BaselineYield != nil {
		fc.BaselineYield = *resp.BaselineYield
	} else if c, err := s.counties.Get(fc.Fips); err == nil {
		fc.BaselineYield = c.BaselineYield
	}

	s.log.Info().
		Str("fips", fc.Fips).
		Int("week", fc.Week).
		Float64("predicted_yield", fc.PredictedYield).
		Msg("Forecast assembled")

	return fc, nil
}

// Interpret runs the full synthesis: stress snapshot and forecast chain in
// parallel (the forecast leg is internally sequential: timeseries before the
// model call), then the advisory engine, optional retrieval, and optional
// narrative generation.
func (s *Service) Interpret(ctx context.Context, county string, week int, question string) (*Interpretation, error) {
	var (
		snap    *stress.Snapshot
		entries []stress.TimeseriesEntry
		fc      *domain.YieldForecast
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap, err = s.stressClient.Current(gctx, county)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.stressClient.Timeseries(gctx, county, mcsi.TimeseriesQuery{Limit: defaultTimeseriesLimit})
		if err != nil {
			return err
		}
		fc, err = s.assembleForecast(gctx, county, entries, week)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	countyInfo, err := s.counties.Get(county)
	if err != nil {
		return nil, err
	}
	countyName := snap.CountyName
	if countyName == "" {
		countyName = countyInfo.Name
	}
	if fc.BaselineYield == 0 {
		fc.BaselineYield = countyInfo.BaselineYield
	}

	recs := s.engine.Recommendations(snap, fc)
	risk := s.engine.AssessRisk(snap, fc)
	prov := s.engine.Provenance(snap, fc)

	trend := ""
	if sum := summarize(entries); sum != nil {
		trend = sum.Trend
	}

	snippets := s.retrieve(ctx, snap, fc)
	contextBlob := s.engine.BuildContext(snap, fc, countyName, trend, snippets)

	result := &Interpretation{
		Fips:            county,
		CountyName:      countyName,
		Week:            fc.Week,
		Stress:          snap,
		Forecast:        fc,
		Recommendations: recs,
		RiskAssessment:  risk,
		NarrativeStatus: NarrativeUnavailable,
		DataSources:     prov,
		ModelVersion:    prov.Model,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	}

	if s.genClient != nil {
		narrative, err := s.genClient.Generate(ctx, s.engine.BuildPrompt(contextBlob, question))
		switch {
		case err == nil:
			result.Narrative = narrative
			result.NarrativeStatus = NarrativeGenerated
		case errors.Is(err, generation.ErrUnavailable):
			s.log.Debug().Msg("Narrative generation not configured, serving deterministic output")
		default:
			// Deterministic recommendations still stand; the narrative is
			// flagged rather than fabricated.
			s.log.Warn().Err(err).Msg("Narrative generation failed")
		}
	}

	return result, nil
}

// retrieve queries the knowledge base for grounding snippets. Retrieval is
// best-effort: any failure degrades to an empty snippet list.
func (s *Service) retrieve(ctx context.Context, snap *stress.Snapshot, fc *domain.YieldForecast) []retrieval.Snippet {
	if s.ragClient == nil {
		return nil
	}

	query := fmt.Sprintf("corn %s stress week %d yield outlook",
		stress.StatusFor(snap.OverallStressIndex), fc.Week)

	snippets, err := s.ragClient.Query(ctx, query, s.engine.MaxSnippets())
	if err != nil {
		s.log.Warn().Err(err).Msg("Knowledge retrieval failed, continuing without snippets")
		return nil
	}

	return snippets
}
