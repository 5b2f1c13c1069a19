package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tripweaver/internal/adapters/observability"
	"tripweaver/internal/domain"
	"tripweaver/internal/parser"
)

// PlannerConfig carries the per-call budgets of one pipeline run.
type PlannerConfig struct {
	FetchWorkers    int
	FetchTimeout    time.Duration
	WeatherTimeout  time.Duration
	GenerateTimeout time.Duration
	DiagDir         string // parse-failure artifacts; empty disables
}

func (c PlannerConfig) withDefaults() PlannerConfig {
	if c.FetchWorkers <= 0 {
		c.FetchWorkers = 4
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 10 * time.Second
	}
	if c.WeatherTimeout <= 0 {
		c.WeatherTimeout = 5 * time.Second
	}
	if c.GenerateTimeout <= 0 {
		c.GenerateTimeout = 60 * time.Second
	}
	return c
}

// Planner runs the itinerary pipeline: concurrent catalog + weather
// fetch, prompt composition, generation, parse cascade, reconciliation,
// enrichment, budget, assembly. Providers are injected collaborators.
type Planner struct {
	agg     *Aggregator
	weather domain.WeatherProvider
	model   domain.GenerationClient
	cfg     PlannerConfig
}

func NewPlanner(places domain.PlaceSearchProvider, weather domain.WeatherProvider,
	model domain.GenerationClient, cfg PlannerConfig) *Planner {
	cfg = cfg.withDefaults()
	return &Planner{
		agg:     NewAggregator(places, cfg.FetchWorkers, cfg.FetchTimeout),
		weather: weather,
		model:   model,
		cfg:     cfg,
	}
}

// Generate produces a structurally valid plan for req. The only error
// it returns is cooperative cancellation (ctx); every business-logic
// failure is absorbed into a degraded-but-valid plan with
// metadata.fallback / metadata.errors set.
func (p *Planner) Generate(ctx context.Context, req domain.TripRequest) (*domain.TripPlan, error) {
	start := time.Now()
	requestID := uuid.NewString()
	logger := log.With().Str("request_id", requestID).Str("destination", req.Destination).Logger()

	if err := ctx.Err(); err != nil {
		observability.ObservePipeline("cancelled", time.Since(start))
		return nil, err
	}

	// Weather runs beside the catalog fan-out and is joined only at
	// assembly. Buffered so an abandoned result never leaks the goroutine.
	weatherCh := make(chan *domain.WeatherReport, 1)
	go func() {
		wctx, cancel := context.WithTimeout(ctx, p.cfg.WeatherTimeout)
		defer cancel()
		w, err := p.weather.Current(wctx, req.Destination)
		if err != nil {
			logger.Warn().Err(err).Msg("weather degraded")
			w = nil
		}
		weatherCh <- w
	}()

	stageStart := time.Now()
	snap, degraded := p.agg.Snapshot(ctx, req)
	observability.ObserveStage("catalog", time.Since(stageStart))
	logger.Info().Int("places", snap.Total()).Int("degraded_queries", len(degraded)).Msg("catalog built")

	if err := ctx.Err(); err != nil {
		observability.ObservePipeline("cancelled", time.Since(start))
		return nil, err
	}

	it, fallback, genErrs := p.generateItinerary(ctx, logger, requestID, req, snap)
	if it == nil {
		// generateItinerary returns nil only on cancellation
		observability.ObservePipeline("cancelled", time.Since(start))
		return nil, ctx.Err()
	}
	errs := append(degraded, genErrs...)

	stageStart = time.Now()
	stats := Reconcile(it, snap)
	observability.ObserveStage("reconcile", time.Since(stageStart))
	if stats.Substituted+stats.Dropped+stats.Gaps > 0 {
		logger.Info().Int("substituted", stats.Substituted).Int("dropped", stats.Dropped).
			Int("gaps", stats.Gaps).Msg("place ids reconciled")
	}

	Enrich(it, snap)
	budget := ComputeBudget(it)

	if err := ctx.Err(); err != nil {
		observability.ObservePipeline("cancelled", time.Since(start))
		return nil, err
	}

	var weather *domain.WeatherReport
	select {
	case weather = <-weatherCh:
	case <-time.After(p.cfg.WeatherTimeout):
		logger.Warn().Msg("weather join timed out")
	case <-ctx.Done():
		observability.ObservePipeline("cancelled", time.Since(start))
		return nil, ctx.Err()
	}

	meta := domain.PlanMetadata{
		RequestID:   requestID,
		GeneratedAt: time.Now().UTC(),
		Fallback:    fallback,
		Errors:      errs,
	}
	plan := Assemble(*it, snap, budget, weather, meta)

	outcome := "success"
	switch {
	case fallback:
		outcome = "fallback"
	case len(errs) > 0 || weather == nil:
		outcome = "partial"
	}
	observability.ObservePipeline(outcome, time.Since(start))
	logger.Info().Str("outcome", outcome).Dur("elapsed", time.Since(start)).Msg("plan assembled")
	return plan, nil
}

// generateItinerary calls the model and runs the parse cascade. A nil
// itinerary means the context was cancelled; any other failure yields
// the fallback skeleton plus error strings for metadata.
func (p *Planner) generateItinerary(ctx context.Context, logger zerolog.Logger, requestID string,
	req domain.TripRequest, snap domain.CatalogSnapshot) (*domain.Itinerary, bool, []string) {

	prompt := ComposePrompt(req, snap)

	stageStart := time.Now()
	gctx, cancel := context.WithTimeout(ctx, p.cfg.GenerateTimeout)
	raw, err := p.model.Generate(gctx, prompt)
	cancel()
	observability.ObserveStage("generate", time.Since(stageStart))

	if ctx.Err() != nil {
		return nil, false, nil
	}
	if err != nil {
		logger.Warn().Err(err).Msg("generation failed, using fallback skeleton")
		return fallbackItinerary(req), true, []string{fmt.Sprintf("generation: %v", err)}
	}

	it, stage, perr := parser.Parse[domain.Itinerary](raw)
	if perr != nil {
		var pe *parser.ParseError
		if errors.As(perr, &pe) {
			writeDiagnostic(p.cfg.DiagDir, requestID, raw, pe.Attempt)
		}
		logger.Warn().Err(perr).Msg("model output unrecoverable, using fallback skeleton")
		return fallbackItinerary(req), true, []string{"parse: unrecoverable model output"}
	}
	observability.ObserveParseRecovery(stage.String())
	if it.Destination == "" {
		it.Destination = req.Destination
	}
	return it, false, nil
}

// fallbackItinerary is the minimal valid empty-activity skeleton, sized
// to the trip length.
func fallbackItinerary(req domain.TripRequest) *domain.Itinerary {
	days := make([]domain.DayPlan, 0, req.Days())
	for i := 0; i < req.Days(); i++ {
		days = append(days, domain.DayPlan{
			Day:        i + 1,
			Date:       req.StartDate.AddDate(0, 0, i).Format("2006-01-02"),
			Activities: []domain.ActivitySlot{},
			Meals:      []domain.MealSlot{},
		})
	}
	return &domain.Itinerary{Destination: req.Destination, Days: days}
}
