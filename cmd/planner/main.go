package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"tripweaver/internal/adapters/memcache"
	"tripweaver/internal/adapters/observability"
	"tripweaver/internal/adapters/openai"
	"tripweaver/internal/adapters/places"
	"tripweaver/internal/adapters/weather"
	"tripweaver/internal/app"
	"tripweaver/internal/domain"
	"tripweaver/internal/shared"
)

// One-shot runner: reads a trip request as JSON from a file or stdin,
// runs the pipeline once, and prints the plan to stdout. Ctrl-C
// cancels cooperatively at the next stage boundary.
func main() {
	in := flag.String("in", "-", "trip request JSON file ('-' for stdin)")
	flag.Parse()

	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	req, err := readRequest(*in)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid trip request")
	}

	placesClient, err := places.New(cfg.PlacesBase, cfg.PlacesKey, cfg.PlacesRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize places client")
	}
	provider := places.NewCached(placesClient, memcache.New(cfg.CacheTTL), int(cfg.CacheTTL.Seconds()))

	planner := app.NewPlanner(
		provider,
		weather.New(cfg.WeatherBase, cfg.WeatherKey, cfg.WeatherTimeout),
		openai.New(cfg.OpenAIBase, cfg.OpenAIKey, cfg.OpenAIModel),
		app.PlannerConfig{
			FetchWorkers:    cfg.FetchWorkers,
			FetchTimeout:    cfg.FetchTimeout,
			WeatherTimeout:  cfg.WeatherTimeout,
			GenerateTimeout: cfg.GenerateTimeout,
			DiagDir:         cfg.DiagDir,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	plan, err := planner.Generate(ctx, req)
	if err != nil {
		log.Fatal().Err(err).Msg("plan generation cancelled")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(plan); err != nil {
		log.Fatal().Err(err).Msg("encode plan failed")
	}
}

type requestFile struct {
	Destination             string   `json:"destination"`
	StartDate               string   `json:"startDate"`
	EndDate                 string   `json:"endDate"`
	Travelers               int      `json:"travelers"`
	Budget                  string   `json:"budget"`
	Interests               []string `json:"interests"`
	DietaryPreferences      []string `json:"dietaryPreferences"`
	AccommodationPreference string   `json:"accommodationPreference"`
	TripPace                string   `json:"tripPace"`
}

func readRequest(path string) (domain.TripRequest, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return domain.TripRequest{}, err
		}
		defer f.Close()
		r = f
	}
	var rf requestFile
	if err := json.NewDecoder(r).Decode(&rf); err != nil {
		return domain.TripRequest{}, err
	}
	start, err := time.Parse("2006-01-02", rf.StartDate)
	if err != nil {
		return domain.TripRequest{}, err
	}
	end, err := time.Parse("2006-01-02", rf.EndDate)
	if err != nil {
		return domain.TripRequest{}, err
	}
	travelers := rf.Travelers
	if travelers <= 0 {
		travelers = 1
	}
	return domain.TripRequest{
		Destination:      strings.TrimSpace(rf.Destination),
		StartDate:        start,
		EndDate:          end,
		Travelers:        travelers,
		Budget:           rf.Budget,
		Interests:        rf.Interests,
		Dietary:          rf.DietaryPreferences,
		AccommodationPrf: rf.AccommodationPreference,
		Pace:             rf.TripPace,
	}, nil
}
