package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"sjsage522/storefinder/config"
	"sjsage522/storefinder/helpers"
	"sjsage522/storefinder/internal/mockstore"
	"sjsage522/storefinder/internal/renderer"
	"sjsage522/storefinder/internal/request"
	"sjsage522/storefinder/internal/scraper"
	"sjsage522/storefinder/logger"
	apperr "sjsage522/storefinder/pkg/errors"
	"sjsage522/storefinder/services/cache"
	"sjsage522/storefinder/services/dispatcher"
	"sjsage522/storefinder/services/publisher"

	"github.com/joho/godotenv"
)

// Exit codes: 0 success, 1 validation or unexpected error, 130 interrupted.
const (
	exitOK          = 0
	exitError       = 1
	exitInterrupted = 130
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first; stdout is reserved for the JSON response
	logger.Init()
	log := logger.Default

	mock := flag.Bool("mock", false, "return deterministic mock data instead of scraping")
	flag.Parse()

	resp := request.NewResponse()
	emit := func() {
		enc := json.NewEncoder(os.Stdout)
		if err := enc.Encode(resp); err != nil {
			log.Error().Err(err).Msg("Failed to encode response")
		}
	}

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		resp.Errors = append(resp.Errors, "Unexpected error: "+err.Error())
		emit()
		return exitError
	}

	// Set up signal handling; an interrupt cancels in-flight store tasks
	var interrupted atomic.Bool
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig, ok := <-sigChan
		if !ok {
			return
		}
		log.Warn().Str("signal", sig.String()).Msg("Received shutdown signal")
		interrupted.Store(true)
		cancel()
	}()
	defer signal.Stop(sigChan)

	// Read the request from stdin
	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		resp.Errors = append(resp.Errors, "Unexpected error: "+err.Error())
		emit()
		return exitError
	}
	if strings.TrimSpace(string(input)) == "" {
		resp.Errors = append(resp.Errors, "No input provided")
		emit()
		return exitError
	}

	req, err := request.Parse(input)
	if err != nil {
		resp.Errors = append(resp.Errors, validationMessage(err))
		emit()
		return exitError
	}
	resp.Meta.Query = req.Query

	log.Info().
		Int("stores", len(req.Stores)).
		Str("query", req.Query).
		Bool("mock", *mock).
		Msg("Processing request")

	var results []scraper.ResultRecord
	var taskErrs []string

	if *mock {
		for _, store := range req.Stores {
			results = append(results, mockstore.Record(store, req.Query))
		}
	} else {
		helpers.Configure(cfg.HTTPTimeout, cfg.RateLimitPerHost, cfg.RateBurst)

		var cacheSvc cache.CacheService
		if cfg.MemcacheAddr != "" {
			cacheSvc = cache.NewMemcacheService(cfg.MemcacheAddr)
			log.Debug().Str("addr", cfg.MemcacheAddr).Msg("Using memcache block cache")
		} else {
			cacheSvc = cache.NewMemoryService()
		}

		var pageRenderer renderer.PageRenderer
		if !cfg.RendererDisabled {
			rod := renderer.NewRodRenderer(cfg.BrowserBin)
			defer rod.Close()
			pageRenderer = rod
		}

		fetcher := &scraper.Fetcher{
			Renderer: pageRenderer,
			Cache:    cacheSvc,
			BlockTTL: cfg.BlockTTL,
		}
		d := dispatcher.New(scraper.NewTask(fetcher), cfg.MaxConcurrency, cfg.StoreTimeout)
		results, taskErrs = d.Dispatch(ctx, req.Stores, req.Query)
	}

	if interrupted.Load() {
		resp.Errors = append(resp.Errors, "Interrupted by user")
		emit()
		return exitInterrupted
	}

	resp.Results = results
	resp.Errors = append(resp.Errors, taskErrs...)
	resp.Meta.StoresProcessed = len(req.Stores)
	resp.Meta.TotalResults = len(results)

	if cfg.PublishResults {
		publishResults(cfg, results)
	}

	emit()
	return exitOK
}

// publishResults pushes each record to the configured Redis stream.
// Best-effort: publish failures are logged and never fail the request.
func publishResults(cfg config.Config, results []scraper.ResultRecord) {
	log := logger.ForPublisher()
	pub := publisher.NewRedisPublisher(
		context.Background(),
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamMaxLength,
	)
	defer pub.Close()

	for _, rec := range results {
		data, err := json.Marshal(rec)
		if err != nil {
			log.Error().Err(err).Str("store", rec.StoreName).Msg("Failed to marshal record")
			continue
		}
		if err := pub.Publish(rec.StoreID, data); err != nil {
			log.Error().Err(err).Str("store", rec.StoreName).Msg("Failed to publish record")
		}
	}
}

// validationMessage unwraps the bare validation message for the errors array.
func validationMessage(err error) string {
	var serr *apperr.ScrapeError
	if errors.As(err, &serr) {
		return serr.Message
	}
	return err.Error()
}
