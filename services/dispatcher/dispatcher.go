package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sjsage522/storefinder/helpers"
	"sjsage522/storefinder/internal/scraper"
	"sjsage522/storefinder/logger"
)

// TaskRunner scrapes one store and always yields exactly one record.
type TaskRunner interface {
	ScrapeStore(ctx context.Context, store scraper.StoreDescriptor, query string) scraper.ResultRecord
}

// Dispatcher fans one query out to every store under bounded concurrency and
// a per-task timeout, collecting one record per store regardless of outcome.
type Dispatcher struct {
	runner         TaskRunner
	maxConcurrency int
	storeTimeout   time.Duration
	log            *logger.Logger
}

// New creates a dispatcher.
func New(runner TaskRunner, maxConcurrency int, storeTimeout time.Duration) *Dispatcher {
	return &Dispatcher{
		runner:         runner,
		maxConcurrency: maxConcurrency,
		storeTimeout:   storeTimeout,
		log:            logger.ForDispatcher(),
	}
}

// Dispatch runs one scraping task per store. At most min(len(stores),
// maxConcurrency) tasks run at once; each task gets its own deadline measured
// from its own start, propagated through its context so in-flight I/O is
// cancelled rather than leaked. Output preserves submission order. A task
// that outlives its deadline is abandoned and replaced by a placeholder with
// notes "Scraping timed out"; a panic escaping a task becomes a top-level
// error entry instead of a record. No per-store failure aborts the request.
func (d *Dispatcher) Dispatch(ctx context.Context, stores []scraper.StoreDescriptor, query string) ([]scraper.ResultRecord, []string) {
	workers := min(len(stores), d.maxConcurrency)
	d.log.Debug().
		Int("stores", len(stores)).
		Int("workers", workers).
		Str("query", query).
		Msg("Dispatching store tasks")

	records := make([]*scraper.ResultRecord, len(stores))
	taskErrs := make([]string, len(stores))

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, store := range stores {
		wg.Add(1)
		go func(i int, store scraper.StoreDescriptor) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			taskCtx, cancel := context.WithTimeout(ctx, d.storeTimeout)
			defer cancel()

			done := make(chan scraper.ResultRecord, 1)
			failed := make(chan string, 1)
			go func() {
				defer func() {
					if r := recover(); r != nil {
						failed <- fmt.Sprint(r)
					}
				}()
				done <- d.runner.ScrapeStore(taskCtx, store, query)
			}()

			select {
			case rec := <-done:
				if taskCtx.Err() != nil {
					records[i] = timeoutRecord(store, query)
					return
				}
				records[i] = &rec
			case msg := <-failed:
				d.log.Error().Str("store", store.Name).Str("panic", msg).Msg("Store task panicked")
				taskErrs[i] = store.Name + ": " + helpers.Truncate(msg, 80)
			case <-taskCtx.Done():
				d.log.Warn().Str("store", store.Name).Msg("Store task timed out")
				records[i] = timeoutRecord(store, query)
			}
		}(i, store)
	}
	wg.Wait()

	results := make([]scraper.ResultRecord, 0, len(stores))
	var errs []string
	for i := range stores {
		if records[i] != nil {
			results = append(results, *records[i])
		}
		if taskErrs[i] != "" {
			errs = append(errs, taskErrs[i])
		}
	}

	d.log.Debug().
		Int("results", len(results)).
		Int("errors", len(errs)).
		Msg("Dispatch complete")
	return results, errs
}

func timeoutRecord(store scraper.StoreDescriptor, query string) *scraper.ResultRecord {
	rec := scraper.NewPlaceholder(store, query, store.BaseURL, "Scraping timed out")
	return &rec
}
